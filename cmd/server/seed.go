package main

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

var (
	seedUser string
	seedDays int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert generated sleep history for one user",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedUser, "user", "1", "User id that owns the generated records")
	seedCmd.Flags().IntVar(&seedDays, "days", 60, "Number of past nights to generate")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	repo, err := storage.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.Migrate(cmd.Context(), repo); err != nil {
		return err
	}

	now := time.Now().UTC()
	n, err := service.Seed(cmd.Context(), repo, seedUser, seedDays, now, rand.New(rand.NewSource(now.UnixNano())))
	if err != nil {
		logger.Errorf("seed failed after %d records: %v", n, err)
		return err
	}
	logger.Infof("seeded %d sleep records for user %s", n, seedUser)
	return nil
}
