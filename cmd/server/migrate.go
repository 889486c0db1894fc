package main

import (
	"github.com/spf13/cobra"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		logger.Infof("migrations applied (storage=%s)", cfg.DBType)
		return nil
	},
}
