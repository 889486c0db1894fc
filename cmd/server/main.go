package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sleeptracker",
	Short: "Sleep tracking API server",
	Long: `sleeptracker records nightly sleep, charts it over two-week and monthly
windows, and can ask Gemini for a diagnosis of the last month.
Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

func setup() (*config.Config, *internal.ZapLogger, error) {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
