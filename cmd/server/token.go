package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cobra"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/auth"
)

var (
	tokenUser string
	tokenName string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed JWT for AUTH_PROVIDER=jwt",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "1", "User id placed in the sub claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Optional display name")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{"exp": time.Now().Add(tokenTTL).Unix()}
	if tokenName != "" {
		claims["name"] = tokenName
	}
	signed, err := auth.NewJWTProvider(cfg.JWTSecret, logger).SignToken(tokenUser, claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}
