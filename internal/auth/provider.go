package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Provider resolves a bearer token into the calling user.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.User, error)
}

// NewProvider builds the provider selected by cfg.AuthProvider.
func NewProvider(cfg *config.Config, logger internal.Logger) (Provider, error) {
	switch cfg.AuthProvider {
	case "local":
		return NewLocalAuthProvider(cfg.AuthTokens, logger), nil
	case "remote":
		return NewRemoteAuthProvider(cfg.AuthServiceURL, logger), nil
	case "jwt":
		return NewJWTProvider(cfg.JWTSecret, logger), nil
	default:
		return nil, fmt.Errorf("auth: unsupported provider %q", cfg.AuthProvider)
	}
}
