package auth

import (
	"context"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

// LocalAuthProvider accepts a fixed set of tokens, each bound to one user id.
type LocalAuthProvider struct {
	tokens map[string]string
	logger internal.Logger
}

func NewLocalAuthProvider(tokens map[string]string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{tokens: tokens, logger: logger}
}

func (a *LocalAuthProvider) Authenticate(_ context.Context, token string) (*internal.User, error) {
	userID, ok := a.tokens[token]
	if !ok {
		a.logger.Warnf("auth: unknown local token")
		return nil, ErrInvalidToken
	}
	return &internal.User{ID: userID, Token: token}, nil
}
