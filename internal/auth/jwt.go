package auth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

// JWTProvider accepts HS256 tokens signed with a shared secret. The user id
// is read from "sub", falling back to "user_id".
type JWTProvider struct {
	secret []byte
	logger internal.Logger
}

func NewJWTProvider(secret string, logger internal.Logger) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), logger: logger}
}

func (p *JWTProvider) Authenticate(_ context.Context, tokenStr string) (*internal.User, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		p.logger.Warnf("auth: jwt rejected: %v", err)
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID := claimString(claims["sub"])
	if userID == "" {
		userID = claimString(claims["user_id"])
	}
	if userID == "" {
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	return &internal.User{ID: userID, Token: tokenStr, Name: name}, nil
}

// SignToken issues an HS256 token for userID.
func (p *JWTProvider) SignToken(userID string, claims jwt.MapClaims) (string, error) {
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["sub"] = userID
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Numeric ids arrive as float64 after JSON decoding.
func claimString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
