package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

func TestLocalAuthProvider(t *testing.T) {
	p := NewLocalAuthProvider(map[string]string{"MOCK-TOKEN": "1"}, internal.NewNopLogger())

	user, err := p.Authenticate(context.Background(), "MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)

	_, err = p.Authenticate(context.Background(), "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTProvider(t *testing.T) {
	p := NewJWTProvider("s3cret", internal.NewNopLogger())

	token, err := p.SignToken("42", jwt.MapClaims{"name": "Kim", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)
	user, err := p.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "Kim", user.Name)

	numeric, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 7}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	user, err = p.Authenticate(context.Background(), numeric)
	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)

	expired, err := p.SignToken("42", jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	forged, err := NewJWTProvider("other", internal.NewNopLogger()).SignToken("42", nil)
	require.NoError(t, err)
	_, err = p.Authenticate(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRemoteAuthProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "9", "name": "Remote"})
	}))
	defer srv.Close()

	p := NewRemoteAuthProvider(srv.URL, internal.NewNopLogger())
	user, err := p.Authenticate(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "9", user.ID)
	assert.Equal(t, "good", user.Token)

	_, err = p.Authenticate(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := NewLocalAuthProvider(map[string]string{"MOCK-TOKEN": "1"}, internal.NewNopLogger())

	r := gin.New()
	r.Use(AuthMiddleware(p, internal.NewNopLogger()))
	r.GET("/me", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, user.ID)
	})

	tests := []struct {
		name   string
		target string
		header string
		status int
	}{
		{"bearer header", "/me", "Bearer MOCK-TOKEN", http.StatusOK},
		{"query token", "/me?token=MOCK-TOKEN", "", http.StatusOK},
		{"missing", "/me", "", http.StatusUnauthorized},
		{"wrong token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic MOCK-TOKEN", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "1", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":401`)
			}
		})
	}
}
