package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DBType     string
	DBDSN      string
	SQLitePath string
	FileSleep  string

	AuthProvider   string
	AuthTokens     map[string]string // token -> user id
	AuthServiceURL string
	JWTSecret      string

	GeminiAPIKey  string
	GeminiModel   string
	AITimeout     time.Duration
	DiagnosisDays int

	RedisAddr         string
	RedisPassword     string
	AnalyzeRateLimit  int
	AnalyzeRateWindow time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the configuration once per process and panics when it is
// invalid.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8088"),
		DBType:         getEnv("STORAGE_BACKEND", "sqlite"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "data/sleep.db"),
		FileSleep:      getEnv("SLEEP_FILE", "data/sleep_records.json"),
		AuthProvider:   getEnv("AUTH_PROVIDER", "local"),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		GeminiAPIKey:   getEnv("GOOGLE_AI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
	}

	var err error
	if c.AuthTokens, err = parseTokens(getEnv("AUTH_TOKENS", "MOCK-TOKEN:1")); err != nil {
		return nil, err
	}
	if c.AITimeout, err = getDuration("AI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if c.DiagnosisDays, err = getInt("DIAGNOSIS_WINDOW_DAYS", 30); err != nil {
		return nil, err
	}
	if c.AnalyzeRateLimit, err = getInt("ANALYZE_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if c.AnalyzeRateWindow, err = getDuration("ANALYZE_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "file":
		if c.FileSleep == "" {
			return errors.New("File storage requires SLEEP_FILE to be set")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: sqlite, postgres, file")
	}
	switch c.AuthProvider {
	case "local":
		if len(c.AuthTokens) == 0 {
			return errors.New("AUTH_TOKENS is required when AUTH_PROVIDER=local")
		}
	case "remote":
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_PROVIDER=remote")
		}
	case "jwt":
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	default:
		return errors.New("AUTH_PROVIDER must be one of: local, remote, jwt")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.AITimeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}
	if c.DiagnosisDays <= 0 {
		return errors.New("DIAGNOSIS_WINDOW_DAYS must be positive")
	}
	if c.RedisAddr != "" && (c.AnalyzeRateLimit <= 0 || c.AnalyzeRateWindow <= 0) {
		return errors.New("ANALYZE_RATE_LIMIT and ANALYZE_RATE_WINDOW must be positive when REDIS_ADDR is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseTokens reads "token:userId,token:userId".
func parseTokens(s string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, userID, ok := strings.Cut(pair, ":")
		if !ok || token == "" || userID == "" {
			return nil, fmt.Errorf("AUTH_TOKENS: malformed entry %q", pair)
		}
		tokens[token] = userID
	}
	return tokens, nil
}
