package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/api"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/auth"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/diagnosis"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/events"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.Migrate(ctx, repo); err != nil {
		logger.Errorf("migrations failed: %v", err)
		return err
	}

	gen, err := diagnosis.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GOOGLE_AI_API_KEY is not set; POST /analyze will fail")
	}
	diagnoser := diagnosis.NewDiagnoser(gen, cfg.AITimeout, logger)
	defer diagnoser.Close()

	broker := events.NewBroker(16)
	defer broker.Close()

	var counter api.RateCounter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			logger.Errorf("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
			return err
		}
		counter = api.NewRedisCounter(rdb)
		logger.Infof("rate limiting /analyze to %d per %s", cfg.AnalyzeRateLimit, cfg.AnalyzeRateWindow)
	}

	provider, err := auth.NewProvider(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := api.NewApplication(cfg, logger, repo, diagnoser, broker, counter)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(app, provider),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server listening on %s (storage=%s, auth=%s)", cfg.HTTPAddr, cfg.DBType, cfg.AuthProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Errorf("server failed: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("forced shutdown: %v", err)
		return err
	}
	return nil
}
