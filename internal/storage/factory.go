package storage

import (
	"context"
	"fmt"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/config"
)

// Open returns the repository selected by cfg.DBType. The schema is not
// migrated; call Migrate for that.
func Open(ctx context.Context, cfg *config.Config, logger internal.Logger) (SleepRecordRepository, error) {
	switch cfg.DBType {
	case "sqlite":
		return NewSQLiteStorage(cfg.SQLitePath, logger)
	case "postgres":
		return NewPostgresStorage(ctx, cfg.DBDSN, logger)
	case "file":
		return NewFileStorage(cfg.FileSleep, logger)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.DBType)
	}
}
