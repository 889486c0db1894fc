package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	logger internal.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Infof("migrate: "+strings.TrimSpace(format), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Fatalf("migrate: "+strings.TrimSpace(format), v...)
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string, logger internal.Logger) error {
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetLogger(gooseLogger{logger: logger})
	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}

// Migrate brings the schema of repo up to date. Backends without a schema are
// left alone.
func Migrate(ctx context.Context, repo SleepRecordRepository) error {
	m, ok := repo.(Migrator)
	if !ok {
		return nil
	}
	return m.Migrate(ctx)
}
