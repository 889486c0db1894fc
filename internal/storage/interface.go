package storage

import (
	"context"
	"errors"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

// ErrNotFound is returned when a record does not exist for the given owner.
var ErrNotFound = errors.New("storage: sleep record not found")

// SleepRecordRepository persists sleep records. Every lookup is scoped by
// owner, so a record belonging to another user behaves as absent.
type SleepRecordRepository interface {
	// CreateSleepRecord assigns ID, CreatedAt and UpdatedAt on rec.
	CreateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error
	GetSleepRecord(ctx context.Context, userID string, id int64) (*internal.SleepRecord, error)
	// ListSleepRecords filters by sleep start time and orders by creation
	// time ascending, ties broken by id.
	ListSleepRecords(ctx context.Context, userID string, tr internal.TimeRange) ([]internal.SleepRecord, error)
	// UpdateSleepRecord replaces the mutable fields and refreshes UpdatedAt.
	UpdateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error
	DeleteSleepRecord(ctx context.Context, userID string, id int64) (bool, error)
	Close() error
}

// Migrator is implemented by SQL backends with a schema to manage.
type Migrator interface {
	Migrate(ctx context.Context) error
}
