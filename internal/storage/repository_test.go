package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

func newSQLite(t *testing.T) SleepRecordRepository {
	t.Helper()
	repo, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "sleep_test.db"), internal.NewNopLogger())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(context.Background(), repo); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newFile(t *testing.T) SleepRecordRepository {
	t.Helper()
	repo, err := NewFileStorage(filepath.Join(t.TempDir(), "records.json"), internal.NewNopLogger())
	if err != nil {
		t.Fatalf("open file storage: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var backends = map[string]func(*testing.T) SleepRecordRepository{
	"sqlite": newSQLite,
	"file":   newFile,
}

func night(userID string, start time.Time, hours float64, satisfaction int) *internal.SleepRecord {
	return &internal.SleepRecord{
		UserID:         userID,
		SleepStartTime: start,
		SleepEndTime:   start.Add(time.Duration(hours * float64(time.Hour))),
		Satisfaction:   satisfaction,
	}
}

func TestRepository_CreateThenListRoundTrip(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			notes := "woke up once"
			rec := night("1", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 8, 4)
			rec.Notes = &notes
			require.NoError(t, repo.CreateSleepRecord(ctx, rec))
			assert.NotZero(t, rec.ID)
			assert.False(t, rec.CreatedAt.IsZero())
			assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))

			from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
			got, err := repo.ListSleepRecords(ctx, "1", internal.TimeRange{From: &from, To: &to})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, rec.ID, got[0].ID)
			assert.Equal(t, "1", got[0].UserID)
			assert.True(t, got[0].SleepStartTime.Equal(rec.SleepStartTime))
			assert.True(t, got[0].SleepEndTime.Equal(rec.SleepEndTime))
			require.NotNil(t, got[0].Notes)
			assert.Equal(t, notes, *got[0].Notes)
			assert.Equal(t, 4, got[0].Satisfaction)
		})
	}
}

func TestRepository_ListFiltersAndOrders(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			// Inserted out of chronological order on purpose.
			late := night("1", time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC), 7, 3)
			early := night("1", time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC), 7, 3)
			outside := night("1", time.Date(2024, 2, 1, 23, 0, 0, 0, time.UTC), 7, 3)
			other := night("2", time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC), 7, 3)
			for _, r := range []*internal.SleepRecord{late, early, outside, other} {
				require.NoError(t, repo.CreateSleepRecord(ctx, r))
			}

			from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC)
			got, err := repo.ListSleepRecords(ctx, "1", internal.TimeRange{From: &from, To: &to})
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, late.ID, got[0].ID, "creation order, not sleep order")
			assert.Equal(t, early.ID, got[1].ID)

			all, err := repo.ListSleepRecords(ctx, "1", internal.TimeRange{})
			require.NoError(t, err)
			assert.Len(t, all, 3)

			none, err := repo.ListSleepRecords(ctx, "nobody", internal.TimeRange{})
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})
	}
}

func TestRepository_UpperBoundIsInclusive(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			start := time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC)
			require.NoError(t, repo.CreateSleepRecord(ctx, night("1", start, 7, 3)))

			got, err := repo.ListSleepRecords(ctx, "1", internal.TimeRange{To: &start})
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestRepository_UpdateScopedByOwner(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			rec := night("1", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 8, 2)
			require.NoError(t, repo.CreateSleepRecord(ctx, rec))
			created := rec.CreatedAt

			rec.Satisfaction = 5
			rec.SleepEndTime = rec.SleepEndTime.Add(30 * time.Minute)
			require.NoError(t, repo.UpdateSleepRecord(ctx, rec))

			got, err := repo.GetSleepRecord(ctx, "1", rec.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, got.Satisfaction)
			assert.True(t, got.SleepEndTime.Equal(rec.SleepEndTime))
			assert.True(t, got.CreatedAt.Equal(created))
			assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

			intruder := *rec
			intruder.UserID = "2"
			err = repo.UpdateSleepRecord(ctx, &intruder)
			assert.True(t, errors.Is(err, ErrNotFound))

			_, err = repo.GetSleepRecord(ctx, "2", rec.ID)
			assert.True(t, errors.Is(err, ErrNotFound))

			missing := *rec
			missing.ID = 9999
			assert.True(t, errors.Is(repo.UpdateSleepRecord(ctx, &missing), ErrNotFound))
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)

			rec := night("1", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 8, 3)
			require.NoError(t, repo.CreateSleepRecord(ctx, rec))

			ok, err := repo.DeleteSleepRecord(ctx, "2", rec.ID)
			require.NoError(t, err)
			assert.False(t, ok, "other users cannot delete")

			ok, err = repo.DeleteSleepRecord(ctx, "1", rec.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			got, err := repo.ListSleepRecords(ctx, "1", internal.TimeRange{})
			require.NoError(t, err)
			assert.Empty(t, got)

			ok, err = repo.DeleteSleepRecord(ctx, "1", rec.ID)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "records.json")

	first, err := NewFileStorage(path, internal.NewNopLogger())
	require.NoError(t, err)
	a := night("1", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 8, 3)
	b := night("1", time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC), 6, 2)
	require.NoError(t, first.CreateSleepRecord(ctx, a))
	require.NoError(t, first.CreateSleepRecord(ctx, b))
	require.NoError(t, first.Close())

	second, err := NewFileStorage(path, internal.NewNopLogger())
	require.NoError(t, err)
	defer second.Close()

	got, err := second.ListSleepRecords(ctx, "1", internal.TimeRange{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)

	c := night("1", time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC), 7, 4)
	require.NoError(t, second.CreateSleepRecord(ctx, c))
	assert.Equal(t, b.ID+1, c.ID, "ids continue after reload")
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	repo := newSQLite(t)
	require.NoError(t, Migrate(context.Background(), repo))
}

func TestSQLiteStorage_MigrateLogsThroughAppLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	repo, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "logged.db"), internal.NewZapLogger(zap.New(core).Sugar()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Migrate(context.Background()))

	applied := logs.FilterMessageSnippet("00001_create_sleep_records.sql").All()
	require.NotEmpty(t, applied)
	assert.True(t, strings.HasPrefix(applied[0].Message, "migrate: "), applied[0].Message)
}
