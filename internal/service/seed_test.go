package service_test

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage/mocks"
)

func TestGenerateSeedRecords(t *testing.T) {
	now := ts("2024-03-01T12:00:00Z")
	records := service.GenerateSeedRecords("1", 60, now, rand.New(rand.NewSource(42)))
	require.Len(t, records, 60)

	for i, r := range records {
		assert.Equal(t, "1", r.UserID)
		assert.True(t, r.SleepEndTime.After(r.SleepStartTime), "record %d", i)
		assert.True(t, r.SleepStartTime.Before(now), "record %d starts in the future", i)
		assert.GreaterOrEqual(t, r.Satisfaction, 2)
		assert.LessOrEqual(t, r.Satisfaction, 5)

		hours := r.Duration().Hours()
		assert.True(t, hours > 5.5 && hours < 9.5, "record %d lasted %.2fh", i, hours)

		if r.SleepStartTime.Hour() < 12 {
			assert.LessOrEqual(t, r.Satisfaction, 3, "weekend nights rate low")
			wd := r.SleepStartTime.Weekday()
			assert.True(t, wd == time.Saturday || wd == time.Sunday, "late nights follow Friday and Saturday")
		}
		if i > 0 {
			assert.False(t, r.SleepStartTime.Before(records[i-1].SleepEndTime), "record %d overlaps the previous night", i)
		}
	}

	again := service.GenerateSeedRecords("1", 60, now, rand.New(rand.NewSource(42)))
	assert.Equal(t, records, again, "same seed, same data")
}

func TestGenerateSeedRecords_NightsNearACycleBoundaryRateHigh(t *testing.T) {
	records := service.GenerateSeedRecords("1", 400, ts("2024-03-01T12:00:00Z"), rand.New(rand.NewSource(7)))
	shortOfBoundary := 0
	for _, r := range records {
		weekend := r.SleepStartTime.Hour() < 12
		minutes := r.Duration().Minutes()
		rem := math.Mod(minutes, 90)
		nearBoundary := math.Min(rem, 90-rem) < 14
		if !nearBoundary || weekend || minutes < 360 {
			continue
		}
		assert.GreaterOrEqual(t, r.Satisfaction, 4, "%.0f minutes is within a quarter hour of a cycle", minutes)
		if rem > 45 {
			shortOfBoundary++
		}
	}
	assert.Positive(t, shortOfBoundary, "some nights end just before a cycle boundary")
}

func TestSeed_WritesEveryRecord(t *testing.T) {
	repo := new(mocks.SleepRecordRepository)
	ctx := context.Background()
	repo.On("CreateSleepRecord", ctx, mock.AnythingOfType("*internal.SleepRecord")).Return(nil).Times(5)

	n, err := service.Seed(ctx, repo, "1", 5, ts("2024-03-01T12:00:00Z"), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	repo.AssertExpectations(t)

	_, err = service.Seed(ctx, repo, "", 5, time.Now(), rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
