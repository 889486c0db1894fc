package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

var seedCycleHours = []float64{6, 7.5, 9}

// Bed times in hours after midnight of the day the night belongs to. Friday
// and Saturday nights start after midnight.
const (
	weekdayBedHour = 23.5
	weekendBedHour = 24 + 1.5
)

// GenerateSeedRecords builds one plausible night per day for the given number
// of days before today, oldest first. Nights that would not have ended by now
// are skipped. Most nights are a whole number of 90 minute cycles and about
// one in five is knocked off-cycle. Off-cycle, short and weekend nights rate
// 2-3, the rest 4-5.
func GenerateSeedRecords(userID string, days int, now time.Time, rng *rand.Rand) []internal.SleepRecord {
	records := make([]internal.SleepRecord, 0, days)
	now = now.UTC()
	for i := days; i >= 1; i-- {
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -i)
		weekend := day.Weekday() == time.Friday || day.Weekday() == time.Saturday

		bedHour := weekdayBedHour
		if weekend {
			bedHour = weekendBedHour
		}
		hours := seedCycleHours[rng.Intn(len(seedCycleHours))]
		if rng.Float64() < 0.2 {
			hours += (rng.Float64() - 0.5) * 0.7
		}
		bedHour += (rng.Float64() - 0.5) * 0.5

		start := day.Add(time.Duration(bedHour * float64(time.Hour))).Truncate(time.Minute)
		end := start.Add(time.Duration(hours * float64(time.Hour))).Truncate(time.Minute)

		satisfaction := 4 + rng.Intn(2)
		if offCycleMinutes(hours*60) > 15 || hours < 6 || weekend {
			satisfaction = 2 + rng.Intn(2)
		}

		if end.After(now) {
			continue
		}

		var notes *string
		if rng.Float64() < 0.15 {
			n := "Slept well."
			if satisfaction <= 3 {
				n = "Restless night."
			}
			notes = &n
		}

		records = append(records, internal.SleepRecord{
			UserID:         userID,
			SleepStartTime: start,
			SleepEndTime:   end,
			Notes:          notes,
			Satisfaction:   satisfaction,
		})
	}
	return records
}

// Seed stores GenerateSeedRecords output and returns how many were written.
func Seed(ctx context.Context, repo storage.SleepRecordRepository, userID string, days int, now time.Time, rng *rand.Rand) (int, error) {
	if userID == "" || days <= 0 {
		return 0, fmt.Errorf("%w: seed needs a user and a positive number of days", ErrInvalidInput)
	}
	records := GenerateSeedRecords(userID, days, now, rng)
	for i := range records {
		if err := repo.CreateSleepRecord(ctx, &records[i]); err != nil {
			return i, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return len(records), nil
}

// offCycleMinutes is the distance from minutes to the nearest whole cycle.
func offCycleMinutes(minutes float64) float64 {
	r := math.Mod(minutes, 90)
	return min(r, 90-r)
}
