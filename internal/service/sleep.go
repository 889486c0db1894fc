package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/analysis"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

// SleepRecordRequest is the body of POST /sleep. UserID defaults to the caller
// and Satisfaction to internal.DefaultSatisfaction.
type SleepRecordRequest struct {
	UserID         string  `json:"userId"`
	SleepStartTime string  `json:"sleepStartTime" validate:"required"`
	SleepEndTime   string  `json:"sleepEndTime" validate:"required"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
	Satisfaction   *int    `json:"satisfaction" validate:"omitempty,gte=1,lte=5"`
}

// SleepRecordPatchRequest is the body of PUT /sleep/:id. Absent fields are
// left unchanged; an empty notes string clears the notes.
type SleepRecordPatchRequest struct {
	SleepStartTime *string `json:"sleepStartTime"`
	SleepEndTime   *string `json:"sleepEndTime"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
	Satisfaction   *int    `json:"satisfaction" validate:"omitempty,gte=1,lte=5"`
}

func ValidateSleepRecordRequest(body *SleepRecordRequest) error {
	return invalid(validate.Struct(body))
}

func ValidateSleepRecordPatchRequest(body *SleepRecordPatchRequest) error {
	return invalid(validate.Struct(body))
}

func CreateSleepRecord(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, body *SleepRecordRequest) (*internal.SleepRecord, error) {
	userID, err := Authorize(user, body.UserID)
	if err != nil {
		return nil, err
	}
	if err := ValidateSleepRecordRequest(body); err != nil {
		return nil, err
	}
	start, err := parseTimestamp("sleepStartTime", body.SleepStartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTimestamp("sleepEndTime", body.SleepEndTime)
	if err != nil {
		return nil, err
	}

	rec := &internal.SleepRecord{
		UserID:         userID,
		SleepStartTime: start,
		SleepEndTime:   end,
		Notes:          normalizeNotes(body.Notes),
		Satisfaction:   internal.DefaultSatisfaction,
	}
	if body.Satisfaction != nil {
		rec.Satisfaction = *body.Satisfaction
	}
	if err := validateRecord(*rec); err != nil {
		return nil, err
	}
	if err := repo.CreateSleepRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("create sleep record: %w", err)
	}
	return rec, nil
}

// ListSleepRecords returns the records of userID whose sleep started within
// [startDate, endDate], oldest creation first. Either bound may be empty.
func ListSleepRecords(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, userID, startDate, endDate string) ([]internal.SleepRecord, error) {
	userID, err := Authorize(user, userID)
	if err != nil {
		return nil, err
	}
	tr, err := analysis.ParseRange(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate and endDate must be dates or ISO-8601 timestamps", ErrInvalidInput)
	}
	if tr.From != nil && tr.To != nil && tr.To.Before(*tr.From) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	records, err := repo.ListSleepRecords(ctx, userID, tr)
	if err != nil {
		return nil, fmt.Errorf("list sleep records: %w", err)
	}
	return records, nil
}

func UpdateSleepRecord(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, id int64, body *SleepRecordPatchRequest) (*internal.SleepRecord, error) {
	if user == nil {
		return nil, ErrForbidden
	}
	if err := ValidateSleepRecordPatchRequest(body); err != nil {
		return nil, err
	}

	patch := internal.SleepRecordPatch{Notes: body.Notes, Satisfaction: body.Satisfaction}
	if body.SleepStartTime != nil {
		t, err := parseTimestamp("sleepStartTime", *body.SleepStartTime)
		if err != nil {
			return nil, err
		}
		patch.SleepStartTime = &t
	}
	if body.SleepEndTime != nil {
		t, err := parseTimestamp("sleepEndTime", *body.SleepEndTime)
		if err != nil {
			return nil, err
		}
		patch.SleepEndTime = &t
	}

	existing, err := repo.GetSleepRecord(ctx, user.ID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load sleep record: %w", err)
	}

	updated := patch.Apply(*existing)
	updated.Notes = normalizeNotes(updated.Notes)
	if err := validateRecord(updated); err != nil {
		return nil, err
	}
	if err := repo.UpdateSleepRecord(ctx, &updated); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("update sleep record: %w", err)
	}
	return &updated, nil
}

// DeleteSleepRecord reports whether a record of the caller was removed.
func DeleteSleepRecord(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, id int64) (bool, error) {
	if user == nil {
		return false, ErrForbidden
	}
	ok, err := repo.DeleteSleepRecord(ctx, user.ID, id)
	if err != nil {
		return false, fmt.Errorf("delete sleep record: %w", err)
	}
	return ok, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	n := *notes
	return &n
}

// SleepStats summarises the trailing week.
type SleepStats struct {
	Count               int     `json:"count"`
	AverageSatisfaction float64 `json:"averageSatisfaction"`
	AverageSleepHours   float64 `json:"averageSleepHours"`
	SatisfactionTrend   []int   `json:"satisfactionTrend"`
}

const statsWindowDays = 7

func GetSleepStats(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, userID string, now time.Time) (SleepStats, error) {
	userID, err := Authorize(user, userID)
	if err != nil {
		return SleepStats{}, err
	}
	records, err := repo.ListSleepRecords(ctx, userID, analysis.TrailingDays(now, statsWindowDays))
	if err != nil {
		return SleepStats{}, fmt.Errorf("list sleep records: %w", err)
	}
	return CalculateSleepStats(records), nil
}

// CalculateSleepStats averages satisfaction and duration. The trend lists
// satisfaction in the order the nights started.
func CalculateSleepStats(records []internal.SleepRecord) SleepStats {
	sorted := make([]internal.SleepRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SleepStartTime.Before(sorted[j].SleepStartTime)
	})

	stats := SleepStats{Count: len(sorted), SatisfactionTrend: make([]int, 0, len(sorted))}
	if len(sorted) == 0 {
		return stats
	}
	totalSatisfaction := 0
	var totalHours float64
	for _, r := range sorted {
		totalSatisfaction += r.Satisfaction
		totalHours += r.Duration().Hours()
		stats.SatisfactionTrend = append(stats.SatisfactionTrend, r.Satisfaction)
	}
	n := float64(len(sorted))
	stats.AverageSatisfaction = analysis.Round(float64(totalSatisfaction)/n, 2)
	stats.AverageSleepHours = analysis.Round(totalHours/n, 2)
	return stats
}
