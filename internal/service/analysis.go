package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/analysis"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

// RangeQuery selects the window of GET /api/analysis/range. Start and End
// win over Offset; Offset picks a Monday-anchored two-week window relative
// to the current one.
type RangeQuery struct {
	UserID string
	Start  string
	End    string
	Offset string
}

// ResolveRange turns q into a concrete window.
func ResolveRange(q RangeQuery, now time.Time) (internal.TimeRange, error) {
	start, end := strings.TrimSpace(q.Start), strings.TrimSpace(q.End)
	switch {
	case start != "" && end != "":
		tr, err := analysis.ParseRange(start, end)
		if err != nil {
			return tr, fmt.Errorf("%w: start and end must be dates or ISO-8601 timestamps", ErrInvalidInput)
		}
		if tr.To.Before(*tr.From) {
			return tr, fmt.Errorf("%w: end must not be before start", ErrInvalidInput)
		}
		return tr, nil
	case start == "" && end == "" && strings.TrimSpace(q.Offset) != "":
		offset, err := strconv.Atoi(strings.TrimSpace(q.Offset))
		if err != nil {
			return internal.TimeRange{}, fmt.Errorf("%w: offset must be an integer", ErrInvalidInput)
		}
		return analysis.TwoWeekWindow(now, offset), nil
	default:
		return internal.TimeRange{}, fmt.Errorf("%w: userId, start, end are required", ErrInvalidInput)
	}
}

func RangeAnalysis(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, q RangeQuery, now time.Time) (analysis.Series, error) {
	if strings.TrimSpace(q.UserID) == "" {
		return analysis.Series{}, fmt.Errorf("%w: userId, start, end are required", ErrInvalidInput)
	}
	userID, err := Authorize(user, q.UserID)
	if err != nil {
		return analysis.Series{}, err
	}
	tr, err := ResolveRange(q, now)
	if err != nil {
		return analysis.Series{}, err
	}
	return seriesFor(ctx, repo, userID, tr)
}

func MonthlyAnalysis(ctx context.Context, repo storage.SleepRecordRepository, user *internal.User, userID, year, month string) (analysis.Series, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(year) == "" || strings.TrimSpace(month) == "" {
		return analysis.Series{}, fmt.Errorf("%w: userId, year, month are required", ErrInvalidInput)
	}
	userID, err := Authorize(user, userID)
	if err != nil {
		return analysis.Series{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 || y > 9999 {
		return analysis.Series{}, fmt.Errorf("%w: year must be a four digit number", ErrInvalidInput)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return analysis.Series{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}
	return seriesFor(ctx, repo, userID, analysis.MonthRange(y, time.Month(m)))
}

func seriesFor(ctx context.Context, repo storage.SleepRecordRepository, userID string, tr internal.TimeRange) (analysis.Series, error) {
	records, err := repo.ListSleepRecords(ctx, userID, tr)
	if err != nil {
		return analysis.Series{}, fmt.Errorf("list sleep records: %w", err)
	}
	return analysis.ComputeDailySeries(records), nil
}
