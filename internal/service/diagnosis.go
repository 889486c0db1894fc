package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/analysis"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/diagnosis"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/storage"
)

type Diagnoser interface {
	Diagnose(ctx context.Context, req diagnosis.Request) (string, error)
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	UserID string `json:"userId"`
}

// Diagnose sends the caller's trailing windowDays of sleep to the diagnoser.
// Without records it fails with ErrNoRecords and the diagnoser is not called.
func Diagnose(ctx context.Context, repo storage.SleepRecordRepository, d Diagnoser, user *internal.User, userID string, windowDays int, now time.Time) (string, error) {
	userID, err := Authorize(user, userID)
	if err != nil {
		return "", err
	}
	window := analysis.TrailingDays(now, windowDays)
	records, err := repo.ListSleepRecords(ctx, userID, window)
	if err != nil {
		return "", fmt.Errorf("list sleep records: %w", err)
	}
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	return d.Diagnose(ctx, diagnosis.Request{
		UserID:    userID,
		StartDate: *window.From,
		EndDate:   *window.To,
		Daily:     analysis.ComputeDiagnosticBreakdown(records),
	})
}
