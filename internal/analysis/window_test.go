package analysis

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	inputs := []string{
		"2024-01-01T23:00:00Z",
		"2024-01-01T23:00:00.000Z",
		"2024-01-02T08:00:00+09:00",
		"2024-01-01T23:00:00",
		"2024-01-01T23:00",
		"2024-01-01 23:00:00",
	}
	for _, in := range inputs {
		got, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", in, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseTimestamp("yesterday"); !errors.Is(err, ErrInvalidTimestamp) {
		t.Errorf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestParseBound_DateOnly(t *testing.T) {
	lower, err := ParseBound("2024-01-14", false)
	if err != nil {
		t.Fatal(err)
	}
	upper, err := ParseBound("2024-01-14", true)
	if err != nil {
		t.Fatal(err)
	}
	if !lower.Equal(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("lower = %v", lower)
	}
	if !upper.Equal(time.Date(2024, 1, 14, 23, 59, 59, 999999999, time.UTC)) {
		t.Errorf("upper = %v", upper)
	}
}

func TestParseRange_OpenEnds(t *testing.T) {
	tr, err := ParseRange("", "")
	if err != nil {
		t.Fatal(err)
	}
	if tr.From != nil || tr.To != nil {
		t.Errorf("expected open range, got %+v", tr)
	}
	if _, err := ParseRange("nope", ""); err == nil {
		t.Error("expected error for malformed bound")
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year    int
		month   time.Month
		lastDay int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.December, 31},
		{2024, time.April, 30},
	}
	for _, tt := range tests {
		tr := MonthRange(tt.year, tt.month)
		wantFrom := time.Date(tt.year, tt.month, 1, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(tt.year, tt.month, tt.lastDay, 23, 59, 59, 999999999, time.UTC)
		if !tr.From.Equal(wantFrom) || !tr.To.Equal(wantTo) {
			t.Errorf("MonthRange(%d, %v) = [%v, %v], want [%v, %v]", tt.year, tt.month, tr.From, tr.To, wantFrom, wantTo)
		}
	}
}

func TestTwoWeekWindow(t *testing.T) {
	// 2026-02-27 is a Friday.
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)

	tr := TwoWeekWindow(fri, 0)
	if want := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC); !tr.From.Equal(want) {
		t.Errorf("from = %v, want %v", tr.From, want)
	}
	if want := time.Date(2026, 3, 8, 23, 59, 59, 999999999, time.UTC); !tr.To.Equal(want) {
		t.Errorf("to = %v, want %v", tr.To, want)
	}

	prev := TwoWeekWindow(fri, -1)
	if want := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC); !prev.From.Equal(want) {
		t.Errorf("prev from = %v, want %v", prev.From, want)
	}

	// Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	if got := TwoWeekWindow(sun, 0); !got.From.Equal(*tr.From) {
		t.Errorf("sunday window from = %v, want %v", got.From, tr.From)
	}
}

func TestTrailingDays(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	tr := TrailingDays(now, 30)
	if !tr.From.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", tr.From)
	}
	if !tr.Contains(now) || tr.Contains(now.Add(time.Second)) {
		t.Error("range should end at now inclusive")
	}
}
