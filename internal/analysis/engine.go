// Package analysis derives chart series and diagnostic breakdowns from sleep
// records. Everything here is a pure function of its input.
package analysis

import (
	"math"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

// Model constants. They are illustrative heuristics, not measurements, and
// must stay fixed so existing charts keep their meaning.
const (
	CycleMinutes    = 90.0
	BaselineMinutes = 480.0

	DeepSleepShare  = 0.2
	LightSleepShare = 0.5
	REMSleepShare   = 0.3

	maxSleepScore = 100
	maxRating     = 5
)

// Wake phase estimated from where in a 90-minute cycle the sleeper woke.
const (
	WakeAfterREM   = "after_rem"
	WakeDuringREM  = "rem"
	WakeDuringNREM = "nrem"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type DurationPoint struct {
	Date            string  `json:"date"`
	TotalSleepHours float64 `json:"totalSleepHours"`
	Satisfaction    int     `json:"satisfaction"`
}

type DistributionPoint struct {
	Date         string  `json:"date"`
	SleepStart   string  `json:"sleepStart"`
	SleepEnd     string  `json:"sleepEnd"`
	BedTime      float64 `json:"bedTime"`
	WakeTime     float64 `json:"wakeTime"`
	Satisfaction int     `json:"satisfaction"`
}

type CyclePoint struct {
	Date         string  `json:"date"`
	SleepCycles  float64 `json:"sleepCycles"`
	WakePhase    string  `json:"wakePhase"`
	Satisfaction int     `json:"satisfaction"`
}

// Series is one entry per input record in each slice, in input order. Records
// sharing a date are not merged.
type Series struct {
	SleepTimeDistribution     []DistributionPoint `json:"sleepTimeDistribution"`
	TotalSleepAndSatisfaction []DurationPoint     `json:"totalSleepAndSatisfaction"`
	SleepCyclesByDate         []CyclePoint        `json:"sleepCyclesByDate"`
}

// DailySleepData is the per-record breakdown fed into the diagnosis prompt.
// All durations are minutes.
type DailySleepData struct {
	TotalSleepTime  int    `json:"totalSleepTime"`
	DeepSleepTime   int    `json:"deepSleepTime"`
	LightSleepTime  int    `json:"lightSleepTime"`
	REMSleepTime    int    `json:"remSleepTime"`
	SleepEfficiency int    `json:"sleepEfficiency"`
	SleepScore      int    `json:"sleepScore"`
	Timestamp       string `json:"timestamp"`
}

func ComputeDailySeries(records []internal.SleepRecord) Series {
	s := Series{
		SleepTimeDistribution:     make([]DistributionPoint, 0, len(records)),
		TotalSleepAndSatisfaction: make([]DurationPoint, 0, len(records)),
		SleepCyclesByDate:         make([]CyclePoint, 0, len(records)),
	}
	for _, r := range records {
		start := r.SleepStartTime.UTC()
		end := r.SleepEndTime.UTC()
		date := DateKey(r)
		cycles := SleepCycles(r)

		s.TotalSleepAndSatisfaction = append(s.TotalSleepAndSatisfaction, DurationPoint{
			Date:            date,
			TotalSleepHours: TotalSleepHours(r),
			Satisfaction:    r.Satisfaction,
		})
		s.SleepTimeDistribution = append(s.SleepTimeDistribution, DistributionPoint{
			Date:         date,
			SleepStart:   start.Format(clockLayout),
			SleepEnd:     end.Format(clockLayout),
			BedTime:      ClockHour(start),
			WakeTime:     ClockHour(end),
			Satisfaction: r.Satisfaction,
		})
		s.SleepCyclesByDate = append(s.SleepCyclesByDate, CyclePoint{
			Date:         date,
			SleepCycles:  cycles,
			WakePhase:    WakePhase(cycles),
			Satisfaction: r.Satisfaction,
		})
	}
	return s
}

func ComputeDiagnosticBreakdown(records []internal.SleepRecord) []DailySleepData {
	out := make([]DailySleepData, 0, len(records))
	for _, r := range records {
		minutes := r.Duration().Minutes()
		total := int(Round(minutes, 0))
		efficiency := int(Round(minutes/BaselineMinutes*100, 0))
		out = append(out, DailySleepData{
			TotalSleepTime:  total,
			DeepSleepTime:   int(Round(float64(total)*DeepSleepShare, 0)),
			LightSleepTime:  int(Round(float64(total)*LightSleepShare, 0)),
			REMSleepTime:    int(Round(float64(total)*REMSleepShare, 0)),
			SleepEfficiency: efficiency,
			SleepScore:      SleepScore(efficiency, r.Satisfaction),
			Timestamp:       r.SleepStartTime.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}

// DateKey ties a record to the calendar day it started on, even when the
// sleep crosses midnight.
func DateKey(r internal.SleepRecord) string {
	return r.SleepStartTime.UTC().Format(dateLayout)
}

func TotalSleepHours(r internal.SleepRecord) float64 {
	return Round(r.Duration().Hours(), 2)
}

func SleepCycles(r internal.SleepRecord) float64 {
	return Round(r.Duration().Minutes()/CycleMinutes, 1)
}

func SleepScore(efficiency, satisfaction int) int {
	score := int(Round(float64(efficiency)*float64(satisfaction)/maxRating, 0))
	if score > maxSleepScore {
		return maxSleepScore
	}
	return score
}

// WakePhase classifies the remainder of the last, incomplete cycle. It works
// from the rounded cycle count so the phase agrees with the displayed cycles.
func WakePhase(cycles float64) string {
	rem := Round(math.Mod(cycles*CycleMinutes, CycleMinutes), 0)
	switch {
	case rem == 0 || rem == CycleMinutes:
		return WakeAfterREM
	case rem >= 70:
		return WakeDuringREM
	default:
		return WakeDuringNREM
	}
}

// ClockHour is hour-of-day plus minutes as a fraction, in [0, 24).
func ClockHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// Round rounds half up at the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
