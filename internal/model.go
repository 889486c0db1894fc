package internal

import "time"

// DefaultSatisfaction is applied when a new record omits its rating.
const DefaultSatisfaction = 3

type User struct {
	ID    string `json:"id"`
	Token string `json:"-"`
	Name  string `json:"name,omitempty"`
}

type SleepRecord struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"userId"`
	SleepStartTime time.Time `json:"sleepStartTime"`
	SleepEndTime   time.Time `json:"sleepEndTime"`
	Notes          *string   `json:"notes"`
	Satisfaction   int       `json:"satisfaction"` // 1–5 scale
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Duration is the raw time between going to bed and waking up.
func (r SleepRecord) Duration() time.Duration {
	return r.SleepEndTime.Sub(r.SleepStartTime)
}

// SleepRecordPatch holds the mutable fields of a record. Nil fields are left
// unchanged.
type SleepRecordPatch struct {
	SleepStartTime *time.Time
	SleepEndTime   *time.Time
	Notes          *string
	Satisfaction   *int
}

// Apply returns a copy of r with the non-nil patch fields replaced.
func (p SleepRecordPatch) Apply(r SleepRecord) SleepRecord {
	if p.SleepStartTime != nil {
		r.SleepStartTime = *p.SleepStartTime
	}
	if p.SleepEndTime != nil {
		r.SleepEndTime = *p.SleepEndTime
	}
	if p.Notes != nil {
		notes := *p.Notes
		r.Notes = &notes
	}
	if p.Satisfaction != nil {
		r.Satisfaction = *p.Satisfaction
	}
	return r
}

// TimeRange bounds a listing by sleep start time. Both ends are inclusive and
// either may be nil.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

func (tr TimeRange) Contains(t time.Time) bool {
	if tr.From != nil && t.Before(*tr.From) {
		return false
	}
	if tr.To != nil && t.After(*tr.To) {
		return false
	}
	return true
}
