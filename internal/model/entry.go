// Package model defines domain entities for the application.
package model

import "time"

// EditWindow is how long after creation a time entry stays mutable.
const EditWindow = 48 * time.Hour

// TimeEntry represents one day of logged R&D work.
//
// Date carries a calendar date only; any time-of-day component is noise and
// must be ignored when comparing entries. CreatedAt is set once at creation
// and is the sole basis for the edit window.
type TimeEntry struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Date                time.Time `json:"date"`
	Hours               float64   `json:"hours"`
	ProjectPhase        string    `json:"project_phase"`
	ActivityDescription string    `json:"activity_description"`
	TechnicalChallenge  string    `json:"technical_challenge"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Day returns the entry's calendar date normalized to UTC midnight.
func (e *TimeEntry) Day() time.Time {
	return DayOf(e.Date)
}

// DayOf truncates a timestamp to its UTC calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
