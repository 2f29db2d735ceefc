package models

import "time"

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Recurrence describes which calendar days a habit is due. A zero-value
// Recurrence (empty Type) is treated as daily. A weekly recurrence with no
// weekdays selected is valid data but never due.
type Recurrence struct {
	Type     RecurrenceType `json:"type,omitempty"`
	Weekdays []time.Weekday `json:"weekdays,omitempty"` // 0=Sunday..6=Saturday
}

// Habit represents a recurring practice to track, together with its streak
// counters. Streak fields are mutated only by the toggle engine; name and
// recurrence by direct user edit.
//
// Invariants: LongestStreak >= CurrentStreak. LastCompleted is set iff
// CurrentStreak > 0, except immediately after a same-day reversal, which
// clears LastCompleted without restoring the prior value.
type Habit struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Recurrence    Recurrence `json:"recurrence"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastCompleted *string    `json:"last_completed,omitempty"` // day key, YYYY-MM-DD
	CreatedAt     time.Time  `json:"created_at"`
}
