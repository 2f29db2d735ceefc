package schedule

import (
	"sort"
	"time"

	"github.com/jstrick/ritual/internal/models"
)

// IsDueOn reports whether a habit with the given recurrence is due on date.
// An absent recurrence type is treated as daily. A malformed or unknown rule
// shape is never due rather than an error, so the filter stays total.
func IsDueOn(rec models.Recurrence, date time.Time) bool {
	switch rec.Type {
	case "", models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekly:
		if len(rec.Weekdays) == 0 {
			return false
		}
		for _, wd := range rec.Weekdays {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	case models.RecurrenceMonthly:
		// Monthly habits fire on the first of the month.
		return date.Day() == 1
	default:
		return false
	}
}

// DueOn returns the habits due on date, ordered by creation time ascending.
// Creation timestamps may coincide, so ties break on id to keep the order
// stable across calls. The result is a fresh slice on every invocation.
func DueOn(habits []models.Habit, date time.Time) []models.Habit {
	due := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if IsDueOn(h.Recurrence, date) {
			due = append(due, h)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].CreatedAt.Equal(due[j].CreatedAt) {
			return due[i].CreatedAt.Before(due[j].CreatedAt)
		}
		return due[i].ID < due[j].ID
	})
	return due
}
