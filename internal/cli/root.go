package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jstrick/ritual/internal/config"
	"github.com/jstrick/ritual/internal/engine"
	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Engine *engine.Engine
	Config *config.Config
	// Now supplies the evaluation time for "today". The engine and schedule
	// packages never read the clock themselves.
	Now func() time.Time
}

// Today returns the current evaluation time.
func (c *Context) Today() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// ParseWeekdays parses a comma-separated list of weekday names or indices
// (0=Sunday..6=Saturday).
func ParseWeekdays(s string) ([]time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}
	return weekdays, nil
}

// FormatRecurrence formats a recurrence rule into a human-readable string.
func FormatRecurrence(rec models.Recurrence) string {
	switch rec.Type {
	case "", models.RecurrenceDaily:
		return "daily"
	case models.RecurrenceWeekly:
		if len(rec.Weekdays) == 0 {
			return "weekly (no days selected)"
		}
		var days []string
		for _, wd := range rec.Weekdays {
			days = append(days, wd.String()[:3])
		}
		return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
	case models.RecurrenceMonthly:
		return "monthly on the 1st"
	default:
		return "unknown"
	}
}

// parseDateFlag resolves an optional YYYY-MM-DD flag, defaulting to now.
func parseDateFlag(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", value)
	}
	return t, nil
}
