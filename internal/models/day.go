package models

import (
	"slices"
	"time"

	"github.com/jstrick/ritual/internal/constants"
)

// DayKey returns the calendar-day key for t in t's location. Two calls
// within the same local day always produce the same key.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// PrevDayKey returns the key of the calendar day immediately before t,
// crossing month and year boundaries.
func PrevDayKey(t time.Time) string {
	return t.AddDate(0, 0, -1).Format(constants.DateFormat)
}

// DayRecord holds one calendar day's completion set and per-habit notes.
// Absence of a stored record is equivalent to the empty record for that day.
type DayRecord struct {
	Day       string            `json:"day"`
	Completed []string          `json:"completed,omitempty"`
	Notes     map[string]string `json:"notes,omitempty"`
}

// IsCompleted reports whether habitID is in the day's completion set.
func (d DayRecord) IsCompleted(habitID string) bool {
	return slices.Contains(d.Completed, habitID)
}

// WithCompleted returns a copy of d whose completion set contains habitID.
// Adding an id already present yields an identical copy (idempotent union).
func (d DayRecord) WithCompleted(habitID string) DayRecord {
	out := d.Clone()
	if !slices.Contains(out.Completed, habitID) {
		out.Completed = append(out.Completed, habitID)
	}
	return out
}

// WithoutCompleted returns a copy of d with habitID removed from the
// completion set.
func (d DayRecord) WithoutCompleted(habitID string) DayRecord {
	out := d.Clone()
	out.Completed = slices.DeleteFunc(out.Completed, func(id string) bool {
		return id == habitID
	})
	return out
}

// WithNote returns a copy of d carrying the given note for habitID. An
// empty note removes the entry.
func (d DayRecord) WithNote(habitID, note string) DayRecord {
	out := d.Clone()
	if note == "" {
		delete(out.Notes, habitID)
		return out
	}
	if out.Notes == nil {
		out.Notes = make(map[string]string, 1)
	}
	out.Notes[habitID] = note
	return out
}

// Clone returns a deep copy of d.
func (d DayRecord) Clone() DayRecord {
	out := DayRecord{Day: d.Day}
	if len(d.Completed) > 0 {
		out.Completed = slices.Clone(d.Completed)
	}
	if len(d.Notes) > 0 {
		out.Notes = make(map[string]string, len(d.Notes))
		for k, v := range d.Notes {
			out.Notes[k] = v
		}
	}
	return out
}
