package models

import (
	"testing"
	"time"
)

func TestDayKey_SameLocalDay(t *testing.T) {
	loc := time.FixedZone("Test", 2*60*60)
	morning := time.Date(2024, 5, 10, 0, 1, 0, 0, loc)
	night := time.Date(2024, 5, 10, 23, 59, 59, 0, loc)

	if DayKey(morning) != DayKey(night) {
		t.Errorf("same local day produced different keys: %s vs %s", DayKey(morning), DayKey(night))
	}
	if DayKey(morning) != "2024-05-10" {
		t.Errorf("DayKey = %s, want 2024-05-10", DayKey(morning))
	}
}

func TestPrevDayKey_Boundaries(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-05-11", "2024-05-10"},
		{"2024-05-01", "2024-04-30"},
		{"2024-03-01", "2024-02-29"}, // leap year
		{"2025-01-01", "2024-12-31"},
	}
	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("bad test date %s: %v", tt.date, err)
		}
		if got := PrevDayKey(date); got != tt.want {
			t.Errorf("PrevDayKey(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestDayRecord_WithCompletedIdempotent(t *testing.T) {
	d := DayRecord{Day: "2024-05-10"}

	once := d.WithCompleted("h1")
	twice := once.WithCompleted("h1")

	if !once.IsCompleted("h1") || !twice.IsCompleted("h1") {
		t.Fatal("expected h1 completed after add")
	}
	if len(twice.Completed) != 1 {
		t.Errorf("double add produced %d entries, want 1", len(twice.Completed))
	}

	// The original snapshot is untouched.
	if d.IsCompleted("h1") {
		t.Error("WithCompleted mutated the original record")
	}
}

func TestDayRecord_WithoutCompleted(t *testing.T) {
	d := DayRecord{Day: "2024-05-10", Completed: []string{"h1", "h2"}}

	out := d.WithoutCompleted("h1")
	if out.IsCompleted("h1") {
		t.Error("expected h1 removed")
	}
	if !out.IsCompleted("h2") {
		t.Error("expected h2 untouched")
	}
	if !d.IsCompleted("h1") {
		t.Error("WithoutCompleted mutated the original record")
	}

	// Removing an absent id is a no-op.
	same := out.WithoutCompleted("missing")
	if len(same.Completed) != 1 {
		t.Errorf("removing missing id changed set size to %d", len(same.Completed))
	}
}

func TestDayRecord_WithNote(t *testing.T) {
	d := DayRecord{Day: "2024-05-10"}

	withNote := d.WithNote("h1", "felt good")
	if withNote.Notes["h1"] != "felt good" {
		t.Errorf("note = %q, want %q", withNote.Notes["h1"], "felt good")
	}
	if d.Notes != nil {
		t.Error("WithNote mutated the original record")
	}

	cleared := withNote.WithNote("h1", "")
	if _, ok := cleared.Notes["h1"]; ok {
		t.Error("empty note should remove the entry")
	}
}
