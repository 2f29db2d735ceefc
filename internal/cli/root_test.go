package cli

import (
	"testing"
	"time"

	"github.com/jstrick/ritual/internal/models"
)

func TestParseWeekdays(t *testing.T) {
	cases := []struct {
		input   string
		want    []time.Weekday
		wantErr bool
	}{
		{"mon,wed,fri", []time.Weekday{time.Monday, time.Wednesday, time.Friday}, false},
		{"Sunday", []time.Weekday{time.Sunday}, false},
		{"0,6", []time.Weekday{time.Sunday, time.Saturday}, false},
		{" tue , Thursday ", []time.Weekday{time.Tuesday, time.Thursday}, false},
		{"7", nil, true},
		{"funday", nil, true},
		{"", nil, true},
	}
	for _, tc := range cases {
		got, err := ParseWeekdays(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseWeekdays(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if tc.wantErr {
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("ParseWeekdays(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseWeekdays(%q)[%d] = %v, want %v", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestFormatRecurrence(t *testing.T) {
	cases := []struct {
		name string
		rec  models.Recurrence
		want string
	}{
		{"zero value", models.Recurrence{}, "daily"},
		{"daily", models.Recurrence{Type: models.RecurrenceDaily}, "daily"},
		{"weekly", models.Recurrence{
			Type:     models.RecurrenceWeekly,
			Weekdays: []time.Weekday{time.Monday, time.Friday},
		}, "weekly on Mon,Fri"},
		{"weekly empty", models.Recurrence{Type: models.RecurrenceWeekly}, "weekly (no days selected)"},
		{"monthly", models.Recurrence{Type: models.RecurrenceMonthly}, "monthly on the 1st"},
		{"unknown", models.Recurrence{Type: "fortnightly"}, "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatRecurrence(tc.rec); got != tc.want {
				t.Errorf("FormatRecurrence = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseDateFlag(t *testing.T) {
	now := time.Date(2024, 5, 11, 15, 4, 0, 0, time.Local)

	got, err := parseDateFlag("", now)
	if err != nil {
		t.Fatalf("parseDateFlag empty: %v", err)
	}
	if !got.Equal(now) {
		t.Errorf("empty flag: got %v, want %v", got, now)
	}

	got, err = parseDateFlag("2024-02-29", now)
	if err != nil {
		t.Fatalf("parseDateFlag: %v", err)
	}
	if models.DayKey(got) != "2024-02-29" {
		t.Errorf("day key = %q", models.DayKey(got))
	}
	if got.Location() != now.Location() {
		t.Error("parsed date not in the caller's location")
	}

	if _, err := parseDateFlag("11-05-2024", now); err == nil {
		t.Error("expected error for wrong format")
	}
}
