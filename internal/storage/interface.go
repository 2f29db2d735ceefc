package storage

import (
	"context"
	"errors"

	"github.com/jstrick/ritual/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	// Absent day records are not an error; they read back as empty.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable is returned when the store cannot be reached or opened.
	ErrUnavailable = errors.New("store unavailable")
)

// ToggleBatch carries the two mutations of one completion toggle: the day
// record's set change and the habit's streak counters. Providers apply both
// in a single transaction so no reader can observe one without the other.
type ToggleBatch struct {
	Day     string
	HabitID string
	// Complete true adds HabitID to the day's completion set, false removes it.
	Complete      bool
	CurrentStreak int
	LongestStreak int
	LastCompleted *string
}

// EventKind identifies which collection a change event refers to.
type EventKind string

const (
	EventHabits EventKind = "habits"
	EventDay    EventKind = "day"
	EventGoals  EventKind = "goals"
)

// Event is a change notification. Day carries the day key for EventDay
// events and is empty otherwise. Events tell subscribers to re-read; they
// carry no payload.
type Event struct {
	Kind EventKind
	Day  string
}

// Provider is the storage collaborator. Each instance is scoped to a single
// user namespace at construction time.
type Provider interface {
	// Init creates the backing store, Load opens an existing one.
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetHabitByName(ctx context.Context, name string) (models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	DeleteHabit(ctx context.Context, id string) error

	// Day records. GetDayRecord never returns ErrNotFound; a day with no
	// stored state reads back as the empty record.
	GetDayRecord(ctx context.Context, day string) (models.DayRecord, error)
	SaveNote(ctx context.Context, day, habitID, note string) error
	RemoveCompletion(ctx context.Context, day, habitID string) error
	ApplyToggle(ctx context.Context, batch ToggleBatch) error

	// Goals
	AddGoal(ctx context.Context, goal models.Goal) error
	GetAllGoals(ctx context.Context) ([]models.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	// Check-ins
	SaveCheckIn(ctx context.Context, checkIn models.CheckIn) error
	GetCheckIn(ctx context.Context, day string) (models.CheckIn, error)

	// WatchChanges delivers change notifications until ctx is done.
	WatchChanges(ctx context.Context) (<-chan Event, error)
}
