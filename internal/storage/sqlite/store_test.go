package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "ritual.db"), "test-user")
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_RequiresInit(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "ritual.db"), "test-user")
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestLoad_AfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ritual.db")
	first := New(path, "test-user")
	require.NoError(t, first.Init(context.Background()))
	require.NoError(t, first.Close())

	second := New(path, "test-user")
	require.NoError(t, second.Load(context.Background()))
	defer second.Close()

	habits, err := second.GetAllHabits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestHabitRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	last := "2024-05-10"
	h := models.Habit{
		ID:   "h1",
		Name: "gym",
		Recurrence: models.Recurrence{
			Type:     models.RecurrenceWeekly,
			Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		},
		CurrentStreak: 3,
		LongestStreak: 7,
		LastCompleted: &last,
		CreatedAt:     time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, s.AddHabit(ctx, h))

	got, err := s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, h.Name, got.Name)
	assert.Equal(t, h.Recurrence.Type, got.Recurrence.Type)
	assert.Equal(t, h.Recurrence.Weekdays, got.Recurrence.Weekdays)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 7, got.LongestStreak)
	require.NotNil(t, got.LastCompleted)
	assert.Equal(t, "2024-05-10", *got.LastCompleted)
	assert.True(t, got.CreatedAt.Equal(h.CreatedAt))

	byName, err := s.GetHabitByName(ctx, "gym")
	require.NoError(t, err)
	assert.Equal(t, "h1", byName.ID)
}

func TestHabitUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	h := models.Habit{ID: "h1", Name: "read", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.AddHabit(ctx, h))

	h.Name = "read more"
	h.Recurrence = models.Recurrence{Type: models.RecurrenceMonthly}
	require.NoError(t, s.UpdateHabit(ctx, h))

	got, err := s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "read more", got.Name)
	assert.Equal(t, models.RecurrenceMonthly, got.Recurrence.Type)

	require.NoError(t, s.DeleteHabit(ctx, "h1"))
	_, err = s.GetHabit(ctx, "h1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteHabit(ctx, "h1"), storage.ErrNotFound)
}

func TestGetAllHabits_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "b", Name: "second", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "a", Name: "first", CreatedAt: base}))

	habits, err := s.GetAllHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "a", habits[0].ID)
	assert.Equal(t, "b", habits[1].ID)
}

func TestApplyToggle_Transactional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "h1", Name: "read", CreatedAt: time.Now().UTC()}))

	last := "2024-05-11"
	require.NoError(t, s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "h1", Complete: true,
		CurrentStreak: 1, LongestStreak: 1, LastCompleted: &last,
	}))

	day, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.True(t, day.IsCompleted("h1"))
	habit, err := s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 1, habit.CurrentStreak)

	// Re-applying the same completion is idempotent on the day set.
	require.NoError(t, s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "h1", Complete: true,
		CurrentStreak: 1, LongestStreak: 1, LastCompleted: &last,
	}))
	day, err = s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.Len(t, day.Completed, 1)

	// Reversal removes the membership and clears the date.
	require.NoError(t, s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "h1", Complete: false,
		CurrentStreak: 0, LongestStreak: 1, LastCompleted: nil,
	}))
	day, err = s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.False(t, day.IsCompleted("h1"))
	habit, err = s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 0, habit.CurrentStreak)
	assert.Nil(t, habit.LastCompleted)
}

func TestApplyToggle_UnknownHabitRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "nope", Complete: true, CurrentStreak: 1, LongestStreak: 1,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The whole batch rolled back: no membership row was left behind.
	day, derr := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, derr)
	assert.False(t, day.IsCompleted("nope"))
}

func TestNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveNote(ctx, "2024-05-11", "h1", "short walk only"))
	day, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "short walk only", day.Notes["h1"])

	require.NoError(t, s.SaveNote(ctx, "2024-05-11", "h1", "rewritten"))
	day, err = s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", day.Notes["h1"])

	require.NoError(t, s.SaveNote(ctx, "2024-05-11", "h1", ""))
	day, err = s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	_, ok := day.Notes["h1"]
	assert.False(t, ok)
}

func TestRemoveCompletion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "h1", Name: "read", CreatedAt: time.Now().UTC()}))
	require.NoError(t, s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "h1", Complete: true, CurrentStreak: 1, LongestStreak: 1,
	}))

	require.NoError(t, s.RemoveCompletion(ctx, "2024-05-11", "h1"))
	day, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.False(t, day.IsCompleted("h1"))

	assert.ErrorIs(t, s.RemoveCompletion(ctx, "2024-05-11", "h1"), storage.ErrNotFound)
}

func TestGoalsAndCheckIns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddGoal(ctx, models.Goal{ID: "g1", Text: "run a 10k", CreatedAt: base}))
	goals, err := s.GetAllGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "run a 10k", goals[0].Text)

	require.NoError(t, s.DeleteGoal(ctx, "g1"))
	assert.ErrorIs(t, s.DeleteGoal(ctx, "g1"), storage.ErrNotFound)

	require.NoError(t, s.SaveCheckIn(ctx, models.CheckIn{Day: "2024-05-11", Mood: "good", CreatedAt: base}))
	require.NoError(t, s.SaveCheckIn(ctx, models.CheckIn{Day: "2024-05-11", Mood: "great", CreatedAt: base}))
	c, err := s.GetCheckIn(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "great", c.Mood)
}

func TestUserIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ritual.db")
	ctx := context.Background()

	alice := New(path, "alice")
	require.NoError(t, alice.Init(ctx))
	defer alice.Close()
	require.NoError(t, alice.AddHabit(ctx, models.Habit{ID: "h1", Name: "read", CreatedAt: time.Now().UTC()}))

	bob := New(path, "bob")
	require.NoError(t, bob.Load(ctx))
	defer bob.Close()

	habits, err := bob.GetAllHabits(ctx)
	require.NoError(t, err)
	assert.Empty(t, habits)
	_, err = bob.GetHabit(ctx, "h1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWeekdayEncoding(t *testing.T) {
	cases := []struct {
		weekdays []time.Weekday
		encoded  string
	}{
		{nil, ""},
		{[]time.Weekday{time.Sunday}, "0"},
		{[]time.Weekday{time.Monday, time.Wednesday, time.Friday}, "1,3,5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.encoded, encodeWeekdays(tc.weekdays))
		decoded, err := decodeWeekdays(tc.encoded)
		require.NoError(t, err)
		assert.Equal(t, tc.weekdays, decoded)
	}

	_, err := decodeWeekdays("1,7")
	assert.Error(t, err)
	_, err = decodeWeekdays("abc")
	assert.Error(t, err)
}
