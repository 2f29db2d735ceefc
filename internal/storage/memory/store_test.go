package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
	"github.com/jstrick/ritual/internal/storage/memory"
)

func TestHabitCRUD(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	h := models.Habit{ID: "h1", Name: "read", CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.AddHabit(ctx, h))

	got, err := s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "read", got.Name)

	got, err = s.GetHabitByName(ctx, "read")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.ID)

	h.Name = "read more"
	require.NoError(t, s.UpdateHabit(ctx, h))
	got, err = s.GetHabit(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "read more", got.Name)

	require.NoError(t, s.DeleteHabit(ctx, "h1"))
	_, err = s.GetHabit(ctx, "h1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteHabit(ctx, "h1"), storage.ErrNotFound)
}

func TestGetAllHabits_Sorted(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "b", Name: "second", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "c", Name: "tied-late", CreatedAt: base}))
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "a", Name: "tied-early", CreatedAt: base}))

	habits, err := s.GetAllHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 3)
	assert.Equal(t, "a", habits[0].ID)
	assert.Equal(t, "c", habits[1].ID)
	assert.Equal(t, "b", habits[2].ID)
}

func TestGetDayRecord_AbsentIsEmpty(t *testing.T) {
	s := memory.New()
	day, err := s.GetDayRecord(context.Background(), "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-11", day.Day)
	assert.Empty(t, day.Completed)
	assert.Empty(t, day.Notes)
}

func TestGetDayRecord_ReturnsCopy(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "h1", Name: "read"}))
	require.NoError(t, s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "h1", Complete: true, CurrentStreak: 1, LongestStreak: 1,
	}))

	day, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	day.Completed[0] = "tampered"

	again, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.True(t, again.IsCompleted("h1"))
}

func TestApplyToggle_AtomicPair(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "h1", Name: "read"}))

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
	require.NotNil(t, habit.LastCompleted)
	assert.Equal(t, "2024-05-11", *habit.LastCompleted)
}

func TestApplyToggle_UnknownHabit(t *testing.T) {
	s := memory.New()
	err := s.ApplyToggle(context.Background(), storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "nope", Complete: true,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNotes(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.SaveNote(ctx, "2024-05-11", "h1", "felt great"))
	day, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "felt great", day.Notes["h1"])

	// An empty note clears the entry.
	require.NoError(t, s.SaveNote(ctx, "2024-05-11", "h1", ""))
	day, err = s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	_, ok := day.Notes["h1"]
	assert.False(t, ok)
}

func TestRemoveCompletion(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "h1", Name: "read"}))
	require.NoError(t, s.ApplyToggle(ctx, storage.ToggleBatch{
		Day: "2024-05-11", HabitID: "h1", Complete: true, CurrentStreak: 1, LongestStreak: 1,
	}))

	require.NoError(t, s.RemoveCompletion(ctx, "2024-05-11", "h1"))
	day, err := s.GetDayRecord(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.False(t, day.IsCompleted("h1"))

	assert.ErrorIs(t, s.RemoveCompletion(ctx, "2024-06-01", "h1"), storage.ErrNotFound)
}

func TestGoalsAndCheckIns(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddGoal(ctx, models.Goal{ID: "g2", Text: "later", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.AddGoal(ctx, models.Goal{ID: "g1", Text: "sooner", CreatedAt: base}))
	goals, err := s.GetAllGoals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "g1", goals[0].ID)

	require.NoError(t, s.DeleteGoal(ctx, "g1"))
	assert.ErrorIs(t, s.DeleteGoal(ctx, "g1"), storage.ErrNotFound)

	require.NoError(t, s.SaveCheckIn(ctx, models.CheckIn{Day: "2024-05-11", Mood: "good", CreatedAt: base}))
	c, err := s.GetCheckIn(ctx, "2024-05-11")
	require.NoError(t, err)
	assert.Equal(t, "good", c.Mood)
	_, err = s.GetCheckIn(ctx, "2024-05-12")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestWatchChanges_DeliversEvents(t *testing.T) {
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.WatchChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, s.AddHabit(ctx, models.Habit{ID: "h1", Name: "read"}))

	select {
	case ev := <-events:
		assert.Equal(t, storage.EventHabits, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	require.NoError(t, s.SaveNote(ctx, "2024-05-11", "h1", "note"))
	select {
	case ev := <-events:
		assert.Equal(t, storage.EventDay, ev.Kind)
		assert.Equal(t, "2024-05-11", ev.Day)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}
