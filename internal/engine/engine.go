// Package engine implements the completion toggle state machine and the
// due-today schedule over the storage collaborator. It never reads the
// clock: every operation takes the evaluation time from the caller, which
// keeps the state transitions deterministic and testable.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jstrick/ritual/internal/logger"
	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/schedule"
	"github.com/jstrick/ritual/internal/storage"
)

type Engine struct {
	store storage.Provider
}

func New(store storage.Provider) *Engine {
	return &Engine{store: store}
}

// ToggleResult reports the state after a successful toggle so the caller
// can update its view without another read.
type ToggleResult struct {
	// Completed is the new membership of the habit in the day's set.
	Completed bool
	Habit     models.Habit
}

// DueToday returns the habits due on the given date, ordered by creation
// time (id as tiebreak). The full habit set stays available through the
// store for non-schedule operations.
func (e *Engine) DueToday(ctx context.Context, date time.Time) ([]models.Habit, error) {
	habits, err := e.store.GetAllHabits(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return schedule.DueOn(habits, date), nil
}

// IsCompleted reports whether the habit is marked done on the given date.
func (e *Engine) IsCompleted(ctx context.Context, habitID string, date time.Time) (bool, error) {
	day, err := e.store.GetDayRecord(ctx, models.DayKey(date))
	if err != nil {
		return false, storeErr(err)
	}
	return day.IsCompleted(habitID), nil
}

// Toggle flips the habit's completion state for today and updates its
// streak counters, committing both as one atomic batch.
//
// The habit record and the day record are re-read here, at commit time,
// rather than taken from any snapshot the caller holds. Repeated toggles
// within one day therefore never compound stale reads: a complete after an
// uncomplete restarts the streak at 1 unless yesterday's completion is
// still present in stored data.
func (e *Engine) Toggle(ctx context.Context, habitID string, today time.Time) (ToggleResult, error) {
	habit, err := e.store.GetHabit(ctx, habitID)
	if err != nil {
		return ToggleResult{}, storeErr(err)
	}
	dayKey := models.DayKey(today)
	day, err := e.store.GetDayRecord(ctx, dayKey)
	if err != nil {
		return ToggleResult{}, storeErr(err)
	}

	var batch storage.ToggleBatch
	if day.IsCompleted(habitID) {
		batch = uncompleteBatch(habit, dayKey)
	} else {
		batch = completeBatch(habit, today)
	}

	if err := e.store.ApplyToggle(ctx, batch); err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return ToggleResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return ToggleResult{}, fmt.Errorf("%w: %v", ErrBatchCommitFailed, err)
	}

	habit.CurrentStreak = batch.CurrentStreak
	habit.LongestStreak = batch.LongestStreak
	habit.LastCompleted = batch.LastCompleted
	return ToggleResult{Completed: batch.Complete, Habit: habit}, nil
}

// completeBatch builds the NotDone -> Done transition: membership added,
// streak extended when yesterday was completed, otherwise restarted at 1.
func completeBatch(habit models.Habit, today time.Time) storage.ToggleBatch {
	newStreak := 1
	if habit.LastCompleted != nil && *habit.LastCompleted == models.PrevDayKey(today) {
		newStreak = habit.CurrentStreak + 1
	}
	longest := habit.LongestStreak
	if newStreak > longest {
		longest = newStreak
	}
	dayKey := models.DayKey(today)
	return storage.ToggleBatch{
		Day:           dayKey,
		HabitID:       habit.ID,
		Complete:      true,
		CurrentStreak: newStreak,
		LongestStreak: longest,
		LastCompleted: &dayKey,
	}
}

// uncompleteBatch builds the Done -> NotDone reversal: membership removed,
// streak decremented with a floor at zero, last-completed cleared. The
// longest streak is a monotonic high-water mark and is never decremented.
func uncompleteBatch(habit models.Habit, dayKey string) storage.ToggleBatch {
	streak := habit.CurrentStreak
	if streak < 1 {
		// Tolerates a record marked done with a zero streak after a sync race.
		streak = 1
	}
	return storage.ToggleBatch{
		Day:           dayKey,
		HabitID:       habit.ID,
		Complete:      false,
		CurrentStreak: streak - 1,
		LongestStreak: habit.LongestStreak,
		LastCompleted: nil,
	}
}

// DeleteHabit removes the habit and then purges it from today's completion
// set. The purge is best-effort: a day record that does not exist yet must
// not fail the deletion.
func (e *Engine) DeleteHabit(ctx context.Context, habitID string, today time.Time) error {
	if err := e.store.DeleteHabit(ctx, habitID); err != nil {
		return storeErr(err)
	}
	dayKey := models.DayKey(today)
	if err := e.store.RemoveCompletion(ctx, dayKey, habitID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Could not purge deleted habit from today's completions",
			"habit", habitID, "day", dayKey, "error", err)
	}
	return nil
}

// SaveNote attaches a free-text note to the habit for the given date.
func (e *Engine) SaveNote(ctx context.Context, habitID, note string, date time.Time) error {
	if err := e.store.SaveNote(ctx, models.DayKey(date), habitID, note); err != nil {
		return storeErr(err)
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
