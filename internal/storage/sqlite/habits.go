package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
)

const habitColumns = "id, name, recurrence_type, weekdays, current_streak, longest_streak, last_completed, created_at"

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	return s.UpdateHabit(ctx, habit)
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE user_id = ? AND id = ?`, s.userID, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(ctx context.Context, name string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE user_id = ? AND name = ?`, s.userID, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE user_id = ?
		ORDER BY created_at, id`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	var lastCompleted sql.NullString
	if habit.LastCompleted != nil {
		lastCompleted = sql.NullString{String: *habit.LastCompleted, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (user_id, id, name, recurrence_type, weekdays, current_streak, longest_streak, last_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET
			name = excluded.name,
			recurrence_type = excluded.recurrence_type,
			weekdays = excluded.weekdays,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_completed = excluded.last_completed`,
		s.userID, habit.ID, habit.Name, string(habit.Recurrence.Type),
		encodeWeekdays(habit.Recurrence.Weekdays),
		habit.CurrentStreak, habit.LongestStreak, lastCompleted,
		habit.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM habits WHERE user_id = ? AND id = ?`, s.userID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}

	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var recType, weekdays, createdAt string
	var lastCompleted sql.NullString

	err := row.Scan(&h.ID, &h.Name, &recType, &weekdays,
		&h.CurrentStreak, &h.LongestStreak, &lastCompleted, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Recurrence.Type = models.RecurrenceType(recType)
	h.Recurrence.Weekdays, err = decodeWeekdays(weekdays)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse weekdays for habit %s: %w", h.ID, err)
	}
	if lastCompleted.Valid {
		h.LastCompleted = &lastCompleted.String
	}
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	return h, nil
}
