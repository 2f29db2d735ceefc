package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
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
		FROM habits WHERE user_id = $1 AND id = $2`, s.userID, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(ctx context.Context, name string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE user_id = $1 AND name = $2`, s.userID, name)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits WHERE user_id = $1
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
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = excluded.name,
			recurrence_type = excluded.recurrence_type,
			weekdays = excluded.weekdays,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_completed = excluded.last_completed`,
		s.userID, habit.ID, habit.Name, string(habit.Recurrence.Type),
		encodeWeekdays(habit.Recurrence.Weekdays),
		habit.CurrentStreak, habit.LongestStreak, lastCompleted, habit.CreatedAt)
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM habits WHERE user_id = $1 AND id = $2`, s.userID, id)
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

func (s *Store) GetDayRecord(ctx context.Context, day string) (models.DayRecord, error) {
	record := models.DayRecord{Day: day}

	rows, err := s.db.QueryContext(ctx, `
		SELECT habit_id FROM completions
		WHERE user_id = $1 AND day = $2
		ORDER BY habit_id`, s.userID, day)
	if err != nil {
		return models.DayRecord{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var habitID string
		if err := rows.Scan(&habitID); err != nil {
			return models.DayRecord{}, err
		}
		record.Completed = append(record.Completed, habitID)
	}
	if err := rows.Err(); err != nil {
		return models.DayRecord{}, err
	}

	noteRows, err := s.db.QueryContext(ctx, `
		SELECT habit_id, note FROM day_notes
		WHERE user_id = $1 AND day = $2`, s.userID, day)
	if err != nil {
		return models.DayRecord{}, err
	}
	defer noteRows.Close()
	for noteRows.Next() {
		var habitID, note string
		if err := noteRows.Scan(&habitID, &note); err != nil {
			return models.DayRecord{}, err
		}
		if record.Notes == nil {
			record.Notes = make(map[string]string)
		}
		record.Notes[habitID] = note
	}
	return record, noteRows.Err()
}

func (s *Store) SaveNote(ctx context.Context, day, habitID, note string) error {
	var err error
	if note == "" {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM day_notes WHERE user_id = $1 AND day = $2 AND habit_id = $3`,
			s.userID, day, habitID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO day_notes (user_id, day, habit_id, note)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, day, habit_id) DO UPDATE SET note = excluded.note`,
			s.userID, day, habitID, note)
	}
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: day})
	return nil
}

func (s *Store) RemoveCompletion(ctx context.Context, day, habitID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM completions WHERE user_id = $1 AND day = $2 AND habit_id = $3`,
		s.userID, day, habitID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("completion %s/%s: %w", day, habitID, storage.ErrNotFound)
	}

	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: day})
	return nil
}

func (s *Store) ApplyToggle(ctx context.Context, batch storage.ToggleBatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer tx.Rollback()

	if batch.Complete {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO completions (user_id, day, habit_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, day, habit_id) DO NOTHING`,
			s.userID, batch.Day, batch.HabitID)
	} else {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM completions WHERE user_id = $1 AND day = $2 AND habit_id = $3`,
			s.userID, batch.Day, batch.HabitID)
	}
	if err != nil {
		return err
	}

	var lastCompleted sql.NullString
	if batch.LastCompleted != nil {
		lastCompleted = sql.NullString{String: *batch.LastCompleted, Valid: true}
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE habits SET current_streak = $1, longest_streak = $2, last_completed = $3
		WHERE user_id = $4 AND id = $5`,
		batch.CurrentStreak, batch.LongestStreak, lastCompleted,
		s.userID, batch.HabitID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %s: %w", batch.HabitID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: batch.Day})
	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

func (s *Store) AddGoal(ctx context.Context, goal models.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, id, text, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, id) DO UPDATE SET text = excluded.text`,
		s.userID, goal.ID, goal.Text, goal.CreatedAt)
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventGoals})
	return nil
}

func (s *Store) GetAllGoals(ctx context.Context) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, created_at FROM goals
		WHERE user_id = $1
		ORDER BY created_at, id`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Text, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM goals WHERE user_id = $1 AND id = $2`, s.userID, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}

	s.feed.Publish(storage.Event{Kind: storage.EventGoals})
	return nil
}

func (s *Store) SaveCheckIn(ctx context.Context, checkIn models.CheckIn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checkins (user_id, day, mood, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, day) DO UPDATE SET mood = excluded.mood`,
		s.userID, checkIn.Day, checkIn.Mood, checkIn.CreatedAt)
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: checkIn.Day})
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, day string) (models.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT day, mood, created_at FROM checkins
		WHERE user_id = $1 AND day = $2`, s.userID, day)

	var c models.CheckIn
	err := row.Scan(&c.Day, &c.Mood, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, fmt.Errorf("check-in %s: %w", day, storage.ErrNotFound)
	}
	if err != nil {
		return models.CheckIn{}, err
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var recType, weekdays string
	var lastCompleted sql.NullString

	err := row.Scan(&h.ID, &h.Name, &recType, &weekdays,
		&h.CurrentStreak, &h.LongestStreak, &lastCompleted, &h.CreatedAt)
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
	return h, nil
}

func encodeWeekdays(weekdays []time.Weekday) string {
	if len(weekdays) == 0 {
		return ""
	}
	parts := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		parts = append(parts, strconv.Itoa(int(wd)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(raw string) ([]time.Weekday, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	weekdays := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday index %q", part)
		}
		weekdays = append(weekdays, time.Weekday(n))
	}
	return weekdays, nil
}
