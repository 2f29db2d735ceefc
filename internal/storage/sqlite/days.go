package sqlite

import (
	"context"
	"fmt"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
)

func (s *Store) GetDayRecord(ctx context.Context, day string) (models.DayRecord, error) {
	record := models.DayRecord{Day: day}

	rows, err := s.db.QueryContext(ctx, `
		SELECT habit_id FROM completions
		WHERE user_id = ? AND day = ?
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
		WHERE user_id = ? AND day = ?`, s.userID, day)
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
			DELETE FROM day_notes WHERE user_id = ? AND day = ? AND habit_id = ?`,
			s.userID, day, habitID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO day_notes (user_id, day, habit_id, note)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, day, habit_id) DO UPDATE SET note = excluded.note`,
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
		DELETE FROM completions WHERE user_id = ? AND day = ? AND habit_id = ?`,
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

// ApplyToggle runs the completion-set mutation and the streak update in a
// single transaction. Either both land or neither does.
func (s *Store) ApplyToggle(ctx context.Context, batch storage.ToggleBatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	defer tx.Rollback()

	if batch.Complete {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO completions (user_id, day, habit_id)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id, day, habit_id) DO NOTHING`,
			s.userID, batch.Day, batch.HabitID)
	} else {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM completions WHERE user_id = ? AND day = ? AND habit_id = ?`,
			s.userID, batch.Day, batch.HabitID)
	}
	if err != nil {
		return err
	}

	var lastCompleted any
	if batch.LastCompleted != nil {
		lastCompleted = *batch.LastCompleted
	}
	result, err := tx.ExecContext(ctx, `
		UPDATE habits SET current_streak = ?, longest_streak = ?, last_completed = ?
		WHERE user_id = ? AND id = ?`,
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
