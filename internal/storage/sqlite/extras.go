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

func (s *Store) AddGoal(ctx context.Context, goal models.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, id, text, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET text = excluded.text`,
		s.userID, goal.ID, goal.Text, goal.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventGoals})
	return nil
}

func (s *Store) GetAllGoals(ctx context.Context) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, created_at FROM goals
		WHERE user_id = ?
		ORDER BY created_at, id`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Text, &createdAt); err != nil {
			return nil, err
		}
		g.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for goal %s: %w", g.ID, err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM goals WHERE user_id = ? AND id = ?`, s.userID, id)
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
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, day) DO UPDATE SET mood = excluded.mood`,
		s.userID, checkIn.Day, checkIn.Mood, checkIn.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: checkIn.Day})
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, day string) (models.CheckIn, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT day, mood, created_at FROM checkins
		WHERE user_id = ? AND day = ?`, s.userID, day)

	var c models.CheckIn
	var createdAt string
	err := row.Scan(&c.Day, &c.Mood, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, fmt.Errorf("check-in %s: %w", day, storage.ErrNotFound)
	}
	if err != nil {
		return models.CheckIn{}, err
	}
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to parse created_at for check-in %s: %w", day, err)
	}
	return c, nil
}
