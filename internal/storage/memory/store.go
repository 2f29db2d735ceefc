// Package memory provides an in-process Provider used by tests and the
// memory backend. It keeps the same snapshot semantics as the durable
// backends: reads return copies, and a toggle batch applies under one lock.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jstrick/ritual/internal/models"
	"github.com/jstrick/ritual/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	habits   map[string]models.Habit
	days     map[string]models.DayRecord
	goals    map[string]models.Goal
	checkins map[string]models.CheckIn
	feed     *storage.Feed
}

func New() *Store {
	return &Store{
		habits:   make(map[string]models.Habit),
		days:     make(map[string]models.DayRecord),
		goals:    make(map[string]models.Goal),
		checkins: make(map[string]models.CheckIn),
		feed:     storage.NewFeed(),
	}
}

func (s *Store) Init(ctx context.Context) error { return nil }
func (s *Store) Load(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

// Habits

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	return s.UpdateHabit(ctx, habit)
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, nil
}

func (s *Store) GetHabitByName(ctx context.Context, name string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.habits {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	habits := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.Before(habits[j].CreatedAt)
		}
		return habits[i].ID < habits[j].ID
	})
	return habits, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	s.mu.Lock()
	s.habits[habit.ID] = habit
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.habits[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	delete(s.habits, id)
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

// Day records

func (s *Store) GetDayRecord(ctx context.Context, day string) (models.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.days[day]; ok {
		// Hand out a copy so callers never share the stored snapshot.
		return d.Clone(), nil
	}
	return models.DayRecord{Day: day}, nil
}

func (s *Store) SaveNote(ctx context.Context, day, habitID, note string) error {
	s.mu.Lock()
	d, ok := s.days[day]
	if !ok {
		d = models.DayRecord{Day: day}
	}
	s.days[day] = d.WithNote(habitID, note)
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: day})
	return nil
}

func (s *Store) RemoveCompletion(ctx context.Context, day, habitID string) error {
	s.mu.Lock()
	d, ok := s.days[day]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("day record %s: %w", day, storage.ErrNotFound)
	}
	s.days[day] = d.WithoutCompleted(habitID)
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: day})
	return nil
}

// ApplyToggle applies the day-set mutation and the streak update under one
// lock, so no reader observes a torn state.
func (s *Store) ApplyToggle(ctx context.Context, batch storage.ToggleBatch) error {
	s.mu.Lock()
	habit, ok := s.habits[batch.HabitID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("habit %s: %w", batch.HabitID, storage.ErrNotFound)
	}

	d, ok := s.days[batch.Day]
	if !ok {
		d = models.DayRecord{Day: batch.Day}
	}
	if batch.Complete {
		d = d.WithCompleted(batch.HabitID)
	} else {
		d = d.WithoutCompleted(batch.HabitID)
	}
	s.days[batch.Day] = d

	habit.CurrentStreak = batch.CurrentStreak
	habit.LongestStreak = batch.LongestStreak
	habit.LastCompleted = batch.LastCompleted
	s.habits[batch.HabitID] = habit
	s.mu.Unlock()

	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: batch.Day})
	s.feed.Publish(storage.Event{Kind: storage.EventHabits})
	return nil
}

// Goals

func (s *Store) AddGoal(ctx context.Context, goal models.Goal) error {
	s.mu.Lock()
	s.goals[goal.ID] = goal
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventGoals})
	return nil
}

func (s *Store) GetAllGoals(ctx context.Context) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goals := make([]models.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})
	return goals, nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.goals[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("goal %s: %w", id, storage.ErrNotFound)
	}
	delete(s.goals, id)
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventGoals})
	return nil
}

// Check-ins

func (s *Store) SaveCheckIn(ctx context.Context, checkIn models.CheckIn) error {
	s.mu.Lock()
	s.checkins[checkIn.Day] = checkIn
	s.mu.Unlock()
	s.feed.Publish(storage.Event{Kind: storage.EventDay, Day: checkIn.Day})
	return nil
}

func (s *Store) GetCheckIn(ctx context.Context, day string) (models.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checkins[day]
	if !ok {
		return models.CheckIn{}, fmt.Errorf("check-in %s: %w", day, storage.ErrNotFound)
	}
	return c, nil
}

func (s *Store) WatchChanges(ctx context.Context) (<-chan storage.Event, error) {
	return s.feed.Subscribe(ctx), nil
}
