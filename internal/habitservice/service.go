// Package habitservice implements the owner-scoped habit and mood operations
// on top of the store.
package habitservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/sentiment"
	"github.com/starford/habits/internal/store"
)

// List pagination bounds.
const (
	MaxPageSize     = 100
	MaxMoodPageSize = 500
)

// Service coordinates store access and enforces ownership.
type Service struct {
	db store.Store
}

// NewService creates a new habit service.
func NewService(db store.Store) *Service {
	return &Service{db: db}
}

// ListParams carries the filter, sort, and pagination inputs for ListHabits.
type ListParams struct {
	Status   string
	Category string
	Search   string
	Sort     string // defaults to created_at when empty
	Order    string // "asc" ascends; anything else descends
	Page     int    // 1-based
	Limit    int
}

// ListHabits returns one page of the owner's habits. The sort field is checked
// against the store allowlist and pagination bounds are checked before any
// query runs; violations return apperr.ErrInvalidArgument.
func (s *Service) ListHabits(ctx context.Context, ownerID int64, p ListParams) ([]models.Habit, error) {
	sortField := p.Sort
	if sortField == "" {
		sortField = "created_at"
	}
	if p.Page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", apperr.ErrInvalidArgument)
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return nil, fmt.Errorf("%w: limit must be in [1, %d]", apperr.ErrInvalidArgument, MaxPageSize)
	}

	habits, err := s.db.ListHabits(ctx, ownerID, store.HabitQuery{
		Status:   p.Status,
		Category: p.Category,
		Search:   p.Search,
		Sort:     sortField,
		Desc:     !strings.EqualFold(p.Order, "asc"),
		Limit:    p.Limit,
		Offset:   (p.Page - 1) * p.Limit,
	})
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	return habits, nil
}

// CreateHabit stores a new habit owned by ownerID. The owner is always the
// authenticated user; client-supplied owner data is never consulted.
func (s *Service) CreateHabit(ctx context.Context, ownerID int64, name, status string, category *string) (*models.Habit, error) {
	if status == "" {
		status = models.StatusActive
	}
	now := time.Now().UTC()
	return s.db.CreateHabit(ctx, &models.Habit{
		Name:      name,
		Status:    status,
		Category:  category,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UpdateHabit replaces name, status, and category of an owned habit and
// refreshes its updated_at timestamp.
func (s *Service) UpdateHabit(ctx context.Context, ownerID, id int64, name, status string, category *string) (*models.Habit, error) {
	habit, err := s.ownedHabit(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	habit.Name = name
	habit.Status = status
	habit.Category = category
	habit.UpdatedAt = time.Now().UTC()
	if err := s.db.UpdateHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// UpdateHabitStatus mutates only the status field of an owned habit. All
// other fields, including created_at, are left untouched.
func (s *Service) UpdateHabitStatus(ctx context.Context, ownerID, id int64, status string) (*models.Habit, error) {
	habit, err := s.ownedHabit(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	habit.Status = status
	habit.UpdatedAt = time.Now().UTC()
	if err := s.db.UpdateHabitStatus(ctx, id, habit.Status, habit.UpdatedAt); err != nil {
		return nil, err
	}
	return habit, nil
}

// DeleteHabit removes an owned habit. Mood entries that referenced it survive
// with their habit reference cleared.
func (s *Service) DeleteHabit(ctx context.Context, ownerID, id int64) error {
	if _, err := s.ownedHabit(ctx, ownerID, id); err != nil {
		return err
	}
	return s.db.DeleteHabit(ctx, id)
}

// CreateMood stores a new mood entry for userID. When habitID is given the
// referenced habit must exist and belong to the same user; the check runs
// before anything is persisted. The sentiment score is computed exactly once,
// here.
func (s *Service) CreateMood(ctx context.Context, userID int64, text string, habitID *int64) (*models.MoodEntry, error) {
	if habitID != nil {
		if _, err := s.ownedHabit(ctx, userID, *habitID); err != nil {
			return nil, err
		}
	}
	return s.db.CreateMood(ctx, &models.MoodEntry{
		UserID:    userID,
		HabitID:   habitID,
		Text:      text,
		Sentiment: sentiment.Score(text),
		CreatedAt: time.Now().UTC(),
	})
}

// ListMoods returns up to limit of the user's mood entries, newest first,
// optionally filtered by habit.
func (s *Service) ListMoods(ctx context.Context, userID int64, habitID *int64, limit int) ([]models.MoodEntry, error) {
	if limit < 1 || limit > MaxMoodPageSize {
		return nil, fmt.Errorf("%w: limit must be in [1, %d]", apperr.ErrInvalidArgument, MaxMoodPageSize)
	}
	moods, err := s.db.ListMoods(ctx, userID, habitID, limit)
	if err != nil {
		return nil, err
	}
	if moods == nil {
		moods = []models.MoodEntry{}
	}
	return moods, nil
}

// ownedHabit loads a habit and authorizes ownerID against it: ErrNotFound
// when absent, ErrForbidden when owned by someone else. The load and any
// following mutation are separate statements; a concurrent delete makes the
// mutation surface ErrNotFound on the loser.
func (s *Service) ownedHabit(ctx context.Context, ownerID, id int64) (*models.Habit, error) {
	habit, err := s.db.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.OwnerID != ownerID {
		return nil, apperr.ErrForbidden
	}
	return habit, nil
}
