package store

import (
	"context"
	"time"

	"github.com/starford/habits/internal/models"
)

// Store defines the persistence operations the service layer depends on.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Store interface {
	CreateUser(ctx context.Context, username, hashedPassword string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error)
	GetHabit(ctx context.Context, id int64) (*models.Habit, error)
	UpdateHabit(ctx context.Context, h *models.Habit) error
	UpdateHabitStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error
	DeleteHabit(ctx context.Context, id int64) error
	ListHabits(ctx context.Context, ownerID int64, q HabitQuery) ([]models.Habit, error)

	CreateMood(ctx context.Context, m *models.MoodEntry) (*models.MoodEntry, error)
	ListMoods(ctx context.Context, userID int64, habitID *int64, limit int) ([]models.MoodEntry, error)

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
