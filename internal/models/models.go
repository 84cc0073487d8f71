// Package models defines the domain types for Smart Habits.
package models

import "time"

// StatusActive is the status assigned to new habits when none is given.
const StatusActive = "active"

// User is an account that owns habits and mood entries.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
}

// Habit is a user-owned tracked behaviour. OwnerID is set once at creation
// from the authenticated user and never from client input.
type Habit struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Category  *string   `json:"category"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MoodEntry is a free-text journal entry, optionally linked to one of the
// owner's habits. Sentiment is computed once at creation and never changes.
type MoodEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	HabitID   *int64    `json:"habit_id"`
	Text      string    `json:"text"`
	Sentiment float64   `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}
