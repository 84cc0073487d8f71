package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/habits/internal/models"
)

// CreateMood inserts m and returns it with the assigned id. The sentiment
// value is stored as given and never recomputed.
func (db *DB) CreateMood(ctx context.Context, m *models.MoodEntry) (*models.MoodEntry, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO moods (user_id, habit_id, text, sentiment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.UserID, m.HabitID, m.Text, m.Sentiment, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create mood: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create mood id: %w", err)
	}
	m.ID = id
	return m, nil
}

// ListMoods returns the user's mood entries newest-first, optionally filtered
// by habit. The id tiebreak keeps ordering deterministic for entries created
// within the same instant.
func (db *DB) ListMoods(ctx context.Context, userID int64, habitID *int64, limit int) ([]models.MoodEntry, error) {
	query := `SELECT id, user_id, habit_id, text, sentiment, created_at
		 FROM moods WHERE user_id = ?`
	args := []any{userID}
	if habitID != nil {
		query += ` AND habit_id = ?`
		args = append(args, *habitID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list moods: %w", err)
	}
	defer rows.Close()

	var out []models.MoodEntry
	for rows.Next() {
		var m models.MoodEntry
		var habit sql.NullInt64
		if err := rows.Scan(&m.ID, &m.UserID, &habit, &m.Text, &m.Sentiment, &m.CreatedAt); err != nil {
			return nil, err
		}
		if habit.Valid {
			m.HabitID = &habit.Int64
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
