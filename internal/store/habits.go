package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
)

// sortColumns maps API sort field names to habit table columns. Sort fields
// are resolved through this table only — never by reflection and never by
// interpolating caller input into SQL.
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"status":     "status",
	"category":   "category",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// SortFields returns the allowed sort field names in lexical order.
func SortFields() []string {
	fields := make([]string, 0, len(sortColumns))
	for f := range sortColumns {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// HabitQuery describes an owner-scoped habit listing: conjunctive filters,
// a single allowlisted sort field, and offset pagination. The caller is
// responsible for validating Limit and Offset; Sort is validated here.
type HabitQuery struct {
	Status   string // exact match when non-empty
	Category string // exact match when non-empty
	Search   string // case-insensitive substring on name when non-empty
	Sort     string // member of sortColumns
	Desc     bool
	Limit    int
	Offset   int
}

// ListHabits returns the owner's habits matching q, ordered and paginated.
// Filtering and ordering happen before the offset/limit window is applied.
// A deterministic id tiebreak keeps page boundaries stable under equal sort
// keys.
func (db *DB) ListHabits(ctx context.Context, ownerID int64, q HabitQuery) ([]models.Habit, error) {
	column, ok := sortColumns[q.Sort]
	if !ok {
		return nil, fmt.Errorf("%w: invalid sort field %q (allowed: %s)",
			apperr.ErrInvalidArgument, q.Sort, strings.Join(SortFields(), ", "))
	}

	where := []string{"owner_id = ?"}
	args := []any{ownerID}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if q.Search != "" {
		where = append(where, "name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	args = append(args, q.Limit, q.Offset)

	query := fmt.Sprintf(
		`SELECT id, name, status, category, owner_id, created_at, updated_at
		 FROM habits
		 WHERE %s
		 ORDER BY %s %s, id %s
		 LIMIT ? OFFSET ?`,
		strings.Join(where, " AND "), column, dir, dir)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list habits: %w", err)
	}
	defer rows.Close()

	var out []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// CreateHabit inserts h and returns it with the assigned id.
func (db *DB) CreateHabit(ctx context.Context, h *models.Habit) (*models.Habit, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO habits (name, status, category, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		h.Name, h.Status, h.Category, h.OwnerID, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: create habit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create habit id: %w", err)
	}
	h.ID = id
	return h, nil
}

// GetHabit returns the habit with the given id, or apperr.ErrNotFound.
func (db *DB) GetHabit(ctx context.Context, id int64) (*models.Habit, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, status, category, owner_id, created_at, updated_at
		 FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// UpdateHabit replaces name, status, category, and updated_at of the habit
// identified by h.ID. Identifier, owner, and created_at never change.
func (db *DB) UpdateHabit(ctx context.Context, h *models.Habit) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE habits SET name = ?, status = ?, category = ?, updated_at = ? WHERE id = ?`,
		h.Name, h.Status, h.Category, h.UpdatedAt, h.ID)
	if err != nil {
		return fmt.Errorf("store: update habit: %w", err)
	}
	return requireRow(res)
}

// UpdateHabitStatus mutates only the status field and the updated_at timestamp.
func (db *DB) UpdateHabitStatus(ctx context.Context, id int64, status string, updatedAt time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE habits SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("store: update habit status: %w", err)
	}
	return requireRow(res)
}

// DeleteHabit removes the habit. Mood entries referencing it keep existing
// with their habit reference nulled out by the schema's ON DELETE SET NULL.
func (db *DB) DeleteHabit(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete habit: %w", err)
	}
	return requireRow(res)
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(s scanner) (*models.Habit, error) {
	var h models.Habit
	var category sql.NullString
	err := s.Scan(&h.ID, &h.Name, &h.Status, &category, &h.OwnerID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		h.Category = &category.String
	}
	return &h, nil
}

// requireRow maps zero affected rows to apperr.ErrNotFound. A row deleted by
// a concurrent request surfaces here as not found, which is the intended
// outcome for the losing request.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
