package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	dbFile, err := os.CreateTemp("", "habits-store-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u
}

func testHabit(t *testing.T, db *DB, ownerID int64, name, status string, category *string) *models.Habit {
	t.Helper()
	now := time.Now().UTC()
	h, err := db.CreateHabit(context.Background(), &models.Habit{
		Name:      name,
		Status:    status,
		Category:  category,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateHabit(%q): %v", name, err)
	}
	return h
}

func strptr(s string) *string { return &s }

func TestCreateUserDuplicate(t *testing.T) {
	db := testDB(t)
	testUser(t, db, "alice")

	_, err := db.CreateUser(context.Background(), "alice", "other")
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("duplicate username err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetUser(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := db.GetUserByUsername(context.Background(), "nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetHabitRoundtrip(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	created := testHabit(t, db, u.ID, "run", "active", strptr("health"))

	got, err := db.GetHabit(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetHabit: %v", err)
	}
	if got.Name != "run" || got.Status != "active" || got.OwnerID != u.ID {
		t.Errorf("got = %+v", got)
	}
	if got.Category == nil || *got.Category != "health" {
		t.Errorf("category = %v, want health", got.Category)
	}
}

func TestListHabitsInvalidSort(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")

	_, err := db.ListHabits(context.Background(), u.ID, HabitQuery{Sort: "password", Limit: 10})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestListHabitsOwnerScoped(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice")
	bob := testUser(t, db, "bob")
	testHabit(t, db, alice.ID, "run", "active", nil)
	testHabit(t, db, bob.ID, "read", "active", nil)

	habits, err := db.ListHabits(context.Background(), alice.ID, HabitQuery{Sort: "id", Limit: 10})
	if err != nil {
		t.Fatalf("ListHabits: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "run" {
		t.Errorf("habits = %+v, want only alice's", habits)
	}
}

func TestListHabitsFilters(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	testHabit(t, db, u.ID, "Morning Run", "active", strptr("health"))
	testHabit(t, db, u.ID, "Read books", "paused", strptr("leisure"))
	testHabit(t, db, u.ID, "Running drills", "active", strptr("health"))

	ctx := context.Background()

	byStatus, err := db.ListHabits(ctx, u.ID, HabitQuery{Status: "paused", Sort: "id", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(byStatus) != 1 || byStatus[0].Name != "Read books" {
		t.Errorf("status filter = %+v", byStatus)
	}

	byCategory, err := db.ListHabits(ctx, u.ID, HabitQuery{Category: "health", Sort: "id", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 2 {
		t.Errorf("category filter returned %d, want 2", len(byCategory))
	}

	// Substring search is case-insensitive.
	bySearch, err := db.ListHabits(ctx, u.ID, HabitQuery{Search: "run", Sort: "id", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 2 {
		t.Errorf("search filter returned %d, want 2", len(bySearch))
	}

	// Filters combine conjunctively.
	combined, err := db.ListHabits(ctx, u.ID, HabitQuery{Status: "active", Search: "drills", Sort: "id", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(combined) != 1 || combined[0].Name != "Running drills" {
		t.Errorf("combined filter = %+v", combined)
	}
}

func TestListHabitsSortMonotonic(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	for _, name := range []string{"cook", "abs", "bike", "draw"} {
		testHabit(t, db, u.ID, name, "active", nil)
	}
	ctx := context.Background()

	asc, err := db.ListHabits(ctx, u.ID, HabitQuery{Sort: "name", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i-1].Name > asc[i].Name {
			t.Errorf("ascending order violated at %d: %q > %q", i, asc[i-1].Name, asc[i].Name)
		}
	}

	desc, err := db.ListHabits(ctx, u.ID, HabitQuery{Sort: "name", Desc: true, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(desc); i++ {
		if desc[i-1].Name < desc[i].Name {
			t.Errorf("descending order violated at %d: %q < %q", i, desc[i-1].Name, desc[i].Name)
		}
	}
}

func TestListHabitsPagination(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	for i := 0; i < 7; i++ {
		testHabit(t, db, u.ID, string(rune('a'+i)), "active", nil)
	}
	ctx := context.Background()

	all, err := db.ListHabits(ctx, u.ID, HabitQuery{Sort: "id", Limit: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 7 {
		t.Fatalf("total = %d, want 7", len(all))
	}

	// Concatenating pages reproduces the unpaginated result, no gaps, no dups.
	var paged []models.Habit
	for page := 1; page <= 3; page++ {
		chunk, err := db.ListHabits(ctx, u.ID, HabitQuery{Sort: "id", Limit: 3, Offset: (page - 1) * 3})
		if err != nil {
			t.Fatal(err)
		}
		if len(chunk) > 3 {
			t.Errorf("page %d has %d items, limit 3", page, len(chunk))
		}
		paged = append(paged, chunk...)
	}
	if len(paged) != len(all) {
		t.Fatalf("paged total = %d, want %d", len(paged), len(all))
	}
	for i := range all {
		if paged[i].ID != all[i].ID {
			t.Errorf("page concat mismatch at %d: %d != %d", i, paged[i].ID, all[i].ID)
		}
	}

	// Past-the-end page yields an empty result, not an error.
	empty, err := db.ListHabits(ctx, u.ID, HabitQuery{Sort: "id", Limit: 3, Offset: 30})
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("past-the-end page returned %d items", len(empty))
	}
}

func TestUpdateHabitStatusOnly(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	h := testHabit(t, db, u.ID, "run", "active", strptr("health"))

	later := h.UpdatedAt.Add(time.Second)
	if err := db.UpdateHabitStatus(context.Background(), h.ID, "completed", later); err != nil {
		t.Fatalf("UpdateHabitStatus: %v", err)
	}

	got, err := db.GetHabit(context.Background(), h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "completed" {
		t.Errorf("status = %q", got.Status)
	}
	if got.Name != "run" || got.Category == nil || *got.Category != "health" {
		t.Errorf("unrelated fields changed: %+v", got)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("created_at changed: %v != %v", got.CreatedAt, h.CreatedAt)
	}
	if !got.UpdatedAt.After(h.UpdatedAt) {
		t.Errorf("updated_at did not advance: %v", got.UpdatedAt)
	}
}

func TestDeleteHabitNotFound(t *testing.T) {
	db := testDB(t)
	if err := db.DeleteHabit(context.Background(), 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteHabitClearsMoodReference(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	h := testHabit(t, db, u.ID, "run", "active", nil)
	ctx := context.Background()

	mood, err := db.CreateMood(ctx, &models.MoodEntry{
		UserID:    u.ID,
		HabitID:   &h.ID,
		Text:      "great run",
		Sentiment: 1.0,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatal(err)
	}

	moods, err := db.ListMoods(ctx, u.ID, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(moods) != 1 {
		t.Fatalf("moods = %d, want 1 surviving entry", len(moods))
	}
	if moods[0].ID != mood.ID {
		t.Errorf("unexpected mood id %d", moods[0].ID)
	}
	if moods[0].HabitID != nil {
		t.Errorf("habit reference = %v, want nil after habit deletion", *moods[0].HabitID)
	}
}

func TestListMoodsNewestFirst(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		_, err := db.CreateMood(ctx, &models.MoodEntry{
			UserID:    u.ID,
			Text:      "entry",
			Sentiment: 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	moods, err := db.ListMoods(ctx, u.ID, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(moods) != 3 {
		t.Fatalf("got %d moods", len(moods))
	}
	for i := 1; i < len(moods); i++ {
		if moods[i-1].CreatedAt.Before(moods[i].CreatedAt) {
			t.Errorf("not newest-first at %d", i)
		}
	}
}

func TestListMoodsHabitFilterAndLimit(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "alice")
	h := testHabit(t, db, u.ID, "run", "active", nil)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 4; i++ {
		entry := &models.MoodEntry{UserID: u.ID, Text: "free", CreatedAt: now}
		if i%2 == 0 {
			entry.HabitID = &h.ID
		}
		if _, err := db.CreateMood(ctx, entry); err != nil {
			t.Fatal(err)
		}
	}

	filtered, err := db.ListMoods(ctx, u.ID, &h.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 2 {
		t.Errorf("filtered = %d, want 2", len(filtered))
	}

	limited, err := db.ListMoods(ctx, u.ID, nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 3 {
		t.Errorf("limited = %d, want 3", len(limited))
	}
}

func TestSortFields(t *testing.T) {
	want := []string{"category", "created_at", "id", "name", "status", "updated_at"}
	got := SortFields()
	if len(got) != len(want) {
		t.Fatalf("SortFields() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
