package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/habits/internal/auth"
	"github.com/starford/habits/internal/habitservice"
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/store"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "habits-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, err := db.CreateUser(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatal(err)
	}

	codec := auth.NewTokenCodec("mcp-test-signing-secret", time.Hour)
	token, err := codec.Issue(user.ID)
	if err != nil {
		t.Fatal(err)
	}

	svc := habitservice.NewService(db)
	srv := New(svc, auth.NewVerifier(codec, db))
	return srv, token
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_habits":
		result, err = srv.listHabits(ctx, req)
	case "create_habit":
		result, err = srv.createHabit(ctx, req)
	case "log_mood":
		result, err = srv.logMood(ctx, req)
	case "list_moods":
		result, err = srv.listMoods(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndListHabits(t *testing.T) {
	srv, token := testServer(t)

	r := callTool(t, srv, "create_habit", map[string]interface{}{
		"token":    token,
		"name":     "run",
		"category": "health",
	})
	if r.IsError {
		t.Fatalf("create_habit error: %s", resultText(r))
	}
	var created models.Habit
	if err := json.Unmarshal([]byte(resultText(r)), &created); err != nil {
		t.Fatal(err)
	}
	if created.Name != "run" || created.Status != models.StatusActive {
		t.Errorf("created = %+v", created)
	}

	r = callTool(t, srv, "list_habits", map[string]interface{}{"token": token})
	if r.IsError {
		t.Fatalf("list_habits error: %s", resultText(r))
	}
	var habits []models.Habit
	if err := json.Unmarshal([]byte(resultText(r)), &habits); err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].ID != created.ID {
		t.Errorf("habits = %+v", habits)
	}
}

func TestToolsRejectBadToken(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_habits", map[string]interface{}{"token": "bogus"})
	if !r.IsError {
		t.Error("expected error for bad token")
	}
	if !strings.Contains(resultText(r), "credentials") {
		t.Errorf("error text = %q", resultText(r))
	}
}

func TestLogMoodComputesSentiment(t *testing.T) {
	srv, token := testServer(t)

	r := callTool(t, srv, "log_mood", map[string]interface{}{
		"token": token,
		"text":  "I feel great and happy",
	})
	if r.IsError {
		t.Fatalf("log_mood error: %s", resultText(r))
	}
	var mood models.MoodEntry
	if err := json.Unmarshal([]byte(resultText(r)), &mood); err != nil {
		t.Fatal(err)
	}
	if mood.Sentiment != 1.0 {
		t.Errorf("sentiment = %v, want 1.0", mood.Sentiment)
	}

	r = callTool(t, srv, "list_moods", map[string]interface{}{"token": token})
	var moods []models.MoodEntry
	if err := json.Unmarshal([]byte(resultText(r)), &moods); err != nil {
		t.Fatal(err)
	}
	if len(moods) != 1 {
		t.Errorf("moods = %+v", moods)
	}
}

func TestListHabitsInvalidSort(t *testing.T) {
	srv, token := testServer(t)

	r := callTool(t, srv, "list_habits", map[string]interface{}{
		"token": token,
		"sort":  "password",
	})
	if !r.IsError {
		t.Error("expected error for invalid sort field")
	}
}
