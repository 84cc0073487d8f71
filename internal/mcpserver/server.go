// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes habit and mood tools for LLM integration via stdio transport.
// Every tool authenticates with an access token argument resolved through the
// same verifier as the HTTP API, so ownership scoping applies unchanged.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/habits/internal/auth"
	"github.com/starford/habits/internal/habitservice"
	"github.com/starford/habits/internal/models"
)

// Server wraps the MCP server with habit tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *habitservice.Service
	verifier *auth.Verifier
}

// New creates a new MCP server with all tools registered.
func New(svc *habitservice.Service, verifier *auth.Verifier) *Server {
	s := &Server{svc: svc, verifier: verifier}

	s.mcp = server.NewMCPServer(
		"Smart Habits",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_habits",
		mcp.WithDescription("List the authenticated user's habits with optional filters."),
		mcp.WithString("token", mcp.Required(), mcp.Description("API access token obtained from /auth/login")),
		mcp.WithString("status", mcp.Description("Filter by exact status, e.g. active/completed")),
		mcp.WithString("category", mcp.Description("Filter by exact category")),
		mcp.WithString("search", mcp.Description("Case-insensitive substring match on habit name")),
		mcp.WithString("sort", mcp.Description("Sort field: id, name, status, category, created_at, updated_at")),
		mcp.WithString("order", mcp.Description("'asc' ascends; anything else descends")),
	), s.listHabits)

	s.mcp.AddTool(mcp.NewTool("create_habit",
		mcp.WithDescription("Create a new habit for the authenticated user."),
		mcp.WithString("token", mcp.Required(), mcp.Description("API access token")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Habit name")),
		mcp.WithString("status", mcp.Description("Initial status (defaults to active)")),
		mcp.WithString("category", mcp.Description("Optional category")),
	), s.createHabit)

	s.mcp.AddTool(mcp.NewTool("log_mood",
		mcp.WithDescription("Log a free-text mood entry, optionally attached to one of the user's habits. "+
			"The entry is annotated with a sentiment score in [-1, 1]."),
		mcp.WithString("token", mcp.Required(), mcp.Description("API access token")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Free-text mood description")),
		mcp.WithNumber("habit_id", mcp.Description("Optional id of a habit owned by the user")),
	), s.logMood)

	s.mcp.AddTool(mcp.NewTool("list_moods",
		mcp.WithDescription("List the authenticated user's mood entries, newest first."),
		mcp.WithString("token", mcp.Required(), mcp.Description("API access token")),
		mcp.WithNumber("habit_id", mcp.Description("Optional habit id filter")),
		mcp.WithNumber("limit", mcp.Description("Max entries to return (default 50, max 500)")),
	), s.listMoods)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// principal resolves the token argument to a stored user.
func (s *Server) principal(ctx context.Context, req mcp.CallToolRequest) (*models.User, *mcp.CallToolResult) {
	token, err := req.RequireString("token")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	user, err := s.verifier.Resolve(ctx, token)
	if err != nil {
		return nil, mcp.NewToolResultError("could not validate credentials")
	}
	return user, nil
}

func optionalString(req mcp.CallToolRequest, name string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return ""
}

func optionalInt(req mcp.CallToolRequest, name string) *int64 {
	if v, err := req.RequireInt(name); err == nil {
		id := int64(v)
		return &id
	}
	return nil
}

func (s *Server) listHabits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, fail := s.principal(ctx, req)
	if fail != nil {
		return fail, nil
	}
	habits, err := s.svc.ListHabits(ctx, user.ID, habitservice.ListParams{
		Status:   optionalString(req, "status"),
		Category: optionalString(req, "category"),
		Search:   optionalString(req, "search"),
		Sort:     optionalString(req, "sort"),
		Order:    optionalString(req, "order"),
		Page:     1,
		Limit:    habitservice.MaxPageSize,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(habits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createHabit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, fail := s.principal(ctx, req)
	if fail != nil {
		return fail, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var category *string
	if c := optionalString(req, "category"); c != "" {
		category = &c
	}
	habit, err := s.svc.CreateHabit(ctx, user.ID, name, optionalString(req, "status"), category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(habit, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) logMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, fail := s.principal(ctx, req)
	if fail != nil {
		return fail, nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mood, err := s.svc.CreateMood(ctx, user.ID, text, optionalInt(req, "habit_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(mood, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listMoods(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, fail := s.principal(ctx, req)
	if fail != nil {
		return fail, nil
	}
	limit := 50
	if v := optionalInt(req, "limit"); v != nil {
		limit = int(*v)
	}
	moods, err := s.svc.ListMoods(ctx, user.ID, optionalInt(req, "habit_id"), limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(moods, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
