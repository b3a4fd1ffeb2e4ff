package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/julianstephens/nudge/internal/constants"
	"github.com/julianstephens/nudge/internal/models"
	"github.com/julianstephens/nudge/internal/planner"
	"github.com/julianstephens/nudge/internal/reminders"
	"github.com/julianstephens/nudge/internal/utils"
)

const serverName = "nudge"

// Server exposes the reminder service as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	svc       *reminders.Service
	planner   *planner.Planner
	loc       *time.Location
	now       func() time.Time
}

func NewServer(svc *reminders.Service, p *planner.Planner, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{svc: svc, planner: p, loc: loc, now: time.Now}

	s.mcpServer = server.NewMCPServer(
		serverName,
		constants.Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio blocks serving tools over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("reminders_add",
			mcp.WithDescription("Create a reminder, optionally repeating daily, weekly, monthly or every N days"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title")),
			mcp.WithString("due", mcp.Required(), mcp.Description("Due time as 'YYYY-MM-DD HH:MM', 'YYYY-MM-DD' or RFC3339")),
			mcp.WithString("every", mcp.Description("Recurrence: daily, weekly, monthly or custom (empty for once)")),
			mcp.WithNumber("days", mcp.Description("Days between occurrences when every is custom")),
		),
		s.handleAdd,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminders_list",
			mcp.WithDescription("List every reminder ordered by due date"),
		),
		s.handleList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminders_due",
			mcp.WithDescription("List reminders due on a day with their completion for that day"),
			mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD (default: today)")),
		),
		s.handleDue,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminders_toggle",
			mcp.WithDescription("Toggle completion of a reminder for a day"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD (default: today)")),
		),
		s.handleToggle,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminders_delete",
			mcp.WithDescription("Delete a reminder and its notifications"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDelete,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("reminders_triggers",
			mcp.WithDescription("Show the notification triggers planned for a reminder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleTriggers,
	)
}

func (s *Server) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	due, err := utils.ParseDueDate(req.GetString("due", ""), s.loc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid due: %v", err)), nil
	}
	rec, err := models.ParseRecurrence(req.GetString("every", ""), int(req.GetFloat("days", 0)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.svc.Create(ctx, reminders.Draft{Title: title, DueDate: due, Recurrence: rec})
	if err != nil && r.ID == "" {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	return jsonResult(r, err)
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := s.svc.List(ctx)
	if len(all) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(all, nil)
}

type dueEntry struct {
	Reminder       models.Reminder `json:"reminder"`
	CompletedOnDay bool            `json:"completedOnDay"`
}

func (s *Server) handleDue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := s.date(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	due, err := s.svc.DueOn(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load reminders: %v", err)), nil
	}
	if len(due) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Nothing due on %s.", date.Format(constants.DateFormat))), nil
	}

	entries := make([]dueEntry, 0, len(due))
	for _, o := range due {
		entries = append(entries, dueEntry{Reminder: o.Reminder, CompletedOnDay: o.Completed})
	}
	return jsonResult(entries, nil)
}

func (s *Server) handleToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	date, err := s.date(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, ok, err := s.svc.ToggleCompletion(ctx, id, date)
	if !ok && err == nil {
		return mcp.NewToolResultError(fmt.Sprintf("reminder %s not found", id)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle reminder: %v", err)), nil
	}
	return jsonResult(r, err)
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	if err := s.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, reminders.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("reminder %s not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

func (s *Server) handleTriggers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	r, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	triggers := s.planner.PlanTriggers(r, s.now().In(s.loc))
	if len(triggers) == 0 {
		return mcp.NewToolResultText("No notifications planned."), nil
	}
	return jsonResult(triggers, nil)
}

func (s *Server) date(req mcp.CallToolRequest) (time.Time, error) {
	value := req.GetString("date", "")
	if value == "" {
		return s.now().In(s.loc), nil
	}
	date, err := utils.ParseDateInLocation(value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return date, nil
}

// jsonResult renders v, appending a warning line when the change was saved
// but notifications lag behind.
func jsonResult(v any, warn error) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	text := string(output)
	if warn != nil {
		text += "\nWarning: " + warn.Error()
	}
	return mcp.NewToolResultText(text), nil
}
