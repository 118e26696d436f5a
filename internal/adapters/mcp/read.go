package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"revisio/internal/application/commands"
	"revisio/internal/domain"
)

// RegisterReadTools adds the read-only ledger tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps commands.Deps) {
	s.AddTool(statusTool(), statusHandler(deps))
	s.AddTool(todayTool(), todayHandler(deps))
	s.AddTool(notePathTool(), notePathHandler(deps))
	if deps.Journal != nil {
		s.AddTool(historyTool(), historyHandler(deps))
	}
}

// --- status ---

func statusTool() mcp.Tool {
	return mcp.NewTool("status",
		mcp.WithDescription("Show every note with its mastery weight and last review dates, merged from the notes folder and the ledger. Does not modify anything."),
		mcp.WithString("folder",
			mcp.Description("Only show notes of this folder (e.g. graphs). Omit for all folders."),
		),
	)
}

func statusHandler(deps commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folder := req.GetString("folder", "")

		res, err := commands.NewStatusCommand(deps).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if folder != "" {
			if _, ok := res.Progress[folder]; !ok {
				return toolError(fmt.Errorf("unknown folder: %s", folder))
			}
		}

		var sb strings.Builder
		for _, ref := range res.Progress.Refs() {
			if folder != "" && ref.Folder != folder {
				continue
			}
			rec, _ := res.Progress.Get(ref)
			sb.WriteString(formatRecord(ref, rec))
			sb.WriteByte('\n')
		}
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No notes found."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- today ---

func todayTool() mcp.Tool {
	return mcp.NewTool("today",
		mcp.WithDescription("Show the most recent review plan recorded in the ledger: its date, new notes and notes to review."),
	)
}

func todayHandler(deps commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewStatusCommand(deps).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if res.Today == nil {
			return mcp.NewToolResultText("No plan recorded yet."), nil
		}
		return mcp.NewToolResultText(formatToday(*res.Today)), nil
	}
}

// --- note_path ---

func notePathTool() mcp.Tool {
	return mcp.NewTool("note_path",
		mcp.WithDescription("Get the filesystem path of a note from its folder/name reference."),
		mcp.WithString("ref",
			mcp.Description("Note reference as folder/name (e.g. graphs/dijkstra)"),
			mcp.Required(),
		),
	)
}

func notePathHandler(deps commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString("ref", "")
		if raw == "" {
			return toolError(fmt.Errorf("ref is required"))
		}

		res, err := commands.NewStatusCommand(deps).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		ext := res.Format.Extension
		ref, err := domain.ParseLink(strings.TrimSuffix(raw, ext)+ext, ext)
		if err != nil {
			return toolError(err)
		}
		if !res.Progress.Has(ref) {
			return toolError(fmt.Errorf("note not found: %s", ref))
		}
		return mcp.NewToolResultText(filepath.Join(res.Root, filepath.FromSlash(ref.Link(ext)))), nil
	}
}

// --- history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("history",
		mcp.WithDescription("List past reviews from the review journal, newest first. Unlike the ledger, which keeps three dates per note, the journal keeps every review."),
		mcp.WithString("ref",
			mcp.Description("Note reference as folder/name. Omit for reviews of every note."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of reviews to return (default 20, 0 for all)"),
		),
	)
}

func historyHandler(deps commands.Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var ref domain.ItemRef
		if raw := req.GetString("ref", ""); raw != "" {
			ext := deps.Format.WithDefaults().Extension
			parsed, err := domain.ParseLink(strings.TrimSuffix(raw, ext)+ext, ext)
			if err != nil {
				return toolError(err)
			}
			ref = parsed
		}

		res, err := commands.NewHistoryCommand(deps.Journal, ref, req.GetInt("limit", 20)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatHistory(res)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatRecord(ref domain.ItemRef, rec domain.Record) string {
	dates := "never reviewed"
	if len(rec.Dates) > 0 {
		dates = strings.Join(rec.Dates, ", ")
	}
	return fmt.Sprintf("%s  mastery=%d  %s", ref, rec.Mastery, dates)
}

func formatToday(t domain.TodaySection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Plan for %s\n", t.Date)
	writeList(&sb, "New notes", t.NewItems)
	if t.ShowReview {
		writeList(&sb, "To review", t.ReviewItems)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, title string, refs []domain.ItemRef) {
	fmt.Fprintf(sb, "\n%s:\n", title)
	if len(refs) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for _, ref := range refs {
		fmt.Fprintf(sb, "  - %s\n", ref)
	}
}

func formatHistory(res *commands.HistoryResult) string {
	var sb strings.Builder
	if res.FirstSeen != "" {
		fmt.Fprintf(&sb, "%s first seen %s\n", res.Ref, res.FirstSeen)
	}
	if len(res.Events) == 0 {
		sb.WriteString("No reviews recorded.\n")
		return sb.String()
	}
	for _, ev := range res.Events {
		fmt.Fprintf(&sb, "%s  %s  mastery %d -> %d\n", ev.Date, ev.Ref, ev.MasteryBefore, ev.MasteryAfter())
	}
	return sb.String()
}
