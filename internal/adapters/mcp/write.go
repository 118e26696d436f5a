package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"revisio/internal/application/commands"
)

// ledgerMu serialises ledger rewrites; the ledger assumes a single writer
var ledgerMu sync.Mutex

// RegisterWriteTools adds the ledger-updating tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, deps commands.Deps) {
	s.AddTool(planTool(), planHandler(deps, false))
	s.AddTool(syncTool(), planHandler(deps, true))
}

// --- plan ---

func planTool() mcp.Tool {
	return mcp.NewTool("plan",
		mcp.WithDescription("Generate today's review plan: picks notes to review (less mastered notes are more likely), bumps their mastery and records today's date in the ledger."),
	)
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Sync the note list into the ledger without planning reviews. New notes are recorded in today's section."),
	)
}

func planHandler(deps commands.Deps, updateOnly bool) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ledgerMu.Lock()
		defer ledgerMu.Unlock()

		res, err := commands.NewPlanCommand(deps, updateOnly).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatPlan(res)), nil
	}
}

func formatPlan(res *commands.PlanResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scanned %d notes, %d new.\n", res.Stats.NotesScanned, len(res.NewItems))

	if res.UpdateOnly {
		fmt.Fprintf(&sb, "Synced file list into %s.\n", res.LedgerPath)
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nReview plan for %s:\n", res.Date)
	if len(res.Selected) == 0 {
		sb.WriteString("  No notes to review.\n")
	}
	for _, r := range res.Selected {
		fmt.Fprintf(&sb, "  - %s (mastery %d)\n", r.Ref, r.Mastery)
	}
	fmt.Fprintf(&sb, "\nUpdated %s.\n", res.LedgerPath)
	return sb.String()
}
