package main

import (
	"context"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"

	"revisio/internal/adapters/filesystem"
	mcpadapter "revisio/internal/adapters/mcp"
	"revisio/internal/adapters/sqlite"
	"revisio/internal/application/commands"
	"revisio/internal/config"
	"revisio/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	logger := cfg.Logger("revisio-mcp")

	fs := afero.NewOsFs()
	deps := commands.Deps{
		Scanner: filesystem.NewScanner(fs, cfg.Root, cfg.Format.Extension),
		Ledger:  filesystem.NewLedgerStore(fs, cfg.LedgerPath()),
		Clock:   ports.SystemClock{},
		Rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Format:  cfg.Format,
		Logger:  logger,
	}
	if path, ok := cfg.JournalPath(); ok {
		journal, err := sqlite.Open(path)
		if err != nil {
			logger.Warn("review journal unavailable", "path", path, "err", err)
		} else {
			deps.Journal = journal
		}
	}

	mcpServer := server.NewMCPServer(
		"revisio-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	logger.Info("serving on stdio", "root", cfg.Root, "ledger", cfg.LedgerPath())
	err = server.ServeStdio(mcpServer)
	if deps.Journal != nil {
		if cerr := deps.Journal.Close(); cerr != nil {
			logger.Warn("failed to close review journal", "err", cerr)
		}
	}
	if err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
