package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"revisio/internal/adapters/editor"
	"revisio/internal/adapters/filesystem"
	"revisio/internal/adapters/obsidian"
	"revisio/internal/adapters/tui"
	"revisio/internal/application/commands"
	"revisio/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize adapters
	fs := afero.NewReadOnlyFs(afero.NewOsFs())
	status := commands.NewStatusCommand(commands.Deps{
		Scanner: filesystem.NewScanner(fs, cfg.Root, cfg.Format.Extension),
		Ledger:  filesystem.NewLedgerStore(fs, cfg.LedgerPath()),
		Format:  cfg.Format,
		Logger:  cfg.LoggerTo(io.Discard, "revisio-tui"), // stderr belongs to the alt screen
	})
	editorOpener := editor.NewOpener(cfg.Editor)
	vaultOpener := obsidian.NewOpener(cfg.Vault)

	// Create and run TUI app
	app := tui.NewApp(status, editorOpener, vaultOpener)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
