package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"revisio/internal/adapters/tui/views"
	"revisio/internal/ports"
)

var errNoVault = errors.New("no vault configured")

// ViewState represents the current view
type ViewState int

const (
	ViewPlan ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	editor ports.EditorOpener
	vault  ports.VaultOpener

	state ViewState
	plan  *views.PlanModel
	help  *views.HelpModel
}

// NewApp creates a new TUI application. vault may be nil.
func NewApp(source views.StatusSource, ed ports.EditorOpener, vault ports.VaultOpener) *App {
	return &App{
		editor: ed,
		vault:  vault,
		state:  ViewPlan,
		plan:   views.NewPlanModel(source),
		help:   views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.plan.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.plan.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToPlanMsg:
		a.state = ViewPlan
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case views.OpenInVaultMsg:
		return a, a.openInVault(msg.Path)

	case vaultOpenedMsg:
		if msg.err != nil {
			a.plan.SetMessage(msg.err.Error(), true)
		} else {
			a.plan.SetMessage("Opened in Obsidian", false)
		}
		return a, nil

	case editorFinishedMsg:
		if msg.err != nil {
			a.plan.SetMessage(msg.err.Error(), true)
			return a, nil
		}
		return a, a.plan.Reload()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewPlan:
		_, cmd = a.plan.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

type vaultOpenedMsg struct{ err error }

func (a *App) openInVault(path string) tea.Cmd {
	return func() tea.Msg {
		if a.vault == nil {
			return vaultOpenedMsg{err: errNoVault}
		}
		return vaultOpenedMsg{err: a.vault.OpenNote(path)}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.plan.View()
	}
}
