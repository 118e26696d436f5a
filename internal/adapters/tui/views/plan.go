package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"revisio/internal/adapters/tui/styles"
	"revisio/internal/application/commands"
	"revisio/internal/domain"
)

// PlanKeyMap defines key bindings for the plan view
type PlanKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Vault  key.Binding
	Copy   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var PlanKeys = PlanKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open note"),
	),
	Vault: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in obsidian"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// StatusSource loads the merged notes and ledger state
type StatusSource interface {
	Execute(ctx context.Context) (*commands.StatusResult, error)
}

type rowKind int

const (
	rowHeading rowKind = iota
	rowNote
	rowText
)

type row struct {
	kind rowKind
	text string
	ref  domain.ItemRef
	tag  string // "new" or "review" for rows of the today section
}

// PlanModel shows today's plan followed by the per-folder timeline
type PlanModel struct {
	ViewState

	source StatusSource
	status *commands.StatusResult
	rows   []row
	cursor int // index into rows, always on a rowNote when any exists
}

// NewPlanModel creates a new plan view model
func NewPlanModel(source StatusSource) *PlanModel {
	return &PlanModel{source: source}
}

// Init loads the status
func (m *PlanModel) Init() tea.Cmd {
	return m.load
}

func (m *PlanModel) load() tea.Msg {
	res, err := m.source.Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return statusLoadedMsg{res}
}

type statusLoadedMsg struct {
	status *commands.StatusResult
}

type errMsg struct {
	err error
}

// Update handles messages for the plan view
func (m *PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case statusLoadedMsg:
		m.status = msg.status
		m.rows = buildRows(msg.status)
		m.cursor = m.nextNote(-1, 1)
		m.ClearMessage()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, PlanKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, PlanKeys.Up):
			m.cursor = m.nextNote(m.cursor, -1)
		case key.Matches(msg, PlanKeys.Down):
			m.cursor = m.nextNote(m.cursor, 1)
		case key.Matches(msg, PlanKeys.Reload):
			return m, m.load
		case key.Matches(msg, PlanKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		case key.Matches(msg, PlanKeys.Open):
			if path, ok := m.SelectedPath(); ok {
				return m, func() tea.Msg { return OpenEditorMsg{Path: path} }
			}
		case key.Matches(msg, PlanKeys.Vault):
			if path, ok := m.SelectedPath(); ok {
				return m, func() tea.Msg { return OpenInVaultMsg{Path: path} }
			}
		case key.Matches(msg, PlanKeys.Copy):
			if path, ok := m.SelectedPath(); ok {
				if err := clipboard.WriteAll(path); err != nil {
					m.SetMessage(fmt.Sprintf("copy failed: %v", err), true)
				} else {
					m.SetMessage("Copied "+path, false)
				}
			}
		}
	}
	return m, nil
}

// nextNote returns the index of the next note row from i in direction dir,
// or i when there is none
func (m *PlanModel) nextNote(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.rows); j += dir {
		if m.rows[j].kind == rowNote {
			return j
		}
	}
	if i < 0 {
		return 0
	}
	return i
}

// Selected returns the note under the cursor
func (m *PlanModel) Selected() (domain.ItemRef, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].kind != rowNote {
		return domain.ItemRef{}, false
	}
	return m.rows[m.cursor].ref, true
}

// SelectedPath returns the file path of the note under the cursor
func (m *PlanModel) SelectedPath() (string, bool) {
	ref, ok := m.Selected()
	if !ok || m.status == nil {
		return "", false
	}
	link := ref.Link(m.status.Format.Extension)
	return filepath.Join(m.status.Root, filepath.FromSlash(link)), true
}

// Reload reloads the status from disk
func (m *PlanModel) Reload() tea.Cmd {
	return m.load
}

func buildRows(res *commands.StatusResult) []row {
	var rows []row

	if res.Today == nil {
		rows = append(rows, row{kind: rowHeading, text: "Today"})
		rows = append(rows, row{kind: rowText, text: "No plan recorded yet. Run revisio to create one."})
	} else {
		rows = append(rows, row{kind: rowHeading, text: "Today · " + res.Today.Date})
		for _, ref := range res.Today.NewItems {
			rows = append(rows, row{kind: rowNote, text: ref.String(), ref: ref, tag: "new"})
		}
		for _, ref := range res.Today.ReviewItems {
			rows = append(rows, row{kind: rowNote, text: ref.String(), ref: ref, tag: "review"})
		}
		if len(res.Today.NewItems) == 0 && len(res.Today.ReviewItems) == 0 {
			rows = append(rows, row{kind: rowText, text: "Nothing planned."})
		}
	}

	for _, folder := range res.Progress.Folders() {
		names := res.Progress.Names(folder)
		rows = append(rows, row{kind: rowHeading, text: fmt.Sprintf("%s (%d)", folder, len(names))})
		for _, name := range names {
			ref := domain.ItemRef{Folder: folder, Name: name}
			rows = append(rows, row{kind: rowNote, text: formatNote(name, res.Progress[folder][name]), ref: ref})
		}
	}
	return rows
}

func formatNote(name string, rec domain.Record) string {
	last := "never"
	if len(rec.Dates) > 0 {
		last = rec.Dates[0]
	}
	return fmt.Sprintf("%-32s mastery %3d   last %s", name, rec.Mastery, last)
}

// View renders the plan view
func (m *PlanModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Revisio"))
	b.WriteString("\n")
	if m.status != nil {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d notes · %s", m.status.Stats.NotesScanned, m.status.LedgerPath)))
	}
	b.WriteString("\n\n")

	for i, r := range m.rows {
		b.WriteString(m.renderRow(r, i == m.cursor))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		if m.MessageErr {
			b.WriteString(styles.ErrorMsg.Render(m.Message))
		} else {
			b.WriteString(styles.Success.Render(m.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *PlanModel) renderRow(r row, selected bool) string {
	switch r.kind {
	case rowHeading:
		return "\n" + styles.SectionHeading.Render(r.text)
	case rowText:
		return "  " + styles.MutedText.Render(r.text)
	}

	text := r.text
	if r.tag != "" {
		text = fmt.Sprintf("[%s] %s", r.tag, text)
	}
	if selected {
		return "  " + styles.NodeSelected.Render(text)
	}
	if r.tag == "new" {
		return "  " + styles.NewNote.Render(text)
	}
	return "  " + styles.Note.Render(text)
}

func renderHelpLine() string {
	bindings := []key.Binding{
		PlanKeys.Down, PlanKeys.Up, PlanKeys.Open, PlanKeys.Vault, PlanKeys.Copy,
		PlanKeys.Reload, PlanKeys.Help, PlanKeys.Quit,
	}

	var parts []string
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKey.Render(h.Key),
			styles.HelpDesc.Render(h.Desc),
		))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}
