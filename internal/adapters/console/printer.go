package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"revisio/internal/application/commands"
)

const rule = "=============================="

// Printer renders run summaries for the terminal
type Printer struct {
	w io.Writer

	title   lipgloss.Style
	heading lipgloss.Style
	item    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
}

// NewPrinter creates a printer writing to w. Styles degrade to plain text
// when w is not a terminal.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		heading: r.NewStyle().Bold(true),
		item:    r.NewStyle(),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
	}
}

// Banner prints the run header
func (p *Printer) Banner() {
	fmt.Fprintln(p.w, p.title.Render("--- Review Manager ---"))
}

// Result prints the summary of a plan or sync run
func (p *Printer) Result(res *commands.PlanResult) {
	fmt.Fprintf(p.w, "Scanned %d notes.\n", res.Stats.NotesScanned)

	if res.UpdateOnly {
		p.syncSummary(res)
	} else {
		p.planSummary(res)
	}

	switch {
	case res.UpdateOnly:
		fmt.Fprintln(p.w, "\n"+p.success.Render(fmt.Sprintf("Updated %s (synced file list).", res.LedgerPath)))
	case len(res.Selected) > 0:
		fmt.Fprintln(p.w, "\n"+p.success.Render(fmt.Sprintf("Updated %s with new review dates and mastery levels.", res.LedgerPath)))
	}
}

func (p *Printer) planSummary(res *commands.PlanResult) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, p.heading.Render("Review Plan for "+res.Date))
	fmt.Fprintln(p.w, rule)

	if len(res.Selected) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("No problems found to review."))
		return
	}
	for _, r := range res.Selected {
		fmt.Fprintln(p.w, p.item.Render(fmt.Sprintf("- [ ] %s (Mastery: %d)", r.Ref, r.Mastery)))
	}
}

func (p *Printer) syncSummary(res *commands.PlanResult) {
	fmt.Fprintln(p.w, "\nUpdate only mode: Syncing file list.")
	if len(res.NewItems) == 0 {
		return
	}

	fmt.Fprintf(p.w, "Found %d new %s.\n", len(res.NewItems), plural(len(res.NewItems), "note", "notes"))
	for _, ref := range res.NewItems {
		fmt.Fprintln(p.w, p.item.Render("- "+ref.String()))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// History prints journaled reviews, newest first
func (p *Printer) History(res *commands.HistoryResult) {
	if res.FirstSeen != "" {
		fmt.Fprintln(p.w, p.heading.Render(fmt.Sprintf("%s first seen %s", res.Ref, res.FirstSeen)))
	}
	if len(res.Events) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("No reviews recorded."))
		return
	}
	for _, e := range res.Events {
		fmt.Fprintln(p.w, p.item.Render(fmt.Sprintf("%s  %s  mastery %d -> %d", e.Date, e.Ref, e.MasteryBefore, e.MasteryAfter())))
	}
}
