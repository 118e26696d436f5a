package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"revisio/internal/domain"
)

// Render rebuilds the ledger from the previous document lines: the text
// above the timeline heading is kept with the today section replaced in
// place (or appended), then the timeline is regenerated from pm. Sections
// after the timeline, starting at its next level 1 or 2 heading, are kept.
func Render(lines []string, pm domain.ProgressMap, today domain.TodaySection, f Format) string {
	cut := timelineIndex(lines, f)
	suffix := lines[timelineEnd(lines, cut):]
	prefix := append([]string(nil), lines[:cut]...)
	if n := len(prefix); n > 0 && !strings.HasSuffix(prefix[n-1], "\n") {
		prefix[n-1] += "\n"
	}

	section := RenderToday(today, f)
	if start, end, ok := findToday(prefix, f); ok {
		prefix = append(prefix[:start], append(section, prefix[end:]...)...)
	} else {
		prefix = append(prefix, section...)
	}

	var b strings.Builder
	for _, line := range prefix {
		b.WriteString(line)
	}
	b.WriteString(RenderTimeline(pm, f))
	if len(suffix) > 0 {
		b.WriteString("\n")
		for _, line := range suffix {
			b.WriteString(line)
		}
	}
	return b.String()
}

// RenderToday renders the today section as newline-terminated lines
func RenderToday(today domain.TodaySection, f Format) []string {
	out := []string{fmt.Sprintf("%s %s\n", f.TodayHeading, today.Date), "\n"}

	if len(today.NewItems) > 0 {
		out = append(out, f.NewItemsHeading+"\n")
		out = append(out, renderList(today.NewItems, f)...)
		out = append(out, "\n")
	}

	switch {
	case today.ShowReview:
		out = append(out, f.ReviewHeading+"\n")
		if len(today.ReviewItems) > 0 {
			out = append(out, renderList(today.ReviewItems, f)...)
		} else {
			out = append(out, f.NoReviews+"\n")
		}
		out = append(out, "\n")
	case len(today.NewItems) == 0:
		out = append(out, f.NoNewItems+"\n", "\n")
	}
	return out
}

func renderList(refs []domain.ItemRef, f Format) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, fmt.Sprintf("- [%s](%s)\n", ref.Name, ref.Link(f.Extension)))
	}
	return out
}

// RenderTimeline renders the timeline heading and one table per folder,
// folders and rows in lexicographic order
func RenderTimeline(pm domain.ProgressMap, f Format) string {
	var b strings.Builder
	b.WriteString(f.TimelineHeading + "\n")

	for _, folder := range pm.Folders() {
		fmt.Fprintf(&b, "\n### %s\n\n", folder)
		b.WriteString(f.TableHeader + "\n")
		b.WriteString(f.TableAlign + "\n")

		for _, name := range pm.Names(folder) {
			ref := domain.ItemRef{Folder: folder, Name: name}
			b.WriteString(renderRow(ref, pm[folder][name], f))
		}
	}
	return b.String()
}

func renderRow(ref domain.ItemRef, rec domain.Record, f Format) string {
	cells := make([]string, 0, 2+domain.MaxReviewDates)
	cells = append(cells,
		fmt.Sprintf("[%s](%s)", ref.Name, ref.Link(f.Extension)),
		strconv.Itoa(rec.Mastery),
	)
	for i := 0; i < domain.MaxReviewDates; i++ {
		if i < len(rec.Dates) {
			cells = append(cells, rec.Dates[i])
		} else {
			cells = append(cells, "")
		}
	}
	return "| " + strings.Join(cells, " | ") + " |\n"
}
