package ledger

import (
	"regexp"
	"strconv"
	"strings"

	"revisio/internal/domain"
)

var (
	// cellLinkPattern unwraps "[name](link)" table cells
	cellLinkPattern = regexp.MustCompile(`^\[(.*?)\]\(.*\)$`)
	// listLinkPattern matches "- [name](folder/name.md)" list entries; the
	// link runs to the last ")" so names may hold parentheses
	listLinkPattern = regexp.MustCompile(`^- \[(.*?)\]\((.*)\)\s*$`)
)

// TimelineStats counts what ApplyTimeline did with the table rows it saw
type TimelineStats struct {
	Applied int
	Dropped int
}

// ApplyTimeline parses the per-folder tables below the timeline heading and
// copies mastery and dates into pm for items pm already holds. Rows for
// items missing from pm are dropped. Malformed cells degrade to defaults.
func ApplyTimeline(lines []string, pm domain.ProgressMap, f Format) TimelineStats {
	var stats TimelineStats

	inTimeline := false
	inTable := false
	folder := ""

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if !inTimeline {
			if strings.HasPrefix(line, f.TimelineHeading) {
				inTimeline = true
			}
			continue
		}

		switch level := headingLevel(line); {
		case level == 1 || level == 2:
			return stats
		case level == 3:
			folder = strings.TrimSpace(line[4:])
			if strings.HasPrefix(folder, strings.TrimSuffix(f.todayLabel(), ":")) {
				folder = ""
			}
			inTable = false
			continue
		}

		if strings.Contains(line, ":---") {
			inTable = true
			continue
		}

		if !inTable {
			continue
		}
		if line == "" {
			inTable = false
			continue
		}
		if !strings.HasPrefix(line, "|") || folder == "" {
			continue
		}

		ref, rec, ok := parseRow(folder, line)
		if !ok {
			continue
		}
		if pm.Update(ref, rec) {
			stats.Applied++
		} else {
			stats.Dropped++
		}
	}
	return stats
}

// parseRow reads "| [name](link) | weight | d1 | d2 | d3 |"
func parseRow(folder, line string) (domain.ItemRef, domain.Record, bool) {
	cells := splitRow(line)
	if len(cells) < 2 {
		return domain.ItemRef{}, domain.Record{}, false
	}

	name := cells[0]
	if m := cellLinkPattern.FindStringSubmatch(name); m != nil {
		name = m[1]
	}

	mastery, err := strconv.Atoi(cells[1])
	if err != nil {
		mastery = 0
	}

	var dates []string
	for _, cell := range cells[2:] {
		if cell == "" {
			continue
		}
		if len(dates) == domain.MaxReviewDates {
			break
		}
		dates = append(dates, cell)
	}

	ref := domain.ItemRef{Folder: folder, Name: name}
	return ref, domain.Record{Mastery: mastery, Dates: dates, Tracked: true}, true
}

// splitRow splits a table row into trimmed cells, dropping the empty cells
// produced by the leading and trailing pipes
func splitRow(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// ParseToday extracts the today section from the ledger.
// It returns nil when there is no section or its heading carries no date.
func ParseToday(lines []string, f Format) *domain.TodaySection {
	start, end, ok := findToday(lines, f)
	if !ok {
		return nil
	}

	date := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[start]), f.TodayHeading))
	if date == "" {
		return nil
	}

	section := &domain.TodaySection{Date: date}
	var current *[]domain.ItemRef
	for _, raw := range lines[start+1 : end] {
		line := strings.TrimSpace(raw)
		switch {
		case line == f.NewItemsHeading:
			current = &section.NewItems
		case line == f.ReviewHeading:
			current = &section.ReviewItems
			section.ShowReview = true
		case strings.HasPrefix(line, "- ["):
			m := listLinkPattern.FindStringSubmatch(line)
			if m == nil || current == nil {
				continue
			}
			ref, err := domain.ParseLink(m[2], f.Extension)
			if err != nil {
				continue
			}
			*current = append(*current, ref)
		}
	}
	return section
}

// findToday locates the today section: its heading line and the index of the
// next heading of level three or higher, or len(lines)
func findToday(lines []string, f Format) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), f.TodayHeading) {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, 0, false
	}

	end = len(lines)
	for i := start + 1; i < len(lines); i++ {
		if level := headingLevel(strings.TrimSpace(lines[i])); level >= 1 && level <= 3 {
			end = i
			break
		}
	}
	return start, end, true
}

// timelineIndex returns the index of the timeline heading line, or len(lines)
func timelineIndex(lines []string, f Format) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == f.TimelineHeading {
			return i
		}
	}
	return len(lines)
}

// timelineEnd returns the index of the first level 1 or 2 heading after the
// timeline heading at cut, or len(lines)
func timelineEnd(lines []string, cut int) int {
	for i := cut + 1; i < len(lines); i++ {
		if level := headingLevel(strings.TrimSpace(lines[i])); level == 1 || level == 2 {
			return i
		}
	}
	return len(lines)
}
