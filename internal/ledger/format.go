// Package ledger reads and writes the progress ledger: a markdown document
// holding a "today" summary section and, below the timeline heading, one
// progress table per folder. Only those two regions are managed; every other
// line of the document is preserved as is.
package ledger

import "strings"

// Format holds the labels that delimit the managed regions of the ledger
type Format struct {
	TimelineHeading string // e.g. "## Reviewing Timeline"
	TodayHeading    string // prefix, the run date follows after a space
	NewItemsHeading string
	ReviewHeading   string
	NoReviews       string
	NoNewItems      string
	TableHeader     string
	TableAlign      string
	Extension       string // note file extension used in links
}

// DefaultFormat matches the ledgers written by earlier versions of the tool
var DefaultFormat = Format{
	TimelineHeading: "## Reviewing Timeline",
	TodayHeading:    "### 最新更新:",
	NewItemsHeading: "#### 新题",
	ReviewHeading:   "#### 复习",
	NoReviews:       "今日无复习计划。",
	NoNewItems:      "无新题。",
	TableHeader:     "| 习题 | 掌握权重 | 上次复习 | 上上次复习 | 上上上次复习 |",
	TableAlign:      "| :--- | :---: | :--- | :--- | :--- |",
	Extension:       ".md",
}

// WithDefaults fills empty fields from DefaultFormat
func (f Format) WithDefaults() Format {
	d := DefaultFormat
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&f.TimelineHeading, d.TimelineHeading)
	fill(&f.TodayHeading, d.TodayHeading)
	fill(&f.NewItemsHeading, d.NewItemsHeading)
	fill(&f.ReviewHeading, d.ReviewHeading)
	fill(&f.NoReviews, d.NoReviews)
	fill(&f.NoNewItems, d.NoNewItems)
	fill(&f.TableHeader, d.TableHeader)
	fill(&f.TableAlign, d.TableAlign)
	fill(&f.Extension, d.Extension)
	return f
}

// todayLabel is the today heading without its markdown hashes, used to
// recognise the section when it appears as a sub-heading inside the timeline
func (f Format) todayLabel() string {
	return strings.TrimSpace(strings.TrimLeft(f.TodayHeading, "#"))
}

// headingLevel returns the number of leading '#' of a trimmed markdown
// heading line, or 0 when the line is not a heading
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n == len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

// SplitLines splits content into lines keeping their terminators, so that
// joining the result reproduces content exactly
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
