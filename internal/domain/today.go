package domain

// TodaySection is the ledger summary of the most recent run
type TodaySection struct {
	Date        string
	NewItems    []ItemRef
	ReviewItems []ItemRef
	// ShowReview is set when the review subsection is rendered
	ShowReview bool
}

// MergeState classifies the prior today section against the run date
type MergeState int

const (
	NoPriorSection MergeState = iota
	SameDay
	NewDay
)

func (s MergeState) String() string {
	switch s {
	case SameDay:
		return "same-day"
	case NewDay:
		return "new-day"
	default:
		return "no-prior-section"
	}
}

// ClassifyPrior decides how a prior section relates to date.
// A section without a date counts as absent.
func ClassifyPrior(prior *TodaySection, date string) MergeState {
	switch {
	case prior == nil || prior.Date == "":
		return NoPriorSection
	case prior.Date == date:
		return SameDay
	default:
		return NewDay
	}
}

// RunFindings is what the current run contributes to the today section
type RunFindings struct {
	Date       string
	NewItems   []ItemRef
	Selected   []ItemRef
	UpdateOnly bool
}

// MergeToday combines the prior section with this run's findings.
// On the same day new items accumulate and, in update-only runs, the earlier
// review list is kept. Otherwise this run replaces the section.
func MergeToday(prior *TodaySection, run RunFindings) TodaySection {
	state := ClassifyPrior(prior, run.Date)

	merged := TodaySection{Date: run.Date}
	switch state {
	case SameDay:
		merged.NewItems = unionRefs(prior.NewItems, run.NewItems)
		if run.UpdateOnly {
			merged.ReviewItems = cloneRefs(prior.ReviewItems)
		} else {
			merged.ReviewItems = cloneRefs(run.Selected)
		}
	default:
		merged.NewItems = cloneRefs(run.NewItems)
		merged.ReviewItems = cloneRefs(run.Selected)
	}

	merged.ShowReview = !run.UpdateOnly ||
		(state == SameDay && len(merged.ReviewItems) > 0)
	return merged
}

// unionRefs keeps the order of a and appends unseen entries of b
func unionRefs(a, b []ItemRef) []ItemRef {
	seen := make(map[ItemRef]bool, len(a)+len(b))
	out := make([]ItemRef, 0, len(a)+len(b))
	for _, list := range [][]ItemRef{a, b} {
		for _, ref := range list {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out
}

func cloneRefs(refs []ItemRef) []ItemRef {
	if len(refs) == 0 {
		return nil
	}
	return append([]ItemRef(nil), refs...)
}
