package domain

import "time"

// ReviewEvent is one review applied by a plan run
type ReviewEvent struct {
	Date          string
	Ref           ItemRef
	MasteryBefore int
}

// MasteryAfter is the mastery the review left the item at
func (e ReviewEvent) MasteryAfter() int {
	return e.MasteryBefore + 1
}

// RunRecord summarises a completed run for the review journal
type RunRecord struct {
	At         time.Time
	Date       string
	UpdateOnly bool
	Notes      int
	NewItems   []ItemRef
	Reviews    []ReviewEvent
}
