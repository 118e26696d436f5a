package commands

import (
	"context"

	"revisio/internal/application"
	"revisio/internal/domain"
	"revisio/internal/ports"
)

// HistoryResult contains the journaled reviews of one item or of all items
type HistoryResult struct {
	Ref       domain.ItemRef
	Events    []domain.ReviewEvent
	FirstSeen string
}

// HistoryCommand reads the review journal
type HistoryCommand struct {
	journal ports.ReviewJournal
	Ref     domain.ItemRef
	Limit   int
}

// NewHistoryCommand creates a new HistoryCommand. A zero ref lists every item.
func NewHistoryCommand(journal ports.ReviewJournal, ref domain.ItemRef, limit int) *HistoryCommand {
	return &HistoryCommand{journal: journal, Ref: ref, Limit: limit}
}

// Validate checks the command
func (c *HistoryCommand) Validate() error {
	if c.journal == nil {
		return &application.ValidationError{Field: "journal", Message: "review journal is disabled"}
	}
	if c.Limit < 0 {
		return &application.ValidationError{Field: "limit", Message: "limit must not be negative"}
	}
	return nil
}

// Execute runs the history command
func (c *HistoryCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	events, err := c.journal.History(ctx, c.Ref, c.Limit)
	if err != nil {
		return nil, err
	}
	res := &HistoryResult{Ref: c.Ref, Events: events}

	if c.Ref != (domain.ItemRef{}) {
		date, ok, err := c.journal.FirstSeen(ctx, c.Ref)
		if err != nil {
			return nil, err
		}
		if ok {
			res.FirstSeen = date
		}
	}
	return res, nil
}
