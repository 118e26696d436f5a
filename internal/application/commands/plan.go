package commands

import (
	"context"

	"revisio/internal/application"
	"revisio/internal/domain"
	"revisio/internal/ledger"
)

// PlannedReview is an item chosen for review with its mastery before the review
type PlannedReview struct {
	Ref     domain.ItemRef
	Mastery int
}

// PlanResult contains the result of a plan or sync run
type PlanResult struct {
	Date       string
	UpdateOnly bool
	NewItems   []domain.ItemRef
	Selected   []PlannedReview
	Today      domain.TodaySection
	MergeState domain.MergeState
	Stats      domain.SyncStats
	LedgerPath string
}

// PlanCommand scans the notes, merges the ledger, picks today's reviews and
// rewrites the ledger. With UpdateOnly it only syncs the file list.
type PlanCommand struct {
	deps       Deps
	UpdateOnly bool
}

// NewPlanCommand creates a new PlanCommand
func NewPlanCommand(deps Deps, updateOnly bool) *PlanCommand {
	return &PlanCommand{
		deps:       deps.withDefaults(),
		UpdateOnly: updateOnly,
	}
}

// Validate checks the command is wired
func (c *PlanCommand) Validate() error {
	if err := c.deps.validate(); err != nil {
		return err
	}
	if !c.UpdateOnly && c.deps.Rand == nil {
		return &application.ValidationError{Field: "rand", Message: "random source is required to plan reviews"}
	}
	return nil
}

// Execute runs the plan command. The ledger is read once and written once;
// any failure before the write leaves it untouched.
func (c *PlanCommand) Execute(ctx context.Context) (*PlanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	snap, err := load(c.deps)
	if err != nil {
		return nil, err
	}
	pm := snap.progress
	date := c.deps.Clock.Now().Format(domain.DateLayout)
	newItems := pm.NewItems()

	var selected []domain.ItemRef
	var planned []PlannedReview
	if !c.UpdateOnly {
		selected = domain.NewSelector(c.deps.Rand).Select(pm)
		c.deps.Logger.Debug("selected reviews",
			"candidates", pm.Len(),
			"target", domain.SelectionCount(pm.Len()),
			"selected", len(selected),
		)
		for _, ref := range selected {
			rec, _ := pm.Get(ref)
			planned = append(planned, PlannedReview{Ref: ref, Mastery: rec.Mastery})
			pm.Review(ref, date)
		}
	}

	prior := ledger.ParseToday(snap.lines, c.deps.Format)
	state := domain.ClassifyPrior(prior, date)
	today := domain.MergeToday(prior, domain.RunFindings{
		Date:       date,
		NewItems:   newItems,
		Selected:   selected,
		UpdateOnly: c.UpdateOnly,
	})
	c.deps.Logger.Debug("merged today section", "state", state, "new", len(today.NewItems), "review", len(today.ReviewItems))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := ledger.Render(snap.lines, pm, today, c.deps.Format)
	if err := c.deps.Ledger.Save(content); err != nil {
		return nil, &application.LedgerError{Op: application.LedgerOpWrite, Path: c.deps.Ledger.Path(), Err: err}
	}
	c.deps.Logger.Info("ledger updated", "path", c.deps.Ledger.Path())

	c.journal(ctx, date, newItems, planned, snap.stats)

	return &PlanResult{
		Date:       date,
		UpdateOnly: c.UpdateOnly,
		NewItems:   newItems,
		Selected:   planned,
		Today:      today,
		MergeState: state,
		Stats:      snap.stats,
		LedgerPath: c.deps.Ledger.Path(),
	}, nil
}

// journal appends the run to the review journal. The ledger is already
// written, so failures are only logged.
func (c *PlanCommand) journal(ctx context.Context, date string, newItems []domain.ItemRef, planned []PlannedReview, stats domain.SyncStats) {
	if c.deps.Journal == nil {
		return
	}

	run := domain.RunRecord{
		At:         c.deps.Clock.Now(),
		Date:       date,
		UpdateOnly: c.UpdateOnly,
		Notes:      stats.NotesScanned,
		NewItems:   newItems,
	}
	for _, p := range planned {
		run.Reviews = append(run.Reviews, domain.ReviewEvent{Date: date, Ref: p.Ref, MasteryBefore: p.Mastery})
	}

	if err := c.deps.Journal.RecordRun(ctx, run); err != nil {
		c.deps.Logger.Warn("failed to update review journal", "err", err)
	}
}
