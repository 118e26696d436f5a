package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"revisio/internal/application"
	"revisio/internal/domain"
	"revisio/internal/ledger"
	"revisio/internal/ports"
)

// Deps wires the adapters a command runs against
type Deps struct {
	Scanner ports.CollectionScanner
	Ledger  ports.LedgerRepository
	Clock   ports.Clock
	Rand    domain.RandSource
	Format  ledger.Format
	Logger  *log.Logger
	// Journal is optional; runs are not journaled without it
	Journal ports.ReviewJournal
}

func (d Deps) validate() error {
	if d.Scanner == nil {
		return &application.ValidationError{Field: "scanner", Message: "scanner is required"}
	}
	if d.Ledger == nil {
		return &application.ValidationError{Field: "ledger", Message: "ledger repository is required"}
	}
	return nil
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = ports.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	d.Format = d.Format.WithDefaults()
	return d
}

// snapshot is the merged state of notes on disk and the ledger
type snapshot struct {
	progress domain.ProgressMap
	lines    []string
	stats    domain.SyncStats
}

// load scans the collection and merges the ledger history into it
func load(d Deps) (*snapshot, error) {
	start := time.Now()

	collection, err := d.Scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", application.ErrScan, err)
	}
	pm := domain.NewProgressMap(collection)

	content, err := d.Ledger.Load()
	if err != nil {
		return nil, &application.LedgerError{Op: application.LedgerOpRead, Path: d.Ledger.Path(), Err: err}
	}
	lines := ledger.SplitLines(content)

	ts := ledger.ApplyTimeline(lines, pm, d.Format)
	stats := domain.SyncStats{
		FoldersScanned: len(pm),
		NotesScanned:   pm.Len(),
		RowsApplied:    ts.Applied,
		RowsDropped:    ts.Dropped,
		NewItems:       len(pm.NewItems()),
		Duration:       time.Since(start),
	}

	d.Logger.Debug("collection loaded",
		"root", d.Scanner.Root(),
		"folders", stats.FoldersScanned,
		"notes", stats.NotesScanned,
		"rows", stats.RowsApplied,
		"new", stats.NewItems,
	)
	if stats.RowsDropped > 0 {
		d.Logger.Warn("dropped ledger rows for missing notes", "rows", stats.RowsDropped)
	}

	return &snapshot{progress: pm, lines: lines, stats: stats}, nil
}

// StatusResult is the current progress without any scheduling applied
type StatusResult struct {
	Progress   domain.ProgressMap
	Today      *domain.TodaySection
	NewItems   []domain.ItemRef
	Stats      domain.SyncStats
	Root       string
	LedgerPath string
	Format     ledger.Format
}

// StatusCommand reads the collection and ledger without writing anything
type StatusCommand struct {
	deps Deps
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(deps Deps) *StatusCommand {
	return &StatusCommand{deps: deps.withDefaults()}
}

// Validate checks the command is wired
func (c *StatusCommand) Validate() error {
	return c.deps.validate()
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context) (*StatusResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := load(c.deps)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Progress:   snap.progress,
		Today:      ledger.ParseToday(snap.lines, c.deps.Format),
		NewItems:   snap.progress.NewItems(),
		Stats:      snap.stats,
		Root:       c.deps.Scanner.Root(),
		LedgerPath: c.deps.Ledger.Path(),
		Format:     c.deps.Format,
	}, nil
}
