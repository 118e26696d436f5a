package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"revisio/internal/application"
	"revisio/internal/domain"
	"revisio/internal/ledger"
)

func TestPlanCommand_Validate(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		mutate     func(*Deps)
		updateOnly bool
		wantField  string
	}{
		{name: "valid"},
		{name: "missing scanner", mutate: func(d *Deps) { d.Scanner = nil }, wantField: "scanner"},
		{name: "missing ledger", mutate: func(d *Deps) { d.Ledger = nil }, wantField: "ledger"},
		{name: "missing rand", mutate: func(d *Deps) { d.Rand = nil }, wantField: "rand"},
		{name: "sync needs no rand", mutate: func(d *Deps) { d.Rand = nil }, updateOnly: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := env.deps
			if tt.mutate != nil {
				tt.mutate(&deps)
			}
			err := NewPlanCommand(deps, tt.updateOnly).Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var verr *application.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("expected validation error on %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestPlanCommand_EmptyRoot(t *testing.T) {
	env := newTestEnv(t)
	res := env.plan(t, false)

	if len(res.Selected) != 0 || len(res.NewItems) != 0 {
		t.Errorf("expected nothing planned, got %+v", res)
	}
	want := "### 最新更新: 2024-05-01\n\n#### 复习\n今日无复习计划。\n\n## Reviewing Timeline\n"
	if got := env.ledger(t); got != want {
		t.Errorf("ledger = %q, want %q", got, want)
	}
}

func TestPlanCommand_MissingRootDirectory(t *testing.T) {
	env := newTestEnv(t)
	if err := env.fs.RemoveAll(testRoot); err != nil {
		t.Fatal(err)
	}
	res := env.plan(t, true)
	if res.Stats.NotesScanned != 0 {
		t.Errorf("expected no notes, got %d", res.Stats.NotesScanned)
	}
	if !strings.Contains(env.ledger(t), "## Reviewing Timeline") {
		t.Error("expected the ledger to be created")
	}
}

func TestPlanCommand_FirstPlan(t *testing.T) {
	env := newTestEnv(t, "graphs/bfs", "graphs/dijkstra", "ds/heap", "ds/trie")
	res := env.plan(t, false)

	if res.MergeState != domain.NoPriorSection {
		t.Errorf("expected no prior section, got %v", res.MergeState)
	}
	if len(res.NewItems) != 4 {
		t.Errorf("expected 4 new items, got %v", res.NewItems)
	}
	if len(res.Selected) != 2 {
		t.Fatalf("expected 2 reviews for 4 notes, got %v", res.Selected)
	}

	status := env.status(t)
	for _, p := range res.Selected {
		if p.Mastery != 0 {
			t.Errorf("expected mastery 0 before the first review, got %d", p.Mastery)
		}
		rec, _ := status.Progress.Get(p.Ref)
		if rec.Mastery != 1 || len(rec.Dates) != 1 || rec.Dates[0] != "2024-05-01" {
			t.Errorf("unexpected record after review of %s: %+v", p.Ref, rec)
		}
	}
	if len(status.NewItems) != 0 {
		t.Errorf("expected every note tracked after a plan, got new %v", status.NewItems)
	}
	if status.Today == nil || len(status.Today.ReviewItems) != 2 || len(status.Today.NewItems) != 4 {
		t.Errorf("unexpected today section %+v", status.Today)
	}
}

func TestPlanCommand_MasteryIsMonotonic(t *testing.T) {
	env := newTestEnv(t, "a/1", "a/2", "a/3", "b/4", "b/5", "b/6")

	last := map[domain.ItemRef]int{}
	for i, d := range []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04", "2024-05-05"} {
		env.clock.now = day(d)
		env.plan(t, i%2 == 1)

		status := env.status(t)
		for _, ref := range status.Progress.Refs() {
			rec, _ := status.Progress.Get(ref)
			if rec.Mastery < last[ref] {
				t.Errorf("%s: mastery dropped from %d to %d on %s", ref, last[ref], rec.Mastery, d)
			}
			if len(rec.Dates) > domain.MaxReviewDates {
				t.Errorf("%s: kept %d dates", ref, len(rec.Dates))
			}
			last[ref] = rec.Mastery
		}
	}
}

func TestPlanCommand_SameDaySync(t *testing.T) {
	env := newTestEnv(t, "a/x", "a/y", "b/z")
	first := env.plan(t, false)

	env.addNote(t, "b/new")
	second := env.plan(t, true)

	if second.MergeState != domain.SameDay {
		t.Errorf("expected same-day merge, got %v", second.MergeState)
	}

	var firstReviews []domain.ItemRef
	for _, p := range first.Selected {
		firstReviews = append(firstReviews, p.Ref)
	}
	if diff := cmp.Diff(firstReviews, second.Today.ReviewItems); diff != "" {
		t.Errorf("sync changed the review list (-want +got):\n%s", diff)
	}

	wantNew := append(append([]domain.ItemRef(nil), first.NewItems...), domain.ItemRef{Folder: "b", Name: "new"})
	if diff := cmp.Diff(wantNew, second.Today.NewItems); diff != "" {
		t.Errorf("new items not accumulated (-want +got):\n%s", diff)
	}

	// a second identical sync leaves the ledger alone
	before := env.ledger(t)
	env.plan(t, true)
	if after := env.ledger(t); after != before {
		t.Errorf("repeated sync changed the ledger:\n%s", cmp.Diff(before, after))
	}
}

func TestPlanCommand_SameDaySyncKeepsParenthesizedNames(t *testing.T) {
	env := newTestEnv(t, "dp/Two Sum (easy)", "dp/b")
	env.plan(t, true)
	first := env.ledger(t)

	res := env.plan(t, true)
	if after := env.ledger(t); after != first {
		t.Errorf("same-day sync changed the ledger:\n%s", cmp.Diff(first, after))
	}

	want := []domain.ItemRef{{Folder: "dp", Name: "Two Sum (easy)"}, {Folder: "dp", Name: "b"}}
	if diff := cmp.Diff(want, res.Today.NewItems); diff != "" {
		t.Errorf("new items mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanCommand_NewDaySyncResets(t *testing.T) {
	env := newTestEnv(t, "a/x", "a/y", "b/z")
	env.plan(t, false)

	env.clock.now = day("2024-05-02")
	res := env.plan(t, true)

	if res.MergeState != domain.NewDay {
		t.Errorf("expected new-day merge, got %v", res.MergeState)
	}
	if res.Today.ShowReview || len(res.Today.ReviewItems) != 0 || len(res.Today.NewItems) != 0 {
		t.Errorf("expected an empty section, got %+v", res.Today)
	}
	content := env.ledger(t)
	if !strings.Contains(content, "### 最新更新: 2024-05-02\n\n无新题。\n") {
		t.Errorf("expected placeholder section, got:\n%s", content)
	}
	if strings.Contains(content, "2024-05-01\n\n####") {
		t.Errorf("old section survived:\n%s", content)
	}
}

func TestPlanCommand_DeletedNoteIsDropped(t *testing.T) {
	env := newTestEnv(t, "a/x", "a/y", "b/z")
	env.plan(t, true)

	env.removeNote(t, "b/z")
	env.clock.now = day("2024-05-02")
	res := env.plan(t, true)

	if res.Stats.RowsDropped != 1 {
		t.Errorf("expected 1 dropped row, got %d", res.Stats.RowsDropped)
	}
	content := env.ledger(t)
	if strings.Contains(content, "b/z.md") || strings.Contains(content, "### b\n") {
		t.Errorf("deleted note still in ledger:\n%s", content)
	}
}

func TestPlanCommand_PreservesUserText(t *testing.T) {
	env := newTestEnv(t, "a/x")
	prev := "# Study log\n\nKeep going.\n\n## Reviewing Timeline\n"
	if err := env.deps.Ledger.Save(prev); err != nil {
		t.Fatal(err)
	}

	env.plan(t, false)
	content := env.ledger(t)
	if !strings.HasPrefix(content, "# Study log\n\nKeep going.\n\n### 最新更新: 2024-05-01\n") {
		t.Errorf("user text not preserved:\n%s", content)
	}
}

func TestPlanCommand_WriteError(t *testing.T) {
	env := newTestEnv(t, "a/x")
	deps := env.deps
	deps.Ledger = &failingLedger{}

	_, err := NewPlanCommand(deps, false).Execute(context.Background())
	if !errors.Is(err, application.ErrLedgerWrite) {
		t.Fatalf("expected ledger write error, got %v", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
	var lerr *application.LedgerError
	if !errors.As(err, &lerr) || lerr.Path != "/readonly/index.md" {
		t.Errorf("expected LedgerError with path, got %v", err)
	}
}

func TestPlanCommand_CancelledContextLeavesLedger(t *testing.T) {
	env := newTestEnv(t, "a/x")
	if err := env.deps.Ledger.Save("original\n"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPlanCommand(env.deps, false).Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := env.ledger(t); got != "original\n" {
		t.Errorf("ledger changed: %q", got)
	}
}

func TestPlanCommand_Journal(t *testing.T) {
	env := newTestEnv(t, "a/x", "a/y", "b/z", "b/w")
	journal := &memJournal{}
	env.deps.Journal = journal

	res := env.plan(t, false)
	if len(journal.runs) != 1 {
		t.Fatalf("expected 1 journaled run, got %d", len(journal.runs))
	}
	run := journal.runs[0]
	if run.Date != "2024-05-01" || run.Notes != 4 || len(run.NewItems) != 4 {
		t.Errorf("unexpected run %+v", run)
	}
	if len(run.Reviews) != len(res.Selected) {
		t.Errorf("expected %d reviews journaled, got %d", len(res.Selected), len(run.Reviews))
	}

	journal.err = errors.New("locked")
	if _, err := NewPlanCommand(env.deps, true).Execute(context.Background()); err != nil {
		t.Errorf("journal failure must not fail the run: %v", err)
	}
}

func TestPlanCommand_CustomLabels(t *testing.T) {
	env := newTestEnv(t, "a/x")
	env.deps.Format = ledger.Format{
		TimelineHeading: "## Timeline",
		TodayHeading:    "### Latest:",
	}
	env.plan(t, true)

	content := env.ledger(t)
	if !strings.HasPrefix(content, "### Latest: 2024-05-01\n") || !strings.Contains(content, "\n## Timeline\n") {
		t.Errorf("custom labels not used:\n%s", content)
	}
	if res := env.status(t); len(res.NewItems) != 0 {
		t.Errorf("expected ledger rows to be read back with custom labels, got new %v", res.NewItems)
	}
}
