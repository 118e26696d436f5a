package commands

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"path"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"revisio/internal/adapters/filesystem"
	"revisio/internal/domain"
)

const (
	testRoot   = "/notes"
	testLedger = "/notes/index.md"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(9 * time.Hour)
}

type testEnv struct {
	fs    afero.Fs
	clock *fixedClock
	deps  Deps
}

func newTestEnv(t *testing.T, notes ...string) *testEnv {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(testRoot, 0755); err != nil {
		t.Fatal(err)
	}
	env := &testEnv{fs: fs, clock: &fixedClock{now: day("2024-05-01")}}
	for _, n := range notes {
		env.addNote(t, n)
	}
	env.deps = Deps{
		Scanner: filesystem.NewScanner(fs, testRoot, ".md"),
		Ledger:  filesystem.NewLedgerStore(fs, testLedger),
		Clock:   env.clock,
		Rand:    rand.New(rand.NewPCG(1, 2)),
		Logger:  log.New(io.Discard),
	}
	return env
}

func (e *testEnv) addNote(t *testing.T, note string) {
	t.Helper()
	p := path.Join(testRoot, note+".md")
	if err := e.fs.MkdirAll(path.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(e.fs, p, []byte("# "+note+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) removeNote(t *testing.T, note string) {
	t.Helper()
	if err := e.fs.Remove(path.Join(testRoot, note+".md")); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) ledger(t *testing.T) string {
	t.Helper()
	data, err := afero.ReadFile(e.fs, testLedger)
	if err != nil {
		t.Fatalf("failed to read ledger: %v", err)
	}
	return string(data)
}

func (e *testEnv) plan(t *testing.T, updateOnly bool) *PlanResult {
	t.Helper()
	res, err := NewPlanCommand(e.deps, updateOnly).Execute(context.Background())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	return res
}

func (e *testEnv) status(t *testing.T) *StatusResult {
	t.Helper()
	res, err := NewStatusCommand(e.deps).Execute(context.Background())
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	return res
}

// memJournal records runs in memory
type memJournal struct {
	runs []domain.RunRecord
	err  error
}

func (j *memJournal) RecordRun(_ context.Context, run domain.RunRecord) error {
	if j.err != nil {
		return j.err
	}
	j.runs = append(j.runs, run)
	return nil
}

func (j *memJournal) History(_ context.Context, ref domain.ItemRef, limit int) ([]domain.ReviewEvent, error) {
	if j.err != nil {
		return nil, j.err
	}
	var out []domain.ReviewEvent
	for i := len(j.runs) - 1; i >= 0; i-- {
		for _, ev := range j.runs[i].Reviews {
			if ref != (domain.ItemRef{}) && ev.Ref != ref {
				continue
			}
			out = append(out, ev)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (j *memJournal) FirstSeen(_ context.Context, ref domain.ItemRef) (string, bool, error) {
	for _, run := range j.runs {
		for _, r := range run.NewItems {
			if r == ref {
				return run.Date, true, nil
			}
		}
	}
	return "", false, nil
}

func (j *memJournal) Close() error { return nil }

// failingLedger fails on save
type failingLedger struct {
	content string
}

var errDiskFull = errors.New("disk full")

func (l *failingLedger) Load() (string, error) { return l.content, nil }
func (l *failingLedger) Save(string) error     { return errDiskFull }
func (l *failingLedger) Path() string          { return "/readonly/index.md" }
