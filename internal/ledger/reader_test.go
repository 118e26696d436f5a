package ledger

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"revisio/internal/domain"
)

const sampleLedger = `# Study notes

Some free text that must survive.

### 最新更新: 2024-05-01

#### 新题
- [heap](ds/heap.md)

#### 复习
- [dijkstra](graphs/dijkstra.md)
- [not a link]
- [root](root.md)

## Reviewing Timeline

### ds

| 习题 | 掌握权重 | 上次复习 | 上上次复习 | 上上上次复习 |
| :--- | :---: | :--- | :--- | :--- |
| [heap](ds/heap.md) | 0 |  |  |  |
| [trie](ds/trie.md) | abc | 2024-04-01 |  |  |

### graphs

| 习题 | 掌握权重 | 上次复习 | 上上次复习 | 上上上次复习 |
| :--- | :---: | :--- | :--- | :--- |
| [dijkstra](graphs/dijkstra.md) | 3 | 2024-05-01 | 2024-04-20 | 2024-04-02 |
| bfs | -1 | 2024-03-03 |  |  |
| [gone](graphs/gone.md) | 7 | 2024-01-01 |  |  |

## Appendix

### ds

| 习题 | 掌握权重 | 上次复习 | 上上次复习 | 上上上次复习 |
| :--- | :---: | :--- | :--- | :--- |
| [heap](ds/heap.md) | 99 |  |  |  |
`

func sampleProgress() domain.ProgressMap {
	return domain.NewProgressMap(map[string][]string{
		"ds":     {"heap", "trie", "stack"},
		"graphs": {"bfs", "dijkstra"},
	})
}

func TestApplyTimeline(t *testing.T) {
	pm := sampleProgress()
	stats := ApplyTimeline(SplitLines(sampleLedger), pm, DefaultFormat)

	if stats.Applied != 4 || stats.Dropped != 1 {
		t.Errorf("expected 4 applied and 1 dropped, got %+v", stats)
	}

	want := domain.ProgressMap{
		"ds": {
			"heap":  {Mastery: 0, Tracked: true},
			"trie":  {Mastery: 0, Dates: []string{"2024-04-01"}, Tracked: true},
			"stack": {},
		},
		"graphs": {
			"bfs":      {Mastery: -1, Dates: []string{"2024-03-03"}, Tracked: true},
			"dijkstra": {Mastery: 3, Dates: []string{"2024-05-01", "2024-04-20", "2024-04-02"}, Tracked: true},
		},
	}
	if diff := cmp.Diff(want, pm); diff != "" {
		t.Errorf("ApplyTimeline() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyTimeline_NoTimeline(t *testing.T) {
	pm := sampleProgress()
	stats := ApplyTimeline(SplitLines("# just notes\n\n| [heap](ds/heap.md) | 5 |\n"), pm, DefaultFormat)
	if stats != (TimelineStats{}) {
		t.Errorf("expected nothing applied, got %+v", stats)
	}
	if got := len(pm.NewItems()); got != 5 {
		t.Errorf("expected all 5 items to stay new, got %d", got)
	}
}

func TestApplyTimeline_IgnoresTodayHeadingInsideTimeline(t *testing.T) {
	content := "## Reviewing Timeline\n\n" +
		"### 最新更新: 2024-05-01\n\n" +
		"| :--- |\n" +
		"| [heap](ds/heap.md) | 4 |\n\n" +
		"### ds\n\n" +
		"| 习题 | 掌握权重 |\n" +
		"| :--- | :---: |\n" +
		"| [heap](ds/heap.md) | 2 | 2024-04-01 |\n"

	pm := sampleProgress()
	ApplyTimeline(SplitLines(content), pm, DefaultFormat)

	rec, _ := pm.Get(domain.ItemRef{Folder: "ds", Name: "heap"})
	if rec.Mastery != 2 {
		t.Errorf("expected mastery from the ds table, got %d", rec.Mastery)
	}
}

func TestApplyTimeline_KeepsAtMostThreeDates(t *testing.T) {
	content := "## Reviewing Timeline\n### ds\n| :--- |\n| heap | 1 | d1 | d2 | d3 | d4 |\n"
	pm := sampleProgress()
	ApplyTimeline(SplitLines(content), pm, DefaultFormat)

	rec, _ := pm.Get(domain.ItemRef{Folder: "ds", Name: "heap"})
	if diff := cmp.Diff([]string{"d1", "d2", "d3"}, rec.Dates); diff != "" {
		t.Errorf("dates mismatch (-want +got):\n%s", diff)
	}
}

func TestParseToday(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *domain.TodaySection
	}{
		{
			name:    "sample",
			content: sampleLedger,
			want: &domain.TodaySection{
				Date:        "2024-05-01",
				NewItems:    []domain.ItemRef{{Folder: "ds", Name: "heap"}},
				ReviewItems: []domain.ItemRef{{Folder: "graphs", Name: "dijkstra"}},
				ShowReview:  true,
			},
		},
		{
			name:    "missing",
			content: "## Reviewing Timeline\n",
			want:    nil,
		},
		{
			name:    "no date",
			content: "### 最新更新:\n\n#### 新题\n- [heap](ds/heap.md)\n",
			want:    nil,
		},
		{
			name:    "placeholder only",
			content: "### 最新更新: 2024-05-02\n\n无新题。\n\n## Reviewing Timeline\n",
			want:    &domain.TodaySection{Date: "2024-05-02"},
		},
		{
			name:    "empty review list",
			content: "### 最新更新: 2024-05-02\n\n#### 复习\n今日无复习计划。\n",
			want:    &domain.TodaySection{Date: "2024-05-02", ShowReview: true},
		},
		{
			name:    "nested folder",
			content: "### 最新更新: 2024-05-02\n#### 新题\n- [x](algo/graphs/x.md)\n",
			want: &domain.TodaySection{
				Date:     "2024-05-02",
				NewItems: []domain.ItemRef{{Folder: "algo/graphs", Name: "x"}},
			},
		},
		{
			name:    "parentheses in name",
			content: "### 最新更新: 2024-05-02\n#### 新题\n- [Two Sum (easy)](dp/Two Sum (easy).md)\n- [b](dp/b.md)  \n",
			want: &domain.TodaySection{
				Date:     "2024-05-02",
				NewItems: []domain.ItemRef{{Folder: "dp", Name: "Two Sum (easy)"}, {Folder: "dp", Name: "b"}},
			},
		},
		{
			name:    "unknown subheading keeps current list",
			content: "### 最新更新: 2024-05-02\n#### 复习\n- [x](a/x.md)\n#### notes\n- [y](a/y.md)\n",
			want: &domain.TodaySection{
				Date:        "2024-05-02",
				ReviewItems: []domain.ItemRef{{Folder: "a", Name: "x"}, {Folder: "a", Name: "y"}},
				ShowReview:  true,
			},
		},
		{
			name:    "stops at next section",
			content: "### 最新更新: 2024-05-02\n#### 新题\n- [x](a/x.md)\n### other\n- [y](a/y.md)\n",
			want: &domain.TodaySection{
				Date:     "2024-05-02",
				NewItems: []domain.ItemRef{{Folder: "a", Name: "x"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToday(SplitLines(tt.content), DefaultFormat)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseToday() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	for _, content := range []string{"", "a", "a\n", "a\nb", "a\n\nb\n", "\n\n"} {
		lines := SplitLines(content)
		joined := ""
		for _, l := range lines {
			joined += l
		}
		if joined != content {
			t.Errorf("SplitLines(%q) does not round-trip: %q", content, lines)
		}
	}
}
