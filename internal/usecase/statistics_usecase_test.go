package usecase

import (
	"context"
	"testing"

	"github.com/user/search-engine/internal/entity"
	"go.uber.org/zap/zaptest"
)

type indexingFlag bool

func (f indexingFlag) IsIndexing() bool { return bool(f) }

func TestStatistics_Get(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	analyzer := newTestAnalyzer(t)
	indexer := NewPageIndexerUseCase(searchSites, store, newFakeFetcher(map[string]fakePage{
		siteA + "/1": {text: "cat dog"},
		siteA + "/2": {text: "cat bird"},
	}), analyzer, zaptest.NewLogger(t))

	for _, u := range []string{siteA + "/1", siteA + "/2", siteA + "/missing"} {
		_ = indexer.IndexPage(ctx, u)
	}

	stats, err := NewStatisticsUseCase(searchSites, store, indexingFlag(true)).Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	want := entity.TotalStatistics{Sites: 2, Pages: 2, Lemmas: 3, Indexing: true}
	if stats.Total != want {
		t.Errorf("total = %+v, want %+v", stats.Total, want)
	}
	if len(stats.Detailed) != 2 {
		t.Fatalf("detailed = %d entries, want 2", len(stats.Detailed))
	}

	a := stats.Detailed[0]
	if a.URL != siteA || a.Name != "A" || a.Status != string(entity.StatusIndexed) {
		t.Errorf("site A = %+v", a)
	}
	if a.Pages != 2 || a.Lemmas != 3 || a.Failures != 1 || a.StatusTime == 0 {
		t.Errorf("site A counts = %+v, want 2 pages, 3 lemmas, 1 failure", a)
	}

	b := stats.Detailed[1]
	if b.URL != siteB || b.Status != "" || b.Pages != 0 || b.StatusTime != 0 {
		t.Errorf("site B = %+v, want empty entry", b)
	}
}
