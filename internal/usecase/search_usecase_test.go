package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/snippet"
	"go.uber.org/zap/zaptest"
)

const siteB = "https://b.test"

var searchSites = []entity.SiteConfig{
	{Name: "A", URL: siteA},
	{Name: "B", URL: siteB},
}

// newSearchCorpus indexes the given pages and returns a search usecase over them.
func newSearchCorpus(t *testing.T, pages map[string]fakePage) Search {
	t.Helper()
	ctx := context.Background()
	store := newTestStore(t)
	analyzer := newTestAnalyzer(t)
	logger := zaptest.NewLogger(t)

	indexer := NewPageIndexerUseCase(searchSites, store, newFakeFetcher(pages), analyzer, logger)
	for _, u := range sortedKeys(pages) {
		if err := indexer.IndexPage(ctx, u); err != nil {
			t.Fatalf("IndexPage(%s): %v", u, err)
		}
	}
	return NewSearchUseCase(searchSites, store, analyzer, snippet.New(analyzer, 0), 10, logger)
}

func sortedKeys(m map[string]fakePage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func uris(res *entity.SearchResult) []string {
	out := make([]string, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, it.Site+it.URI)
	}
	return out
}

func TestSearch_RarestLemmaDrivesCandidates(t *testing.T) {
	uc := newSearchCorpus(t, map[string]fakePage{
		siteA + "/a": {title: "Page A", text: "cat cat cat dog"},
		siteA + "/b": {title: "Page B", text: "cat cat cat cat cat"},
	})

	res, err := uc.Search(context.Background(), entity.SearchQuery{Query: "cat dog", Limit: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Count != 1 || len(res.Items) != 1 {
		t.Fatalf("results = %v, want only page A", uris(res))
	}

	item := res.Items[0]
	if item.URI != "/a" || item.Site != siteA || item.SiteName != "A" {
		t.Errorf("item = %+v, want site A uri /a", item)
	}
	if item.Title != "Page A" {
		t.Errorf("title = %q, want %q", item.Title, "Page A")
	}
	// cat occurs 3 times on the page, dog once.
	if item.Relevance != 4 {
		t.Errorf("relevance = %v, want 4", item.Relevance)
	}
	if !strings.Contains(item.Snippet, "<b>cat</b>") || !strings.Contains(item.Snippet, "<b>dog</b>") {
		t.Errorf("snippet %q does not highlight the query", item.Snippet)
	}
}

func TestSearch_RanksPagesOfOneSite(t *testing.T) {
	uc := newSearchCorpus(t, map[string]fakePage{
		siteA + "/few":  {text: "leopard"},
		siteA + "/many": {text: strings.Repeat("leopard ", 9)},
		siteA + "/some": {text: "leopard leopard leopard"},
	})

	res, err := uc.Search(context.Background(), entity.SearchQuery{Query: "leopard"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []struct {
		uri       string
		relevance float64
	}{
		{"/many", 9},
		{"/some", 3},
		{"/few", 1},
	}
	if len(res.Items) != len(want) {
		t.Fatalf("results = %v, want %d pages", uris(res), len(want))
	}
	for i, w := range want {
		if res.Items[i].URI != w.uri || res.Items[i].Relevance != w.relevance {
			t.Errorf("item %d = %s (%v), want %s (%v)", i, res.Items[i].URI, res.Items[i].Relevance, w.uri, w.relevance)
		}
	}
}

func TestSearch_URIIgnoresHostCase(t *testing.T) {
	uc := newSearchCorpus(t, map[string]fakePage{
		"https://A.TEST/Upper": {text: "leopard"},
	})

	res, err := uc.Search(context.Background(), entity.SearchQuery{Query: "leopard"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].URI != "/Upper" {
		t.Errorf("results = %+v, want uri /Upper", res.Items)
	}
}

func TestSearch_Pagination(t *testing.T) {
	uc := newSearchCorpus(t, map[string]fakePage{
		siteA + "/1": {text: "cat"},
		siteA + "/2": {text: "cat"},
		siteA + "/3": {text: "cat"},
	})
	ctx := context.Background()

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"first page", 0, 2, []string{siteA + "/1", siteA + "/2"}},
		{"offset skips", 2, 2, []string{siteA + "/3"}},
		{"negative offset", -1, 1, []string{siteA + "/1"}},
		{"default limit", 0, 0, []string{siteA + "/1", siteA + "/2", siteA + "/3"}},
		{"past the end", 5, 2, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := uc.Search(ctx, entity.SearchQuery{Query: "cats", Offset: tc.offset, Limit: tc.limit})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			got := uris(res)
			if len(got) != len(tc.want) || res.Count != len(tc.want) {
				t.Fatalf("results = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("results = %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestSearch_SiteScope(t *testing.T) {
	uc := newSearchCorpus(t, map[string]fakePage{
		siteA + "/a": {text: "leopard"},
		siteB + "/b": {text: "leopard"},
	})
	ctx := context.Background()

	all, err := uc.Search(ctx, entity.SearchQuery{Query: "leopard"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if all.Count != 2 {
		t.Errorf("unscoped results = %v, want both sites", uris(all))
	}

	scoped, err := uc.Search(ctx, entity.SearchQuery{Query: "leopard", Site: siteB + "/"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := uris(scoped); len(got) != 1 || got[0] != siteB+"/b" {
		t.Errorf("scoped results = %v, want only %s/b", got, siteB)
	}

	unknown, err := uc.Search(ctx, entity.SearchQuery{Query: "leopard", Site: "https://unknown.test"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if unknown.Count != 0 {
		t.Errorf("unknown site results = %v, want none", uris(unknown))
	}
}

func TestSearch_NoMatches(t *testing.T) {
	uc := newSearchCorpus(t, map[string]fakePage{
		siteA + "/a": {text: "cat dog"},
	})
	ctx := context.Background()

	for _, q := range []string{"cat unicorn", "the and", "!!!"} {
		res, err := uc.Search(ctx, entity.SearchQuery{Query: q})
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if res.Count != 0 || res.Items == nil || len(res.Items) != 0 {
			t.Errorf("Search(%q) = %+v, want empty result", q, res)
		}
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	uc := newSearchCorpus(t, nil)
	for _, q := range []string{"", "   "} {
		if _, err := uc.Search(context.Background(), entity.SearchQuery{Query: q}); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestTotalFrequency(t *testing.T) {
	entries := func(ranks ...float64) []*entity.IndexEntry {
		out := make([]*entity.IndexEntry, len(ranks))
		for i, r := range ranks {
			out[i] = &entity.IndexEntry{Rank: r}
		}
		return out
	}
	series := func(n int) []*entity.IndexEntry {
		ranks := make([]float64, n)
		for i := range ranks {
			ranks[i] = float64(i + 1)
		}
		return entries(ranks...)
	}
	outlier := make([]float64, 20)
	for i := range outlier {
		outlier[i] = 1
	}
	outlier[7] = 100

	tests := []struct {
		name    string
		entries []*entity.IndexEntry
		want    float64
	}{
		{"no pages", nil, 0},
		{"single page", series(1), 1},
		{"below the cut", series(9), 45},  // 0.45 rounds to 0
		{"half rounds up", series(10), 45}, // the page with 10 is cut
		{"twenty pages", series(20), 190},
		{"outlier page dropped", entries(outlier...), 19},
	}
	for _, tc := range tests {
		if got := totalFrequency(tc.entries); got != tc.want {
			t.Errorf("%s: totalFrequency = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSearch_LemmaTotalSkipsMostFrequentPage(t *testing.T) {
	pages := map[string]fakePage{
		siteA + "/spam": {text: strings.Repeat("cat ", 100) + "dog"},
	}
	for i := 0; i < 19; i++ {
		pages[siteA+"/p"+string(rune('a'+i))] = fakePage{text: "cat"}
	}
	uc := newSearchCorpus(t, pages).(*searchUseCase)

	lemmas, err := uc.orderLemmas(context.Background(), map[string]struct{}{"cat": {}, "dog": {}})
	if err != nil {
		t.Fatalf("orderLemmas: %v", err)
	}
	// Without the spam page cat occurs 19 times, more than dog's single occurrence.
	if lemmas[0].text != "dog" || lemmas[1].total != 19 {
		t.Errorf("lemmas = %+v, want dog first and cat totalling 19", lemmas)
	}
}
