package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/user/search-engine/internal/adapter/memory"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/morphology"
	"github.com/user/search-engine/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) Store {
	t.Helper()
	s := memory.NewStore()
	return Store{
		Sites:    memory.NewSiteRepo(s),
		Pages:    memory.NewPageRepo(s),
		Lemmas:   memory.NewLemmaRepo(s),
		Index:    memory.NewIndexRepo(s),
		Failures: memory.NewFetchFailureRepo(s),
	}
}

func newTestAnalyzer(t *testing.T) *morphology.Analyzer {
	t.Helper()
	a, err := morphology.New("english")
	if err != nil {
		t.Fatalf("morphology.New: %v", err)
	}
	return a
}

type fakePage struct {
	status int
	title  string
	text   string
	links  []string
}

// fakeFetcher serves scripted pages and counts how often each URL was requested.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]fakePage
	calls map[string]int
}

func newFakeFetcher(pages map[string]fakePage) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*entity.FetchedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls[url]++
	p, ok := f.pages[url]
	f.mu.Unlock()

	if !ok {
		return &entity.FetchedPage{URL: url, StatusCode: 404}, nil
	}
	status := p.status
	if status == 0 {
		status = 200
	}
	return &entity.FetchedPage{
		URL:        url,
		StatusCode: status,
		HTML:       fmt.Sprintf("<html><head><title>%s</title></head><body><p>%s</p></body></html>", p.title, p.text),
		Title:      p.title,
		Text:       p.text,
		Links:      p.links,
	}, nil
}

func (f *fakeFetcher) callsFor(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var urls []string
	for u := range f.calls {
		urls = append(urls, u)
	}
	return urls
}

// blockingFetcher signals every call and then blocks until the context is cancelled.
type blockingFetcher struct {
	started chan string
}

func (f *blockingFetcher) Fetch(ctx context.Context, url string) (*entity.FetchedPage, error) {
	select {
	case f.started <- url:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func siteStatus(t *testing.T, store Store, url string) *entity.Site {
	t.Helper()
	site, err := store.Sites.FindByURL(context.Background(), url)
	if err != nil {
		t.Fatalf("FindByURL(%s): %v", url, err)
	}
	return site
}

func lemmaFrequency(t *testing.T, store Store, lemma string) int {
	t.Helper()
	rows, err := store.Lemmas.FindByLemma(context.Background(), lemma)
	if err != nil {
		t.Fatalf("FindByLemma(%s): %v", lemma, err)
	}
	total := 0
	for _, r := range rows {
		total += r.Frequency
	}
	return total
}

func containsURL(urls []string, want string) bool {
	for _, u := range urls {
		if strings.EqualFold(u, want) {
			return true
		}
	}
	return false
}
