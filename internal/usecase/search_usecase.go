package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/user/search-engine/internal/document"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"github.com/user/search-engine/pkg/metrics"
	"github.com/user/search-engine/pkg/utils"
	"go.uber.org/zap"
)

var ErrEmptyQuery = errors.New("search query is empty")

// Share of the pages where a lemma is most frequent that is left out of its total frequency.
const frequentCutPercent = 5

// Search defines the ranking engine.
type Search interface {
	Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error)
}

// SnippetBuilder highlights query lemmas in page text.
type SnippetBuilder interface {
	Build(text string, lemmas map[string]struct{}) string
}

type searchUseCase struct {
	sites        []entity.SiteConfig
	store        Store
	analyzer     Analyzer
	snippets     SnippetBuilder
	defaultLimit int
	logger       *zap.Logger
}

// NewSearchUseCase creates the ranking engine. defaultLimit applies when a query has no positive limit.
func NewSearchUseCase(
	sites []entity.SiteConfig,
	store Store,
	analyzer Analyzer,
	snippets SnippetBuilder,
	defaultLimit int,
	logger *zap.Logger,
) Search {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &searchUseCase{
		sites:        sites,
		store:        store,
		analyzer:     analyzer,
		snippets:     snippets,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

type rankedLemma struct {
	text  string
	total float64
}

type rankedPage struct {
	pageID int64
	site   *entity.Site
	rank   float64
}

func (uc *searchUseCase) Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResult, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, ErrEmptyQuery
	}
	start := time.Now()

	lemmaSet := uc.analyzer.LemmaSet(q.Query)
	result := &entity.SearchResult{Items: []entity.SearchItem{}}
	if len(lemmaSet) == 0 {
		return result, nil
	}

	lemmas, err := uc.orderLemmas(ctx, lemmaSet)
	if err != nil {
		return nil, err
	}

	sites, err := uc.scope(ctx, q.Site)
	if err != nil {
		return nil, err
	}

	var ranked []rankedPage
	for _, site := range sites {
		pages, err := uc.rankSite(ctx, site, lemmas)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, pages...)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].rank > ranked[j].rank })

	offset := max(q.Offset, 0)
	limit := q.Limit
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if offset >= len(ranked) {
		ranked = nil
	} else {
		ranked = ranked[offset:min(offset+limit, len(ranked))]
	}

	for _, rp := range ranked {
		item, err := uc.buildItem(ctx, rp, lemmaSet)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, item)
	}
	result.Count = len(result.Items)

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(result.Count))
	uc.logger.Debug("search served",
		zap.String("query", q.Query),
		zap.String("site", q.Site),
		zap.Int("count", result.Count),
	)
	return result, nil
}

// orderLemmas returns the query lemmas, rarest first.
func (uc *searchUseCase) orderLemmas(ctx context.Context, set map[string]struct{}) ([]rankedLemma, error) {
	out := make([]rankedLemma, 0, len(set))
	for text := range set {
		rows, err := uc.store.Lemmas.FindByLemma(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to look up lemma %q: %w", text, err)
		}
		if len(rows) == 0 {
			out = append(out, rankedLemma{text: text})
			continue
		}
		entries, err := uc.store.Index.FindByLemma(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to load index of lemma %q: %w", text, err)
		}
		out = append(out, rankedLemma{text: text, total: totalFrequency(entries)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].total != out[j].total {
			return out[i].total < out[j].total
		}
		return out[i].text < out[j].text
	})
	return out, nil
}

// totalFrequency sums the per-page occurrences of a lemma after leaving out the pages where it is most frequent.
func totalFrequency(entries []*entity.IndexEntry) float64 {
	ranks := make([]float64, len(entries))
	for i, e := range entries {
		ranks[i] = e.Rank
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ranks)))

	cut := int(math.Round(float64(len(ranks)*frequentCutPercent) / 100))
	var total float64
	for _, r := range ranks[cut:] {
		total += r
	}
	return total
}

func (uc *searchUseCase) scope(ctx context.Context, siteURL string) ([]*entity.Site, error) {
	urls := []string{siteURL}
	if siteURL == "" {
		urls = urls[:0]
		for _, s := range uc.sites {
			urls = append(urls, s.URL)
		}
	}

	sites := make([]*entity.Site, 0, len(urls))
	for _, u := range urls {
		site, err := uc.store.Sites.FindByURL(ctx, u)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up site %s: %w", u, err)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// rankSite returns the pages of site that contain every lemma, with their absolute rank:
// the sum of the lemmas' occurrence counts on the page.
func (uc *searchUseCase) rankSite(ctx context.Context, site *entity.Site, lemmas []rankedLemma) ([]rankedPage, error) {
	entries, err := uc.store.Index.FindByLemmaAndSite(ctx, lemmas[0].text, site.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	seen := make(map[int64]struct{}, len(entries))
	candidates := make([]int64, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.PageID]; dup {
			continue
		}
		seen[e.PageID] = struct{}{}
		candidates = append(candidates, e.PageID)
	}

	for _, l := range lemmas[1:] {
		if len(candidates) == 0 {
			return nil, nil
		}
		kept := candidates[:0]
		for _, pageID := range candidates {
			ok, err := uc.store.Index.Exists(ctx, l.text, pageID, site.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to intersect candidates: %w", err)
			}
			if ok {
				kept = append(kept, pageID)
			}
		}
		candidates = kept
	}

	pages := make([]rankedPage, 0, len(candidates))
	for _, pageID := range candidates {
		var rank float64
		for _, l := range lemmas {
			matches, err := uc.store.Index.FindByPageAndLemma(ctx, pageID, l.text)
			if err != nil {
				return nil, fmt.Errorf("failed to rank page %d: %w", pageID, err)
			}
			for _, m := range matches {
				rank += m.Rank
			}
		}
		pages = append(pages, rankedPage{pageID: pageID, site: site, rank: rank})
	}
	return pages, nil
}

func (uc *searchUseCase) buildItem(ctx context.Context, rp rankedPage, lemmas map[string]struct{}) (entity.SearchItem, error) {
	page, err := uc.store.Pages.FindByID(ctx, rp.pageID)
	if err != nil {
		return entity.SearchItem{}, fmt.Errorf("failed to load page %d: %w", rp.pageID, err)
	}

	var title, text string
	if doc, err := document.Parse(page.Content); err != nil {
		uc.logger.Warn("stored page is not parseable", zap.String("url", page.Path), zap.Error(err))
	} else {
		title, text = doc.Title(), doc.Text()
	}

	uri := utils.TrimSitePrefix(page.Path, rp.site.URL)
	if uri == "" {
		uri = "/"
	}

	return entity.SearchItem{
		Site:      rp.site.URL,
		SiteName:  rp.site.Name,
		URI:       uri,
		Title:     title,
		Snippet:   uc.snippets.Build(text, lemmas),
		Relevance: rp.rank,
	}, nil
}
