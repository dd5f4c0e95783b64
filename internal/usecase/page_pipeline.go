package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"github.com/user/search-engine/pkg/metrics"
	"go.uber.org/zap"
)

var errBadStatus = errors.New("non-success http status")

// pagePipeline runs fetch -> persist -> lemmatize -> index for one URL.
// It is shared by the site crawl and the single-page indexer.
type pagePipeline struct {
	store    Store
	fetcher  repository.PageFetcher
	analyzer Analyzer
	logger   *zap.Logger
}

// index fetches pageURL and stores it with its lemmas and index entries.
// Failed fetches are recorded as fetch failures; the returned error then describes the failure.
func (p *pagePipeline) index(ctx context.Context, site *entity.Site, pageURL string) (*entity.FetchedPage, error) {
	fetched, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.recordFailure(ctx, site, pageURL, failureReason(err), 0)
		return nil, err
	}
	if fetched.StatusCode < 200 || fetched.StatusCode > 299 {
		p.recordFailure(ctx, site, pageURL, "http_status", fetched.StatusCode)
		return nil, fmt.Errorf("%w: %d", errBadStatus, fetched.StatusCode)
	}

	page := &entity.Page{
		SiteID:  site.ID,
		Path:    pageURL,
		Code:    fetched.StatusCode,
		Content: fetched.HTML,
	}
	if err := p.savePage(ctx, page); err != nil {
		return nil, err
	}

	counts := p.analyzer.Analyze(fetched.Text)
	lemmas := make([]*entity.Lemma, 0, len(counts))
	for text, n := range counts {
		lemmas = append(lemmas, &entity.Lemma{SiteID: site.ID, Lemma: text, Frequency: n})
	}
	// Concurrent upserts for one site must lock lemma rows in the same order.
	sort.Slice(lemmas, func(i, j int) bool { return lemmas[i].Lemma < lemmas[j].Lemma })

	if err := p.store.Lemmas.SaveAll(ctx, lemmas); err != nil {
		return nil, fmt.Errorf("failed to save lemmas: %w", err)
	}

	entries := make([]*entity.IndexEntry, 0, len(lemmas))
	for _, l := range lemmas {
		entries = append(entries, &entity.IndexEntry{
			PageID:  page.ID,
			LemmaID: l.ID,
			Rank:    float64(counts[l.Lemma]),
		})
	}
	if err := p.store.Index.SaveAll(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	metrics.PagesIndexedTotal.WithLabelValues(site.URL).Inc()
	p.logger.Debug("page indexed",
		zap.String("url", pageURL),
		zap.Int("lemmas", len(lemmas)),
	)
	return fetched, nil
}

// savePage stores page, replacing a page already stored under the same path together with its index entries.
func (p *pagePipeline) savePage(ctx context.Context, page *entity.Page) error {
	err := p.store.Pages.Save(ctx, page)
	if !errors.Is(err, repository.ErrDuplicatePath) {
		if err != nil {
			return fmt.Errorf("failed to save page: %w", err)
		}
		return nil
	}

	stale, err := p.store.Pages.FindByPath(ctx, page.Path)
	switch {
	case err == nil:
		if err := p.store.Pages.Delete(ctx, stale); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to delete stale page: %w", err)
		}
		p.logger.Debug("replacing stored page", zap.String("url", page.Path), zap.Int64("old_site", stale.SiteID))
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to look up stale page: %w", err)
	}

	if err := p.store.Pages.Save(ctx, page); err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}
	return nil
}

func (p *pagePipeline) recordFailure(ctx context.Context, site *entity.Site, pageURL, reason string, status int) {
	metrics.FetchFailuresTotal.WithLabelValues(reason).Inc()

	f := &entity.FetchFailure{
		SiteID:               site.ID,
		URL:                  pageURL,
		FailureReason:        reason,
		HTTPStatusCode:       status,
		LastAttemptTimestamp: time.Now(),
	}
	if err := p.store.Failures.SaveOrUpdate(ctx, f); err != nil {
		p.logger.Warn("failed to record fetch failure", zap.String("url", pageURL), zap.Error(err))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrUnsupportedContent):
		return "unsupported_content"
	case errors.Is(err, repository.ErrDisallowedByRobots):
		return "robots"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "network"
	}
}
