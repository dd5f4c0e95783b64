package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"github.com/user/search-engine/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrPageOutsideSites = errors.New("page is outside of the configured sites")
	ErrPageUnavailable  = errors.New("page could not be indexed")
)

// PageIndexer defines re-indexing of a single page.
type PageIndexer interface {
	// IndexPage replaces the stored copy of pageURL with a fresh fetch.
	// No links are followed.
	IndexPage(ctx context.Context, pageURL string) error
}

type pageIndexerUseCase struct {
	sites    []entity.SiteConfig
	store    Store
	pipeline *pagePipeline
	logger   *zap.Logger
}

// NewPageIndexerUseCase creates a single-page indexer over the configured sites.
func NewPageIndexerUseCase(
	sites []entity.SiteConfig,
	store Store,
	fetcher repository.PageFetcher,
	analyzer Analyzer,
	logger *zap.Logger,
) PageIndexer {
	return &pageIndexerUseCase{
		sites: sites,
		store: store,
		pipeline: &pagePipeline{
			store:    store,
			fetcher:  fetcher,
			analyzer: analyzer,
			logger:   logger,
		},
		logger: logger,
	}
}

func (uc *pageIndexerUseCase) IndexPage(ctx context.Context, pageURL string) error {
	cfg, ok := uc.siteOf(pageURL)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPageOutsideSites, pageURL)
	}

	site, created, err := uc.findOrCreateSite(ctx, cfg)
	if err != nil {
		return err
	}

	pageURL = canonicalLink(pageURL, site.URL)
	existing, err := uc.store.Pages.FindByPath(ctx, pageURL)
	switch {
	case err == nil:
		if err := uc.store.Pages.Delete(ctx, existing); err != nil {
			return fmt.Errorf("failed to delete stale page: %w", err)
		}
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to look up page: %w", err)
	}

	if _, err := uc.pipeline.index(ctx, site, pageURL); err != nil {
		if created {
			uc.finishSite(ctx, site, entity.StatusFailed, err.Error())
		}
		return fmt.Errorf("%w: %w", ErrPageUnavailable, err)
	}
	if created {
		uc.finishSite(ctx, site, entity.StatusIndexed, "")
	}

	uc.logger.Info("page reindexed", zap.String("url", pageURL))
	return nil
}

func (uc *pageIndexerUseCase) siteOf(pageURL string) (entity.SiteConfig, bool) {
	for _, s := range uc.sites {
		if utils.HasSitePrefix(pageURL, s.URL) {
			return s, true
		}
	}
	return entity.SiteConfig{}, false
}

func (uc *pageIndexerUseCase) findOrCreateSite(ctx context.Context, cfg entity.SiteConfig) (*entity.Site, bool, error) {
	site, err := uc.store.Sites.FindByURL(ctx, cfg.URL)
	if err == nil {
		return site, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up site: %w", err)
	}

	site = &entity.Site{
		URL:        cfg.URL,
		Name:       cfg.Name,
		Status:     entity.StatusIndexing,
		StatusTime: time.Now(),
	}
	if err := uc.store.Sites.Save(ctx, site); err != nil {
		return nil, false, fmt.Errorf("failed to create site: %w", err)
	}
	return site, true, nil
}

func (uc *pageIndexerUseCase) finishSite(ctx context.Context, site *entity.Site, status entity.SiteStatus, msg string) {
	site.Status = status
	site.StatusTime = time.Now()
	site.LastError = nil
	if msg != "" {
		site.LastError = &msg
	}
	if err := uc.store.Sites.Update(context.WithoutCancel(ctx), site); err != nil {
		uc.logger.Warn("failed to update site status", zap.String("site", site.URL), zap.Error(err))
	}
}
