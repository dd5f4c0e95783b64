package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
)

// Statistics defines the read-only report over the configured sites.
type Statistics interface {
	Get(ctx context.Context) (*entity.Statistics, error)
}

// IndexingState reports whether a full indexing session is running.
type IndexingState interface {
	IsIndexing() bool
}

type statisticsUseCase struct {
	sites    []entity.SiteConfig
	store    Store
	indexing IndexingState
}

func NewStatisticsUseCase(sites []entity.SiteConfig, store Store, indexing IndexingState) Statistics {
	return &statisticsUseCase{sites: sites, store: store, indexing: indexing}
}

func (uc *statisticsUseCase) Get(ctx context.Context) (*entity.Statistics, error) {
	stats := &entity.Statistics{
		Total: entity.TotalStatistics{
			Sites:    len(uc.sites),
			Indexing: uc.indexing.IsIndexing(),
		},
		Detailed: make([]entity.DetailedStatistics, 0, len(uc.sites)),
	}

	for _, cfg := range uc.sites {
		d := entity.DetailedStatistics{URL: cfg.URL, Name: cfg.Name}

		site, err := uc.store.Sites.FindByURL(ctx, cfg.URL)
		if errors.Is(err, repository.ErrNotFound) {
			stats.Detailed = append(stats.Detailed, d)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up site %s: %w", cfg.URL, err)
		}

		d.Status = string(site.Status)
		d.StatusTime = site.StatusTime.UnixMilli()
		if site.LastError != nil {
			d.Error = *site.LastError
		}
		if d.Pages, err = uc.store.Pages.CountBySite(ctx, site.ID); err != nil {
			return nil, fmt.Errorf("failed to count pages: %w", err)
		}
		if d.Lemmas, err = uc.store.Lemmas.CountBySite(ctx, site.ID); err != nil {
			return nil, fmt.Errorf("failed to count lemmas: %w", err)
		}
		if d.Failures, err = uc.store.Failures.CountBySite(ctx, site.ID); err != nil {
			return nil, fmt.Errorf("failed to count fetch failures: %w", err)
		}

		stats.Total.Pages += d.Pages
		stats.Total.Lemmas += d.Lemmas
		stats.Detailed = append(stats.Detailed, d)
	}
	return stats, nil
}
