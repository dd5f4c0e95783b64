package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"github.com/user/search-engine/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var (
	ErrIndexingAlreadyRunning = errors.New("indexing is already running")
	ErrIndexingNotRunning     = errors.New("indexing is not running")
)

const stoppedByUser = "Indexing stopped by user"

// Indexing defines the full re-index of every configured site.
type Indexing interface {
	// Start wipes the index and begins crawling all sites in the background.
	// The session is detached from ctx cancellation; use Stop to end it early.
	Start(ctx context.Context) (*Session, error)
	// StartAll runs a session and blocks until it is finished.
	StartAll(ctx context.Context) error
	// Stop cancels the running session and waits for it to unwind, bounded by ctx.
	Stop(ctx context.Context) error
	// IsIndexing reports whether a session is running.
	IsIndexing() bool
}

// Session is one run of the full re-index.
type Session struct {
	ID string

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Done is closed when the session has finished.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the session finishes and returns its error.
// A stopped session returns context.Canceled.
func (s *Session) Wait() error {
	<-s.done
	return s.err
}

// IndexingConfig tunes the crawl.
type IndexingConfig struct {
	Workers int           // concurrent page fetches per site
	Delay   time.Duration // pause before every fetch
}

type indexingUseCase struct {
	sites    []entity.SiteConfig
	store    Store
	visited  repository.VisitedRepository
	pipeline *pagePipeline
	cfg      IndexingConfig
	logger   *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewIndexingUseCase creates the crawl coordinator.
func NewIndexingUseCase(
	sites []entity.SiteConfig,
	store Store,
	visited repository.VisitedRepository,
	fetcher repository.PageFetcher,
	analyzer Analyzer,
	cfg IndexingConfig,
	logger *zap.Logger,
) Indexing {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &indexingUseCase{
		sites:   sites,
		store:   store,
		visited: visited,
		pipeline: &pagePipeline{
			store:    store,
			fetcher:  fetcher,
			analyzer: analyzer,
			logger:   logger,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (uc *indexingUseCase) Start(ctx context.Context) (*Session, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.session != nil {
		return nil, ErrIndexingAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Session{
		ID:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	uc.session = s
	metrics.IndexingInProgress.Set(1)

	go uc.run(runCtx, s)
	return s, nil
}

func (uc *indexingUseCase) StartAll(ctx context.Context) error {
	s, err := uc.Start(ctx)
	if err != nil {
		return err
	}
	return s.Wait()
}

func (uc *indexingUseCase) Stop(ctx context.Context) error {
	uc.mu.Lock()
	s := uc.session
	uc.mu.Unlock()

	if s == nil {
		return ErrIndexingNotRunning
	}

	uc.logger.Info("stopping indexing", zap.String("session", s.ID))
	s.cancel()

	select {
	case <-s.done:
	case <-ctx.Done():
		uc.logger.Warn("indexing session still unwinding", zap.String("session", s.ID))
	}
	return nil
}

func (uc *indexingUseCase) IsIndexing() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.session != nil
}

func (uc *indexingUseCase) run(ctx context.Context, s *Session) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("indexing session panicked", zap.String("session", s.ID), zap.Any("panic", r))
			s.err = fmt.Errorf("indexing session panicked: %v", r)
		}
		s.cancel()

		uc.mu.Lock()
		if uc.session == s {
			uc.session = nil
		}
		metrics.IndexingInProgress.Set(0)
		uc.mu.Unlock()

		close(s.done)
	}()

	start := time.Now()
	uc.logger.Info("indexing started", zap.String("session", s.ID), zap.Int("sites", len(uc.sites)))

	s.err = uc.runSession(ctx, s)

	if ctx.Err() != nil {
		// Sites left INDEXING were interrupted. Their state must be final before the session is released.
		n, err := uc.store.Sites.UpdateStatusWhere(context.WithoutCancel(ctx), entity.StatusIndexing, entity.StatusFailed, stoppedByUser)
		if err != nil {
			uc.logger.Error("failed to mark interrupted sites", zap.Error(err))
		}
		uc.logger.Info("indexing stopped", zap.String("session", s.ID), zap.Int64("failed_sites", n))
		s.err = ctx.Err()
		return
	}
	if s.err != nil {
		uc.logger.Error("indexing failed", zap.String("session", s.ID), zap.Error(s.err))
		return
	}
	uc.logger.Info("indexing finished", zap.String("session", s.ID), zap.Duration("elapsed", time.Since(start)))
}

func (uc *indexingUseCase) runSession(ctx context.Context, s *Session) error {
	if err := uc.wipe(ctx); err != nil {
		return err
	}

	for _, cfg := range uc.sites {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		site := &entity.Site{
			URL:        cfg.URL,
			Name:       cfg.Name,
			Status:     entity.StatusIndexing,
			StatusTime: time.Now(),
		}
		if err := uc.store.Sites.Save(ctx, site); err != nil {
			return fmt.Errorf("failed to create site %s: %w", cfg.URL, err)
		}

		crawlErr := uc.crawlSite(ctx, s, site)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		site.StatusTime = time.Now()
		if crawlErr != nil {
			msg := crawlErr.Error()
			site.Status = entity.StatusFailed
			site.LastError = &msg
			uc.logger.Error("site crawl failed", zap.String("site", site.URL), zap.Error(crawlErr))
		} else {
			site.Status = entity.StatusIndexed
		}
		if err := uc.store.Sites.Update(ctx, site); err != nil {
			return fmt.Errorf("failed to update site %s: %w", site.URL, err)
		}
	}
	return nil
}

// wipe clears every table the crawl rebuilds. Index entries go first as they reference pages and lemmas.
func (uc *indexingUseCase) wipe(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"index", uc.store.Index.DeleteAll},
		{"lemmas", uc.store.Lemmas.DeleteAll},
		{"pages", uc.store.Pages.DeleteAll},
		{"fetch failures", uc.store.Failures.DeleteAll},
		{"sites", uc.store.Sites.DeleteAll},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("failed to delete %s: %w", step.name, err)
		}
	}
	return nil
}

func (uc *indexingUseCase) crawlSite(ctx context.Context, s *Session, site *entity.Site) error {
	scope := s.ID + ":" + strconv.FormatInt(site.ID, 10)
	defer func() {
		if err := uc.visited.Clear(context.WithoutCancel(ctx), scope); err != nil {
			uc.logger.Warn("failed to clear visited set", zap.String("scope", scope), zap.Error(err))
		}
	}()

	root := site.URL
	startURL := canonicalLink(root, root)
	if _, err := uc.visited.MarkVisited(ctx, scope, startURL); err != nil {
		return fmt.Errorf("failed to mark start url: %w", err)
	}

	c := &siteCrawl{
		site:     site,
		root:     root,
		scope:    scope,
		delay:    uc.cfg.Delay,
		sem:      semaphore.NewWeighted(int64(uc.cfg.Workers)),
		visited:  uc.visited,
		pipeline: uc.pipeline,
		logger:   uc.logger.With(zap.String("site", site.URL)),
	}

	start := time.Now()
	uc.logger.Info("site crawl started", zap.String("site", site.URL))
	err := c.crawl(ctx, startURL)
	metrics.CrawlDuration.WithLabelValues(site.URL).Observe(time.Since(start).Seconds())
	uc.logger.Info("site crawl finished", zap.String("site", site.URL), zap.Duration("elapsed", time.Since(start)))
	return err
}
