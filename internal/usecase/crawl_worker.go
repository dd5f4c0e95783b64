package usecase

import (
	"context"
	"time"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// siteCrawl is the shared state of one site's recursive crawl.
type siteCrawl struct {
	site     *entity.Site
	root     string
	scope    string
	delay    time.Duration
	sem      *semaphore.Weighted
	visited  repository.VisitedRepository
	pipeline *pagePipeline
	logger   *zap.Logger
}

// crawl indexes pageURL, then crawls every newly discovered same-site link and waits for
// the whole subtree. Only cancellation is returned; other failures end this branch.
func (c *siteCrawl) crawl(ctx context.Context, pageURL string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("crawl task panicked", zap.String("url", pageURL), zap.Any("panic", r))
			err = nil
		}
	}()

	links, err := c.visit(ctx, pageURL)
	if err != nil || len(links) == 0 {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, link := range links {
		first, err := c.visited.MarkVisited(gctx, c.scope, link)
		if err != nil {
			if gctx.Err() != nil {
				break
			}
			c.logger.Warn("visited set unavailable", zap.String("url", link), zap.Error(err))
			continue
		}
		if !first {
			continue
		}
		g.Go(func() error {
			return c.crawl(gctx, link)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// visit processes one page inside a worker slot and returns its qualifying links.
// The slot is released before the caller fans out, so parents never hold a slot while waiting on children.
func (c *siteCrawl) visit(ctx context.Context, pageURL string) ([]string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	if c.delay > 0 {
		t := time.NewTimer(c.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}

	page, err := c.pipeline.index(ctx, c.site, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("page skipped", zap.String("url", pageURL), zap.Error(err))
		return nil, nil
	}
	return sameSiteLinks(page.Links, c.root), nil
}
