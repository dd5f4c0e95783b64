package chromedp_crawler

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/search-engine/internal/document"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"go.uber.org/zap"
)

// ChromedpFetcher renders pages in headless Chrome before extracting them.
// Each Fetch opens its own tab in a shared browser.
type ChromedpFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	referrer    string
	logger      *zap.Logger
}

var _ repository.PageFetcher = (*ChromedpFetcher)(nil)

// NewChromedpFetcher starts a browser allocator with the given user agent.
func NewChromedpFetcher(userAgent, referrer string, pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpFetcher{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     pageLoadTimeout,
		referrer:    referrer,
		logger:      logger,
	}
}

// Close shuts down the browser.
func (c *ChromedpFetcher) Close() {
	c.allocCancel()
}

// Fetch navigates to rawURL and returns the rendered HTML.
func (c *ChromedpFetcher) Fetch(ctx context.Context, rawURL string) (*entity.FetchedPage, error) {
	taskCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()
	// The tab belongs to the browser, not to ctx; close it when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		mu       sync.Mutex
		status   int
		mimeType string
	)
	chromedp.ListenTarget(taskCtx, func(ev any) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Type != network.ResourceTypeDocument {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if status == 0 {
			status = int(resp.Response.Status)
			mimeType = resp.Response.MimeType
		}
	})

	actions := []chromedp.Action{network.Enable()}
	if c.referrer != "" {
		actions = append(actions, network.SetExtraHTTPHeaders(network.Headers{"Referer": c.referrer}))
	}
	var html, location string
	actions = append(actions,
		chromedp.Navigate(rawURL),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	start := time.Now()
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to render %s: %w", rawURL, err)
	}

	mu.Lock()
	page := &entity.FetchedPage{URL: rawURL, StatusCode: status}
	mt := mimeType
	mu.Unlock()

	if page.StatusCode == 0 {
		page.StatusCode = 200
	}
	if page.StatusCode < 200 || page.StatusCode > 299 {
		return page, nil
	}
	if mt != "" && mt != "text/html" && mt != "application/xhtml+xml" {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedContent, mt)
	}

	doc, err := document.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	base, err := url.Parse(location)
	if err != nil || location == "" {
		if base, err = url.Parse(rawURL); err != nil {
			return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
		}
	}
	page.HTML = html
	page.Title = doc.Title()
	page.Text = doc.Text()
	page.Links = doc.Links(base)

	c.logger.Debug("rendered page",
		zap.String("url", rawURL),
		zap.Int("status", page.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return page, nil
}
