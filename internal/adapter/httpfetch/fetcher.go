// Package httpfetch downloads pages over plain HTTP.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/user/search-engine/internal/document"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
	"go.uber.org/zap"
)

const maxBodyBytes = 10 << 20

// Options configures a Fetcher.
type Options struct {
	Timeout       time.Duration
	Referrer      string
	UserAgents    []string
	Proxies       []string
	RespectRobots bool
}

// Fetcher implements repository.PageFetcher with net/http.
type Fetcher struct {
	client   *http.Client
	identity *Identity
	referrer string
	robots   *robotsCache
	logger   *zap.Logger
}

var _ repository.PageFetcher = (*Fetcher)(nil)

// New creates a Fetcher.
func New(opts Options, logger *zap.Logger) (*Fetcher, error) {
	identity, err := NewIdentity(opts.UserAgents, opts.Proxies)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy:               identity.Proxy,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	f := &Fetcher{
		client:   client,
		identity: identity,
		referrer: opts.Referrer,
		logger:   logger,
	}
	if opts.RespectRobots {
		f.robots = newRobotsCache(client)
	}
	return f, nil
}

// Fetch downloads rawURL. A non-2xx status is returned in FetchedPage.StatusCode with no body parsed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*entity.FetchedPage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	userAgent := f.identity.UserAgent()
	if f.robots != nil && !f.robots.allowed(ctx, u, userAgent) {
		return nil, repository.ErrDisallowedByRobots
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if f.referrer != "" {
		req.Header.Set("Referer", f.referrer)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	page := &entity.FetchedPage{URL: rawURL, StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return page, nil
	}

	if !isHTML(resp.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnsupportedContent, resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	page.HTML = string(body)

	doc, err := document.Parse(page.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	page.Title = doc.Title()
	page.Text = doc.Text()
	// Redirects change the base that relative links resolve against.
	page.Links = doc.Links(resp.Request.URL)

	f.logger.Debug("fetched page",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return page, nil
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml" || strings.HasSuffix(mediaType, "+html")
}

