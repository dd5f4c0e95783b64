package httpfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const robotsTimeout = 10 * time.Second

// robotsCache fetches robots.txt once per scheme+host. A missing or unreadable
// file allows everything.
type robotsCache struct {
	client *http.Client

	mu    sync.RWMutex
	hosts map[string]*robotstxt.RobotsData
}

func newRobotsCache(client *http.Client) *robotsCache {
	return &robotsCache{client: client, hosts: make(map[string]*robotstxt.RobotsData)}
}

func (c *robotsCache) allowed(ctx context.Context, u *url.URL, userAgent string) bool {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	c.mu.RLock()
	data, ok := c.hosts[robotsURL]
	c.mu.RUnlock()

	if !ok {
		data = c.fetch(ctx, robotsURL, userAgent)
		c.mu.Lock()
		c.hosts[robotsURL] = data
		c.mu.Unlock()
	}
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.FindGroup(userAgent).Test(path)
}

func (c *robotsCache) fetch(ctx context.Context, robotsURL, userAgent string) *robotstxt.RobotsData {
	ctx, cancel := context.WithTimeout(ctx, robotsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data
}
