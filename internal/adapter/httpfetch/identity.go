package httpfetch

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// Identity hands out the client identity for each request: a random user agent
// and, when proxies are configured, the next proxy in round-robin order.
type Identity struct {
	userAgents []string

	mu         sync.Mutex
	proxies    []*url.URL
	proxyIndex int
}

// NewIdentity builds an Identity. An empty userAgents list falls back to a built-in set of desktop browsers.
func NewIdentity(userAgents, proxies []string) (*Identity, error) {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	id := &Identity{userAgents: userAgents}
	for _, p := range proxies {
		u, err := url.Parse(p)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", p)
		}
		id.proxies = append(id.proxies, u)
	}
	return id, nil
}

// UserAgent returns a random user agent string.
func (id *Identity) UserAgent() string {
	return id.userAgents[rand.IntN(len(id.userAgents))]
}

// Proxy returns the next proxy URL, or nil for a direct connection.
// Its signature matches http.Transport.Proxy.
func (id *Identity) Proxy(_ *http.Request) (*url.URL, error) {
	if len(id.proxies) == 0 {
		return nil, nil
	}
	id.mu.Lock()
	defer id.mu.Unlock()
	p := id.proxies[id.proxyIndex]
	id.proxyIndex = (id.proxyIndex + 1) % len(id.proxies)
	return p, nil
}
