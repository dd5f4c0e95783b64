package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string.
// Used as a fixed-size member key in Redis sets.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(strings.TrimSpace(relative))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// HasSitePrefix reports whether rawURL lives under siteURL, ignoring case and a trailing slash on siteURL.
func HasSitePrefix(rawURL, siteURL string) bool {
	prefix := strings.ToLower(strings.TrimSuffix(siteURL, "/"))
	u := strings.ToLower(rawURL)
	if !strings.HasPrefix(u, prefix) {
		return false
	}
	rest := u[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

// TrimSitePrefix strips siteURL from the front of rawURL using the same case-insensitive
// rule as HasSitePrefix. rawURL is returned unchanged when it is not under siteURL.
func TrimSitePrefix(rawURL, siteURL string) string {
	if !HasSitePrefix(rawURL, siteURL) {
		return rawURL
	}
	return rawURL[len(strings.TrimSuffix(siteURL, "/")):]
}
