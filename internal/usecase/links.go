package usecase

import (
	"net/url"
	"strings"

	"github.com/user/search-engine/pkg/utils"
)

// Links ending with these are never crawled.
var deniedSuffixes = []string{
	".shtml", ".pdf", ".xml", "?main_click",
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico", ".bmp",
	".zip", ".rar", ".7z", ".gz", ".tar",
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".rtf",
	".mp3", ".mp4", ".avi", ".mov", ".webm",
	".exe", ".apk", ".css", ".js", ".json",
}

// Links containing these are tracking or pagination variants of pages already crawled.
var deniedFragments = []string{"?page=", "?ref"}

// canonicalLink maps the bare site root to root+"/" so both spellings share one visited entry and one page path.
func canonicalLink(link, root string) string {
	if link == root {
		return root + "/"
	}
	return link
}

// qualifiesLink reports whether an absolute link belongs to the crawl rooted at root.
func qualifiesLink(link, root string) bool {
	if !utils.HasSitePrefix(link, root) {
		return false
	}
	if strings.Contains(link, "#") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	lower := strings.ToLower(link)
	for _, s := range deniedSuffixes {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	for _, f := range deniedFragments {
		if strings.Contains(lower, f) {
			return false
		}
	}
	return true
}

// sameSiteLinks filters links down to the qualifying ones, canonicalized and without repeats.
func sameSiteLinks(links []string, root string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, link := range links {
		if !qualifiesLink(link, root) {
			continue
		}
		link = canonicalLink(link, root)
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}
