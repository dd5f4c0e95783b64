package entity

// Page mirrors the `pages` PostgreSQL table schema.
// Path holds the absolute URL of the page and is unique across all sites.
// Content is the raw HTML as fetched.
type Page struct {
	ID      int64
	SiteID  int64
	Path    string
	Code    int
	Content string
}

// FetchedPage is what a fetcher returns for a single URL.
type FetchedPage struct {
	URL        string
	StatusCode int
	HTML       string
	Title      string
	Text       string
	Links      []string // absolute hrefs, in document order
}
