package repository

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// PageFetcher defines the contract for downloading and parsing a single web page.
type PageFetcher interface {
	// Fetch downloads url and returns its status code, raw HTML, text and absolute links.
	// A non-2xx status is reported through FetchedPage.StatusCode, not as an error.
	Fetch(ctx context.Context, url string) (*entity.FetchedPage, error)
}
