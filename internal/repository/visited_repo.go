package repository

import "context"

// VisitedRepository defines the interface for deduplication of discovered URLs within one crawl.
type VisitedRepository interface {
	// MarkVisited atomically adds url to the set identified by scope.
	// It reports true only for the caller that inserted the URL first.
	MarkVisited(ctx context.Context, scope, url string) (bool, error)
	// Clear drops the set identified by scope.
	Clear(ctx context.Context, scope string) error
}
