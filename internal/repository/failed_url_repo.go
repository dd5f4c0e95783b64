package repository

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// FetchFailureRepository defines the interface for recording URLs that could not be fetched.
type FetchFailureRepository interface {
	// SaveOrUpdate creates a failure record or increments the attempts of an existing one.
	SaveOrUpdate(ctx context.Context, failure *entity.FetchFailure) error
	// CountBySite returns the number of failed URLs recorded for a site.
	CountBySite(ctx context.Context, siteID int64) (int, error)
	// DeleteAll removes every failure record.
	DeleteAll(ctx context.Context) error
}
