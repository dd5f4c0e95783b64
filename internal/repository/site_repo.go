package repository

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// SiteRepository defines the interface for storing indexed sites.
type SiteRepository interface {
	// Save inserts a new site and sets its ID.
	Save(ctx context.Context, site *entity.Site) error
	// Update persists status, status time and last error of an existing site.
	Update(ctx context.Context, site *entity.Site) error
	// FindByURL returns the site whose base URL matches url case-insensitively.
	FindByURL(ctx context.Context, url string) (*entity.Site, error)
	// FindAll returns every stored site.
	FindAll(ctx context.Context) ([]*entity.Site, error)
	// UpdateStatusWhere moves every site in status from to status to and returns the number of affected sites.
	UpdateStatusWhere(ctx context.Context, from, to entity.SiteStatus, lastError string) (int64, error)
	// DeleteAll removes every site together with its pages, lemmas and index entries.
	DeleteAll(ctx context.Context) error
}
