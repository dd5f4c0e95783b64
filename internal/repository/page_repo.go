package repository

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// PageRepository defines the interface for storing fetched pages.
type PageRepository interface {
	// Save inserts a page and sets its ID. Returns ErrDuplicatePath if the path is taken.
	Save(ctx context.Context, page *entity.Page) error
	// FindByPath retrieves the page stored under an exact path.
	FindByPath(ctx context.Context, path string) (*entity.Page, error)
	// FindByID retrieves a page by its ID.
	FindByID(ctx context.Context, id int64) (*entity.Page, error)
	// Delete removes a page and its index entries, and subtracts their ranks
	// from the frequencies of the referenced lemmas.
	Delete(ctx context.Context, page *entity.Page) error
	// CountBySite returns the number of pages stored for a site.
	CountBySite(ctx context.Context, siteID int64) (int, error)
	// DeleteAll removes every page.
	DeleteAll(ctx context.Context) error
}
