package repository

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// IndexRepository defines the interface for the inverted index.
type IndexRepository interface {
	// SaveAll stores index entries. Referenced pages and lemmas must already exist.
	SaveAll(ctx context.Context, entries []*entity.IndexEntry) error
	// FindByLemma returns the entries of a lemma on every page of every site.
	FindByLemma(ctx context.Context, lemma string) ([]*entity.IndexEntry, error)
	// FindByLemmaAndSite returns the entries of a lemma on pages of one site.
	FindByLemmaAndSite(ctx context.Context, lemma string, siteID int64) ([]*entity.IndexEntry, error)
	// FindByPageAndLemma returns the entries of a lemma on one page, joined with the lemma row.
	FindByPageAndLemma(ctx context.Context, pageID int64, lemma string) ([]*entity.IndexMatch, error)
	// Exists reports whether the page of the given site has an entry for lemma.
	Exists(ctx context.Context, lemma string, pageID, siteID int64) (bool, error)
	// DeleteAll removes every index entry.
	DeleteAll(ctx context.Context) error
}
