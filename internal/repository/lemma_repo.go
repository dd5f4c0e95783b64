package repository

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// LemmaRepository defines the interface for storing per-site lemmas.
type LemmaRepository interface {
	// SaveAll upserts lemmas by (site, lemma), adding Frequency to the stored value.
	// On return every lemma carries its ID and accumulated frequency.
	SaveAll(ctx context.Context, lemmas []*entity.Lemma) error
	// FindByLemma returns all lemma rows whose text matches lemma case-insensitively.
	FindByLemma(ctx context.Context, lemma string) ([]*entity.Lemma, error)
	// CountBySite returns the number of distinct lemmas stored for a site.
	CountBySite(ctx context.Context, siteID int64) (int, error)
	// DeleteAll removes every lemma.
	DeleteAll(ctx context.Context) error
}
