package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/search-engine/internal/entity"
)

// IndexRepoImpl provides a concrete implementation for the IndexRepository interface using PostgreSQL.
type IndexRepoImpl struct {
	db *pgxpool.Pool
}

// NewIndexRepo creates a new instance of IndexRepoImpl.
func NewIndexRepo(db *pgxpool.Pool) *IndexRepoImpl {
	return &IndexRepoImpl{db: db}
}

// SaveAll bulk-loads entries with COPY. Entry IDs are not populated.
func (r *IndexRepoImpl) SaveAll(ctx context.Context, entries []*entity.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"search_index"},
		[]string{"page_id", "lemma_id", "lemma_rank"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{e.PageID, e.LemmaID, float32(e.Rank)}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy index entries: %w", err)
	}
	return nil
}

func (r *IndexRepoImpl) FindByLemma(ctx context.Context, lemma string) ([]*entity.IndexEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT si.id, si.page_id, si.lemma_id, si.lemma_rank
		FROM search_index si
		JOIN lemmas l ON l.id = si.lemma_id
		WHERE lower(l.lemma) = lower($1)
		ORDER BY si.id;
	`, lemma)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *IndexRepoImpl) FindByLemmaAndSite(ctx context.Context, lemma string, siteID int64) ([]*entity.IndexEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT si.id, si.page_id, si.lemma_id, si.lemma_rank
		FROM search_index si
		JOIN lemmas l ON l.id = si.lemma_id
		WHERE lower(l.lemma) = lower($1) AND l.site_id = $2
		ORDER BY si.page_id;
	`, lemma, siteID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]*entity.IndexEntry, error) {
	defer rows.Close()

	var entries []*entity.IndexEntry
	for rows.Next() {
		var e entity.IndexEntry
		var rank float32
		if err := rows.Scan(&e.ID, &e.PageID, &e.LemmaID, &rank); err != nil {
			return nil, err
		}
		e.Rank = float64(rank)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *IndexRepoImpl) FindByPageAndLemma(ctx context.Context, pageID int64, lemma string) ([]*entity.IndexMatch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT si.id, si.page_id, si.lemma_id, si.lemma_rank, l.id, l.site_id, l.lemma, l.frequency
		FROM search_index si
		JOIN lemmas l ON l.id = si.lemma_id
		WHERE si.page_id = $1 AND lower(l.lemma) = lower($2);
	`, pageID, lemma)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*entity.IndexMatch
	for rows.Next() {
		var m entity.IndexMatch
		var rank float32
		if err := rows.Scan(
			&m.ID, &m.PageID, &m.LemmaID, &rank,
			&m.Lemma.ID, &m.Lemma.SiteID, &m.Lemma.Lemma, &m.Lemma.Frequency,
		); err != nil {
			return nil, err
		}
		m.Rank = float64(rank)
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}

func (r *IndexRepoImpl) Exists(ctx context.Context, lemma string, pageID, siteID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM search_index si
			JOIN lemmas l ON l.id = si.lemma_id
			WHERE si.page_id = $1 AND l.site_id = $2 AND lower(l.lemma) = lower($3)
		);
	`, pageID, siteID, lemma).Scan(&exists)
	return exists, err
}

func (r *IndexRepoImpl) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE search_index RESTART IDENTITY;`)
	return err
}
