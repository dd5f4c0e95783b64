package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/search-engine/internal/entity"
)

// LemmaRepoImpl provides a concrete implementation for the LemmaRepository interface using PostgreSQL.
type LemmaRepoImpl struct {
	db *pgxpool.Pool
}

// NewLemmaRepo creates a new instance of LemmaRepoImpl.
func NewLemmaRepo(db *pgxpool.Pool) *LemmaRepoImpl {
	return &LemmaRepoImpl{db: db}
}

// SaveAll upserts the lemmas in one batch. Callers should pass lemmas in a stable
// order so that concurrent batches lock rows in the same sequence.
func (r *LemmaRepoImpl) SaveAll(ctx context.Context, lemmas []*entity.Lemma) error {
	if len(lemmas) == 0 {
		return nil
	}

	query := `
		INSERT INTO lemmas (site_id, lemma, frequency)
		VALUES ($1, lower($2), $3)
		ON CONFLICT (site_id, lemma) DO UPDATE SET
			frequency = lemmas.frequency + EXCLUDED.frequency
		RETURNING id, frequency;
	`
	batch := &pgx.Batch{}
	for _, l := range lemmas {
		batch.Queue(query, l.SiteID, l.Lemma, l.Frequency)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, l := range lemmas {
		if err := results.QueryRow().Scan(&l.ID, &l.Frequency); err != nil {
			return fmt.Errorf("failed to upsert lemma %q: %w", l.Lemma, err)
		}
	}
	return results.Close()
}

func (r *LemmaRepoImpl) FindByLemma(ctx context.Context, lemma string) ([]*entity.Lemma, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, site_id, lemma, frequency
		FROM lemmas
		WHERE lower(lemma) = lower($1);
	`, lemma)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lemmas []*entity.Lemma
	for rows.Next() {
		var l entity.Lemma
		if err := rows.Scan(&l.ID, &l.SiteID, &l.Lemma, &l.Frequency); err != nil {
			return nil, err
		}
		lemmas = append(lemmas, &l)
	}
	return lemmas, rows.Err()
}

func (r *LemmaRepoImpl) CountBySite(ctx context.Context, siteID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM lemmas WHERE site_id = $1;`, siteID).Scan(&n)
	return n, err
}

func (r *LemmaRepoImpl) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE lemmas RESTART IDENTITY CASCADE;`)
	return err
}
