package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/search-engine/internal/entity"
)

// FetchFailureRepoImpl provides a concrete implementation for the FetchFailureRepository interface using PostgreSQL.
type FetchFailureRepoImpl struct {
	db *pgxpool.Pool
}

// NewFetchFailureRepo creates a new instance of FetchFailureRepoImpl.
func NewFetchFailureRepo(db *pgxpool.Pool) *FetchFailureRepoImpl {
	return &FetchFailureRepoImpl{db: db}
}

// SaveOrUpdate creates or updates a record for a failed URL.
// It increments attempts on conflict.
func (r *FetchFailureRepoImpl) SaveOrUpdate(ctx context.Context, f *entity.FetchFailure) error {
	query := `
		INSERT INTO fetch_failures (site_id, url, failure_reason, http_status_code, attempts, last_attempt_timestamp)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (url) DO UPDATE SET
			site_id = EXCLUDED.site_id,
			failure_reason = EXCLUDED.failure_reason,
			http_status_code = EXCLUDED.http_status_code,
			last_attempt_timestamp = EXCLUDED.last_attempt_timestamp,
			attempts = fetch_failures.attempts + 1
		RETURNING id, attempts;
	`
	return r.db.QueryRow(ctx, query,
		f.SiteID,
		f.URL,
		f.FailureReason,
		f.HTTPStatusCode,
		f.LastAttemptTimestamp,
	).Scan(&f.ID, &f.Attempts)
}

func (r *FetchFailureRepoImpl) CountBySite(ctx context.Context, siteID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fetch_failures WHERE site_id = $1;`, siteID).Scan(&n)
	return n, err
}

func (r *FetchFailureRepoImpl) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE fetch_failures RESTART IDENTITY;`)
	return err
}
