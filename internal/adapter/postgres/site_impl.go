package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
)

// SiteRepoImpl provides a concrete implementation for the SiteRepository interface using PostgreSQL.
type SiteRepoImpl struct {
	db *pgxpool.Pool
}

// NewSiteRepo creates a new instance of SiteRepoImpl.
func NewSiteRepo(db *pgxpool.Pool) *SiteRepoImpl {
	return &SiteRepoImpl{db: db}
}

func (r *SiteRepoImpl) Save(ctx context.Context, site *entity.Site) error {
	query := `
		INSERT INTO sites (url, name, status, status_time, last_error)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query,
		site.URL,
		site.Name,
		string(site.Status),
		site.StatusTime,
		site.LastError,
	).Scan(&site.ID)
}

func (r *SiteRepoImpl) Update(ctx context.Context, site *entity.Site) error {
	query := `UPDATE sites SET status = $2, status_time = $3, last_error = $4 WHERE id = $1;`
	tag, err := r.db.Exec(ctx, query, site.ID, string(site.Status), site.StatusTime, site.LastError)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SiteRepoImpl) FindByURL(ctx context.Context, url string) (*entity.Site, error) {
	query := `
		SELECT id, url, name, status, status_time, last_error
		FROM sites
		WHERE lower(rtrim(url, '/')) = lower(rtrim($1, '/'))
		ORDER BY id
		LIMIT 1;
	`
	site, err := scanSite(r.db.QueryRow(ctx, query, url))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return site, err
}

func (r *SiteRepoImpl) FindAll(ctx context.Context) ([]*entity.Site, error) {
	rows, err := r.db.Query(ctx, `SELECT id, url, name, status, status_time, last_error FROM sites ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []*entity.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (r *SiteRepoImpl) UpdateStatusWhere(ctx context.Context, from, to entity.SiteStatus, lastError string) (int64, error) {
	query := `UPDATE sites SET status = $2, status_time = NOW(), last_error = $3 WHERE status = $1;`
	tag, err := r.db.Exec(ctx, query, string(from), string(to), lastError)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAll truncates sites and every table that references it.
func (r *SiteRepoImpl) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE sites RESTART IDENTITY CASCADE;`)
	return err
}

func scanSite(row pgx.Row) (*entity.Site, error) {
	var site entity.Site
	var status string
	if err := row.Scan(
		&site.ID,
		&site.URL,
		&site.Name,
		&status,
		&site.StatusTime,
		&site.LastError,
	); err != nil {
		return nil, err
	}
	site.Status = entity.SiteStatus(status)
	return &site, nil
}
