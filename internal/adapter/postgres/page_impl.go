package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
)

const uniqueViolation = "23505"

// PageRepoImpl provides a concrete implementation for the PageRepository interface using PostgreSQL.
type PageRepoImpl struct {
	db *pgxpool.Pool
}

// NewPageRepo creates a new instance of PageRepoImpl.
func NewPageRepo(db *pgxpool.Pool) *PageRepoImpl {
	return &PageRepoImpl{db: db}
}

func (r *PageRepoImpl) Save(ctx context.Context, page *entity.Page) error {
	query := `
		INSERT INTO pages (site_id, path, code, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query, page.SiteID, page.Path, page.Code, page.Content).Scan(&page.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicatePath
	}
	return err
}

func (r *PageRepoImpl) FindByPath(ctx context.Context, path string) (*entity.Page, error) {
	return r.findOne(ctx, `SELECT id, site_id, path, code, content FROM pages WHERE path = $1;`, path)
}

func (r *PageRepoImpl) FindByID(ctx context.Context, id int64) (*entity.Page, error) {
	return r.findOne(ctx, `SELECT id, site_id, path, code, content FROM pages WHERE id = $1;`, id)
}

func (r *PageRepoImpl) findOne(ctx context.Context, query string, arg any) (*entity.Page, error) {
	var p entity.Page
	err := r.db.QueryRow(ctx, query, arg).Scan(&p.ID, &p.SiteID, &p.Path, &p.Code, &p.Content)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a page within a single transaction. Lemma frequencies are reduced by the
// page's ranks first; lemmas that drop to zero are removed along with their index entries.
func (r *PageRepoImpl) Delete(ctx context.Context, page *entity.Page) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE lemmas l
		SET frequency = l.frequency - si.lemma_rank::INTEGER
		FROM search_index si
		WHERE si.lemma_id = l.id AND si.page_id = $1;
	`, page.ID)
	if err != nil {
		return fmt.Errorf("failed to decrement lemmas: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM pages WHERE id = $1;`, page.ID)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM lemmas WHERE site_id = $1 AND frequency <= 0;`, page.SiteID); err != nil {
		return fmt.Errorf("failed to prune lemmas: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PageRepoImpl) CountBySite(ctx context.Context, siteID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pages WHERE site_id = $1;`, siteID).Scan(&n)
	return n, err
}

func (r *PageRepoImpl) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE pages RESTART IDENTITY CASCADE;`)
	return err
}
