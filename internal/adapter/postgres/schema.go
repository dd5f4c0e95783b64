package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS sites (
	id          BIGSERIAL PRIMARY KEY,
	url         VARCHAR(255) NOT NULL,
	name        VARCHAR(255) NOT NULL,
	status      VARCHAR(16)  NOT NULL CHECK (status IN ('INDEXING', 'INDEXED', 'FAILED')),
	status_time TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
	last_error  TEXT
);

CREATE TABLE IF NOT EXISTS pages (
	id      BIGSERIAL PRIMARY KEY,
	site_id BIGINT  NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	path    TEXT    NOT NULL UNIQUE,
	code    INTEGER NOT NULL,
	content TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pages_site_id ON pages (site_id);

CREATE TABLE IF NOT EXISTS lemmas (
	id        BIGSERIAL PRIMARY KEY,
	site_id   BIGINT       NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	lemma     VARCHAR(255) NOT NULL,
	frequency INTEGER      NOT NULL,
	UNIQUE (site_id, lemma)
);
CREATE INDEX IF NOT EXISTS idx_lemmas_lower_lemma ON lemmas (lower(lemma));

CREATE TABLE IF NOT EXISTS search_index (
	id         BIGSERIAL PRIMARY KEY,
	page_id    BIGINT NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	lemma_id   BIGINT NOT NULL REFERENCES lemmas(id) ON DELETE CASCADE,
	lemma_rank REAL   NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_index_lemma_id ON search_index (lemma_id);
CREATE INDEX IF NOT EXISTS idx_search_index_page_id ON search_index (page_id);

CREATE TABLE IF NOT EXISTS fetch_failures (
	id                     BIGSERIAL PRIMARY KEY,
	site_id                BIGINT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
	url                    TEXT   NOT NULL UNIQUE,
	failure_reason         TEXT   NOT NULL,
	http_status_code       INTEGER,
	attempts               INTEGER NOT NULL DEFAULT 1,
	last_attempt_timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the tables used by the repositories if they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
