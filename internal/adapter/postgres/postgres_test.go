package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
)

// testPool connects to the database named by POSTGRES_TEST_URL and resets the schema.
// Tests are skipped when the variable is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	ctx := context.Background()
	db, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(db.Close)

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := NewSiteRepo(db).DeleteAll(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return db
}

func TestRepositoriesRoundTrip(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	sites := NewSiteRepo(db)
	pages := NewPageRepo(db)
	lemmas := NewLemmaRepo(db)
	index := NewIndexRepo(db)
	failures := NewFetchFailureRepo(db)

	site := &entity.Site{URL: "https://example.com", Name: "Example", Status: entity.StatusIndexing, StatusTime: time.Now()}
	if err := sites.Save(ctx, site); err != nil {
		t.Fatalf("save site: %v", err)
	}

	page := &entity.Page{SiteID: site.ID, Path: "https://example.com/a", Code: 200, Content: "<p>cat</p>"}
	if err := pages.Save(ctx, page); err != nil {
		t.Fatalf("save page: %v", err)
	}
	dup := &entity.Page{SiteID: site.ID, Path: page.Path, Code: 200}
	if err := pages.Save(ctx, dup); !errors.Is(err, repository.ErrDuplicatePath) {
		t.Fatalf("duplicate save err = %v, want ErrDuplicatePath", err)
	}

	ls := []*entity.Lemma{
		{SiteID: site.ID, Lemma: "cat", Frequency: 3},
		{SiteID: site.ID, Lemma: "dog", Frequency: 1},
	}
	if err := lemmas.SaveAll(ctx, ls); err != nil {
		t.Fatalf("save lemmas: %v", err)
	}
	if err := index.SaveAll(ctx, []*entity.IndexEntry{
		{PageID: page.ID, LemmaID: ls[0].ID, Rank: 3},
		{PageID: page.ID, LemmaID: ls[1].ID, Rank: 1},
	}); err != nil {
		t.Fatalf("save index: %v", err)
	}

	if all, err := index.FindByLemma(ctx, "Cat"); err != nil || len(all) != 1 || all[0].Rank != 3 {
		t.Errorf("FindByLemma = %v, %v; want one entry of rank 3", all, err)
	}

	ok, err := index.Exists(ctx, "CAT", page.ID, site.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}
	matches, err := index.FindByPageAndLemma(ctx, page.ID, "cat")
	if err != nil || len(matches) != 1 || matches[0].Rank != 3 {
		t.Fatalf("FindByPageAndLemma = %+v, %v", matches, err)
	}

	if err := pages.Delete(ctx, page); err != nil {
		t.Fatalf("delete page: %v", err)
	}
	if found, _ := lemmas.FindByLemma(ctx, "cat"); len(found) != 0 {
		t.Errorf("lemma survived page delete: %+v", found)
	}

	f := &entity.FetchFailure{SiteID: site.ID, URL: "https://example.com/404", FailureReason: "http_status", HTTPStatusCode: 404, LastAttemptTimestamp: time.Now()}
	_ = failures.SaveOrUpdate(ctx, f)
	_ = failures.SaveOrUpdate(ctx, f)
	if f.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", f.Attempts)
	}

	n, err := sites.UpdateStatusWhere(ctx, entity.StatusIndexing, entity.StatusFailed, "stopped")
	if err != nil || n != 1 {
		t.Fatalf("UpdateStatusWhere = %d, %v", n, err)
	}
	found, err := sites.FindByURL(ctx, "HTTPS://EXAMPLE.COM/")
	if err != nil || found.Status != entity.StatusFailed {
		t.Fatalf("FindByURL = %+v, %v", found, err)
	}
}
