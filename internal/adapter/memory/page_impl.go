package memory

import (
	"context"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
)

// PageRepoImpl is an in-memory implementation of repository.PageRepository.
type PageRepoImpl struct {
	s *Store
}

// NewPageRepo creates a new instance of PageRepoImpl.
func NewPageRepo(s *Store) *PageRepoImpl {
	return &PageRepoImpl{s: s}
}

func (r *PageRepoImpl) Save(_ context.Context, page *entity.Page) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pageByPath[page.Path]; ok {
		return repository.ErrDuplicatePath
	}
	if _, ok := r.s.sites[page.SiteID]; !ok {
		return repository.ErrNotFound
	}
	page.ID = r.s.newID()
	stored := *page
	r.s.pages[page.ID] = &stored
	r.s.pageByPath[page.Path] = page.ID
	return nil
}

func (r *PageRepoImpl) FindByPath(_ context.Context, path string) (*entity.Page, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.pageByPath[path]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *r.s.pages[id]
	return &found, nil
}

func (r *PageRepoImpl) FindByID(_ context.Context, id int64) (*entity.Page, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *p
	return &found, nil
}

// Delete removes the page and its index entries. Each entry's rank is subtracted from
// the lemma frequency and lemmas left with no occurrences are dropped.
func (r *PageRepoImpl) Delete(_ context.Context, page *entity.Page) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pages[page.ID]; !ok {
		return repository.ErrNotFound
	}
	for lemmaID, entryID := range r.s.byPage[page.ID] {
		l, ok := r.s.lemmas[lemmaID]
		if !ok {
			continue
		}
		l.Frequency -= int(r.s.entries[entryID].Rank)
		if l.Frequency <= 0 {
			r.s.removeLemma(lemmaID)
		}
	}
	r.s.removePage(page.ID)
	return nil
}

func (r *PageRepoImpl) CountBySite(_ context.Context, siteID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, p := range r.s.pages {
		if p.SiteID == siteID {
			n++
		}
	}
	return n, nil
}

func (r *PageRepoImpl) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range r.s.pages {
		r.s.removePage(id)
	}
	return nil
}
