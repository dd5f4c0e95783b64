package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/user/search-engine/internal/entity"
)

// IndexRepoImpl is an in-memory implementation of repository.IndexRepository.
type IndexRepoImpl struct {
	s *Store
}

// NewIndexRepo creates a new instance of IndexRepoImpl.
func NewIndexRepo(s *Store) *IndexRepoImpl {
	return &IndexRepoImpl{s: s}
}

func (r *IndexRepoImpl) SaveAll(_ context.Context, entries []*entity.IndexEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range entries {
		if _, ok := r.s.pages[e.PageID]; !ok {
			return fmt.Errorf("index entry references unknown page %d", e.PageID)
		}
		if _, ok := r.s.lemmas[e.LemmaID]; !ok {
			return fmt.Errorf("index entry references unknown lemma %d", e.LemmaID)
		}
	}
	for _, e := range entries {
		if old, ok := r.s.byPage[e.PageID][e.LemmaID]; ok {
			r.s.removeEntry(old)
		}
		e.ID = r.s.newID()
		stored := *e
		r.s.entries[e.ID] = &stored
		if r.s.byLemma[e.LemmaID] == nil {
			r.s.byLemma[e.LemmaID] = make(map[int64]int64)
		}
		r.s.byLemma[e.LemmaID][e.PageID] = e.ID
		if r.s.byPage[e.PageID] == nil {
			r.s.byPage[e.PageID] = make(map[int64]int64)
		}
		r.s.byPage[e.PageID][e.LemmaID] = e.ID
	}
	return nil
}

func (r *IndexRepoImpl) FindByLemma(_ context.Context, lemma string) ([]*entity.IndexEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found []*entity.IndexEntry
	for lemmaID, l := range r.s.lemmas {
		if !strings.EqualFold(l.Lemma, lemma) {
			continue
		}
		for _, entryID := range r.s.byLemma[lemmaID] {
			c := *r.s.entries[entryID]
			found = append(found, &c)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (r *IndexRepoImpl) FindByLemmaAndSite(_ context.Context, lemma string, siteID int64) ([]*entity.IndexEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lemmaID, ok := r.s.lemmaByKey[keyOf(siteID, lemma)]
	if !ok {
		return nil, nil
	}
	found := make([]*entity.IndexEntry, 0, len(r.s.byLemma[lemmaID]))
	for _, entryID := range r.s.byLemma[lemmaID] {
		c := *r.s.entries[entryID]
		found = append(found, &c)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].PageID < found[j].PageID })
	return found, nil
}

func (r *IndexRepoImpl) FindByPageAndLemma(_ context.Context, pageID int64, lemma string) ([]*entity.IndexMatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pages[pageID]
	if !ok {
		return nil, nil
	}
	lemmaID, ok := r.s.lemmaByKey[keyOf(p.SiteID, lemma)]
	if !ok {
		return nil, nil
	}
	entryID, ok := r.s.byPage[pageID][lemmaID]
	if !ok {
		return nil, nil
	}
	return []*entity.IndexMatch{{
		IndexEntry: *r.s.entries[entryID],
		Lemma:      *r.s.lemmas[lemmaID],
	}}, nil
}

func (r *IndexRepoImpl) Exists(_ context.Context, lemma string, pageID, siteID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lemmaID, ok := r.s.lemmaByKey[keyOf(siteID, lemma)]
	if !ok {
		return false, nil
	}
	_, ok = r.s.byPage[pageID][lemmaID]
	return ok, nil
}

func (r *IndexRepoImpl) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range r.s.entries {
		r.s.removeEntry(id)
	}
	return nil
}
