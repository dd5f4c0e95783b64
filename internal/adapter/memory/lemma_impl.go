package memory

import (
	"context"
	"strings"

	"github.com/user/search-engine/internal/entity"
)

// LemmaRepoImpl is an in-memory implementation of repository.LemmaRepository.
type LemmaRepoImpl struct {
	s *Store
}

// NewLemmaRepo creates a new instance of LemmaRepoImpl.
func NewLemmaRepo(s *Store) *LemmaRepoImpl {
	return &LemmaRepoImpl{s: s}
}

func (r *LemmaRepoImpl) SaveAll(_ context.Context, lemmas []*entity.Lemma) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range lemmas {
		key := keyOf(l.SiteID, l.Lemma)
		if id, ok := r.s.lemmaByKey[key]; ok {
			stored := r.s.lemmas[id]
			stored.Frequency += l.Frequency
			l.ID = id
			l.Frequency = stored.Frequency
			continue
		}
		l.ID = r.s.newID()
		stored := *l
		r.s.lemmas[l.ID] = &stored
		r.s.lemmaByKey[key] = l.ID
	}
	return nil
}

func (r *LemmaRepoImpl) FindByLemma(_ context.Context, lemma string) ([]*entity.Lemma, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found []*entity.Lemma
	for _, l := range r.s.lemmas {
		if strings.EqualFold(l.Lemma, lemma) {
			c := *l
			found = append(found, &c)
		}
	}
	return found, nil
}

func (r *LemmaRepoImpl) CountBySite(_ context.Context, siteID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, l := range r.s.lemmas {
		if l.SiteID == siteID {
			n++
		}
	}
	return n, nil
}

func (r *LemmaRepoImpl) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range r.s.lemmas {
		r.s.removeLemma(id)
	}
	return nil
}
