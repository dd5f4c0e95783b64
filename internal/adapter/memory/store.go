package memory

import (
	"strings"
	"sync"

	"github.com/user/search-engine/internal/entity"
)

// Store is a process-local backing store shared by the in-memory repositories.
// It keeps the same referential rules as the SQL schema: deleting a site drops
// its pages, lemmas, index entries and fetch failures.
type Store struct {
	mu sync.RWMutex

	nextID int64

	sites      map[int64]*entity.Site
	pages      map[int64]*entity.Page
	pageByPath map[string]int64
	lemmas     map[int64]*entity.Lemma
	lemmaByKey map[lemmaKey]int64
	entries    map[int64]*entity.IndexEntry
	byLemma    map[int64]map[int64]int64 // lemmaID -> pageID -> entryID
	byPage     map[int64]map[int64]int64 // pageID -> lemmaID -> entryID
	failures   map[string]*entity.FetchFailure
}

type lemmaKey struct {
	siteID int64
	lemma  string
}

func keyOf(siteID int64, lemma string) lemmaKey {
	return lemmaKey{siteID: siteID, lemma: strings.ToLower(lemma)}
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.sites = make(map[int64]*entity.Site)
	s.pages = make(map[int64]*entity.Page)
	s.pageByPath = make(map[string]int64)
	s.lemmas = make(map[int64]*entity.Lemma)
	s.lemmaByKey = make(map[lemmaKey]int64)
	s.entries = make(map[int64]*entity.IndexEntry)
	s.byLemma = make(map[int64]map[int64]int64)
	s.byPage = make(map[int64]map[int64]int64)
	s.failures = make(map[string]*entity.FetchFailure)
}

func (s *Store) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) removeEntry(id int64) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	delete(s.entries, id)
	if m := s.byLemma[e.LemmaID]; m != nil {
		delete(m, e.PageID)
		if len(m) == 0 {
			delete(s.byLemma, e.LemmaID)
		}
	}
	if m := s.byPage[e.PageID]; m != nil {
		delete(m, e.LemmaID)
		if len(m) == 0 {
			delete(s.byPage, e.PageID)
		}
	}
}

func (s *Store) removeLemma(id int64) {
	l, ok := s.lemmas[id]
	if !ok {
		return
	}
	for _, entryID := range s.byLemma[id] {
		s.removeEntry(entryID)
	}
	delete(s.lemmas, id)
	delete(s.lemmaByKey, keyOf(l.SiteID, l.Lemma))
}

func (s *Store) removePage(id int64) {
	p, ok := s.pages[id]
	if !ok {
		return
	}
	for _, entryID := range s.byPage[id] {
		s.removeEntry(entryID)
	}
	delete(s.pages, id)
	delete(s.pageByPath, p.Path)
}
