package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/user/search-engine/internal/entity"
	"github.com/user/search-engine/internal/repository"
)

// SiteRepoImpl is an in-memory implementation of repository.SiteRepository.
type SiteRepoImpl struct {
	s *Store
}

// NewSiteRepo creates a new instance of SiteRepoImpl.
func NewSiteRepo(s *Store) *SiteRepoImpl {
	return &SiteRepoImpl{s: s}
}

func (r *SiteRepoImpl) Save(_ context.Context, site *entity.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	site.ID = r.s.newID()
	stored := *site
	r.s.sites[site.ID] = &stored
	return nil
}

func (r *SiteRepoImpl) Update(_ context.Context, site *entity.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.sites[site.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = site.Status
	stored.StatusTime = site.StatusTime
	stored.LastError = site.LastError
	return nil
}

func (r *SiteRepoImpl) FindByURL(_ context.Context, url string) (*entity.Site, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := normalizeSiteURL(url)
	for _, site := range r.s.sites {
		if normalizeSiteURL(site.URL) == want {
			found := *site
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SiteRepoImpl) FindAll(_ context.Context) ([]*entity.Site, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sites := make([]*entity.Site, 0, len(r.s.sites))
	for _, site := range r.s.sites {
		found := *site
		sites = append(sites, &found)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites, nil
}

func (r *SiteRepoImpl) UpdateStatusWhere(_ context.Context, from, to entity.SiteStatus, lastError string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	now := time.Now()
	for _, site := range r.s.sites {
		if site.Status != from {
			continue
		}
		site.Status = to
		site.StatusTime = now
		msg := lastError
		site.LastError = &msg
		n++
	}
	return n, nil
}

func (r *SiteRepoImpl) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.reset()
	return nil
}

func normalizeSiteURL(u string) string {
	return strings.ToLower(strings.TrimSuffix(u, "/"))
}
