package memory

import (
	"context"

	"github.com/user/search-engine/internal/entity"
)

// FetchFailureRepoImpl is an in-memory implementation of repository.FetchFailureRepository.
type FetchFailureRepoImpl struct {
	s *Store
}

// NewFetchFailureRepo creates a new instance of FetchFailureRepoImpl.
func NewFetchFailureRepo(s *Store) *FetchFailureRepoImpl {
	return &FetchFailureRepoImpl{s: s}
}

func (r *FetchFailureRepoImpl) SaveOrUpdate(_ context.Context, f *entity.FetchFailure) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.failures[f.URL]; ok {
		existing.SiteID = f.SiteID
		existing.FailureReason = f.FailureReason
		existing.HTTPStatusCode = f.HTTPStatusCode
		existing.LastAttemptTimestamp = f.LastAttemptTimestamp
		existing.Attempts++
		f.ID = existing.ID
		f.Attempts = existing.Attempts
		return nil
	}
	f.ID = r.s.newID()
	f.Attempts = 1
	stored := *f
	r.s.failures[f.URL] = &stored
	return nil
}

func (r *FetchFailureRepoImpl) CountBySite(_ context.Context, siteID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, f := range r.s.failures {
		if f.SiteID == siteID {
			n++
		}
	}
	return n, nil
}

func (r *FetchFailureRepoImpl) DeleteAll(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.failures = make(map[string]*entity.FetchFailure)
	return nil
}
