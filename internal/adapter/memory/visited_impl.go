package memory

import (
	"context"
	"sync"
)

// VisitedRepoImpl keeps per-scope URL sets in process memory.
type VisitedRepoImpl struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl.
func NewVisitedRepo() *VisitedRepoImpl {
	return &VisitedRepoImpl{sets: make(map[string]map[string]struct{})}
}

func (r *VisitedRepoImpl) MarkVisited(_ context.Context, scope, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[scope]
	if !ok {
		set = make(map[string]struct{})
		r.sets[scope] = set
	}
	if _, seen := set[url]; seen {
		return false, nil
	}
	set[url] = struct{}{}
	return true, nil
}

func (r *VisitedRepoImpl) Clear(_ context.Context, scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sets, scope)
	return nil
}
