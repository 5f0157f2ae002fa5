package jobrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

// Repo is an in-memory implementation of jobrepo.Repository.
// It is safe for concurrent use; each method runs under a single lock, which makes
// every operation atomic per job.
type Repo struct {
	mu sync.RWMutex

	byID map[domain.JobID]jobrepo.Job
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.JobID]jobrepo.Job),
	}
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]jobrepo.Job, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobrepo.Job, 0)
	for _, j := range r.byID {
		if j.CreatedBy != owner {
			continue
		}
		out = append(out, j)
	}
	sortJobsByOwner(out)
	return out, nil
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.byID[id]
	if !ok || j.CreatedBy != owner {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	return j, nil
}

func (r *Repo) Create(ctx context.Context, j jobrepo.Job) (jobrepo.Job, error) {
	_ = ctx
	if err := j.Validate(); err != nil {
		return jobrepo.Job{}, err
	}
	if j.ID == "" {
		return jobrepo.Job{}, jobrepo.ErrAlreadyExists // treat empty ID as invalid; the service always assigns one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[j.ID]; ok {
		return jobrepo.Job{}, jobrepo.ErrAlreadyExists
	}
	r.byID[j.ID] = j
	return j, nil
}

func (r *Repo) UpdateByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID, p jobrepo.Patch) (jobrepo.Job, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok || existing.CreatedBy != owner {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	merged := p.Apply(existing)
	if err := merged.Validate(); err != nil {
		return jobrepo.Job{}, err
	}
	r.byID[id] = merged
	return merged, nil
}

func (r *Repo) DeleteByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok || existing.CreatedBy != owner {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	delete(r.byID, id)
	return existing, nil
}

func sortJobsByOwner(js []jobrepo.Job) {
	sort.Slice(js, func(i, j int) bool {
		if js[i].CreatedBy != js[j].CreatedBy {
			return js[i].CreatedBy < js[j].CreatedBy
		}
		if !js[i].CreatedAt.Equal(js[j].CreatedAt) {
			return js[i].CreatedAt.Before(js[j].CreatedAt)
		}
		return js[i].ID < js[j].ID
	})
}
