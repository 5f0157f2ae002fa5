package jobrepo

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

// Job is the persistence shape used by the job repository.
type Job struct {
	ID        domain.JobID
	Company   string
	Position  string
	Status    domain.JobStatus
	CreatedBy domain.UserID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate applies the field validators every store runs before writing.
func (j Job) Validate() error {
	return domain.ValidateJobFields(j.Company, j.Position, j.Status)
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Company  *string
	Position *string
	Status   *domain.JobStatus

	UpdatedAt time.Time
}

// Apply returns j with the patch merged in.
func (p Patch) Apply(j Job) Job {
	out := j
	if p.Company != nil {
		out.Company = *p.Company
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if !p.UpdatedAt.IsZero() {
		out.UpdatedAt = p.UpdatedAt
	}
	return out
}

// Repository provides ownership-scoped access to persisted jobs.
//
// Every id-scoped method filters by id AND owner together; a job owned by someone
// else is reported as ErrNotFound, exactly like a missing one.
//
// Result ordering expectations:
//   - ListByOwner returns results ordered by CreatedBy ascending, ties broken by
//     CreatedAt then ID so results stay deterministic.
type Repository interface {
	ListByOwner(ctx context.Context, owner domain.UserID) ([]Job, error)
	GetByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (Job, error)

	// Create validates and stores j. It returns *domain.ValidationError when fields are invalid.
	Create(ctx context.Context, j Job) (Job, error)

	// UpdateByIDAndOwner validates the merged record and returns it post-update.
	UpdateByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID, p Patch) (Job, error)

	// DeleteByIDAndOwner permanently removes the job and returns the removed record.
	DeleteByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (Job, error)
}
