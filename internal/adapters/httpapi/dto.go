package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

// jobRequest is the body of create and update. Unknown fields (id, createdBy, ...) are ignored.
type jobRequest struct {
	Company  string                    `json:"company"`
	Position string                    `json:"position"`
	Status   nullable.Nullable[string] `json:"status,omitempty"`
}

func (b jobRequest) status() jobs.Optional[domain.JobStatus] {
	if !b.Status.IsSpecified() {
		return jobs.Unspecified[domain.JobStatus]()
	}
	if b.Status.IsNull() {
		return jobs.Null[domain.JobStatus]()
	}
	v, err := b.Status.Get()
	if err != nil {
		return jobs.Null[domain.JobStatus]()
	}
	return jobs.Some(domain.JobStatus(v))
}

type jobResponse struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type jobEnvelope struct {
	Job jobResponse `json:"job"`
}

type listJobsResponse struct {
	Jobs  []jobResponse `json:"jobs"`
	Count int           `json:"count"`
}

func jobFromDomain(j domain.Job) jobResponse {
	return jobResponse{
		ID:        string(j.ID),
		Company:   j.Company,
		Position:  j.Position,
		Status:    string(j.Status),
		CreatedBy: string(j.CreatedBy),
		CreatedAt: j.CreatedAt.UTC(),
		UpdatedAt: j.UpdatedAt.UTC(),
	}
}
