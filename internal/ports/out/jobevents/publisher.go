package jobevents

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

type Type string

const (
	TypeCreated Type = "job.created"
	TypeUpdated Type = "job.updated"
	TypeDeleted Type = "job.deleted"
)

// Event describes a committed change to a job.
type Event struct {
	Type       Type          `json:"type"`
	JobID      domain.JobID  `json:"jobId"`
	UserID     domain.UserID `json:"userId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// Publisher delivers job events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
