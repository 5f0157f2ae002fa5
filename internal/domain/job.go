package domain

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusInterview JobStatus = "interview"
	JobStatusDeclined  JobStatus = "declined"
)

// DefaultJobStatus is assigned when a job is created without a status.
const DefaultJobStatus = JobStatusPending

const (
	MaxCompanyLength  = 50
	MaxPositionLength = 100
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInterview, JobStatusDeclined:
		return true
	default:
		return false
	}
}

// Job is the domain representation of a tracked job application.
type Job struct {
	ID        JobID
	Company   string
	Position  string
	Status    JobStatus
	CreatedBy UserID

	CreatedAt time.Time
	UpdatedAt time.Time
}
