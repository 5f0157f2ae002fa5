package jobs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	clockport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobevents"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

type Service struct {
	repo jobrepo.Repository
	clk  clockport.Clock

	newJobID func() domain.JobID

	// Events receives a notification after each committed change. Optional.
	Events jobevents.Publisher
	// Log records failures that never reach the caller (event publishing).
	Log logrus.FieldLogger
}

func NewService(repo jobrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newJobID: func() domain.JobID {
			return domain.JobID(uuid.NewString())
		},
		Log: logrus.StandardLogger(),
	}
}

// ListJobs returns every job owned by the caller.
func (s *Service) ListJobs(ctx context.Context, caller domain.Identity) ([]domain.Job, error) {
	if caller.UserID == "" {
		return nil, Unauthenticated()
	}
	js, err := s.repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Job, 0, len(js))
	for _, j := range js {
		out = append(out, toDomain(j))
	}
	return out, nil
}

func (s *Service) GetJob(ctx context.Context, caller domain.Identity, id domain.JobID) (domain.Job, error) {
	if caller.UserID == "" {
		return domain.Job{}, Unauthenticated()
	}
	j, err := s.repo.GetByIDAndOwner(ctx, id, caller.UserID)
	if err != nil {
		return domain.Job{}, mapRepoError(err, id)
	}
	return toDomain(j), nil
}

// CreateJob stores a new job owned by the caller. Field validation is left to the store.
func (s *Service) CreateJob(ctx context.Context, caller domain.Identity, in CreateJobInput) (domain.Job, error) {
	if caller.UserID == "" {
		return domain.Job{}, Unauthenticated()
	}
	status := domain.DefaultJobStatus
	if in.Status.IsNull() {
		return domain.Job{}, badRequest("Status cannot be null", map[string]any{"status": "must not be null"})
	}
	if in.Status.IsSpecified() {
		status = in.Status.Value()
	}

	now := s.clk.Now()
	created, err := s.repo.Create(ctx, jobrepo.Job{
		ID:        s.newJobID(),
		Company:   domain.NormalizeJobField(in.Company),
		Position:  domain.NormalizeJobField(in.Position),
		Status:    status,
		CreatedBy: caller.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Job{}, mapRepoError(err, "")
	}

	s.publish(ctx, jobevents.TypeCreated, created)
	return toDomain(created), nil
}

// UpdateJob replaces company, position and optionally status.
//
// The non-empty check on company/position runs before any lookup, so a request with
// empty fields is rejected with BadRequest even for an unknown or foreign id.
func (s *Service) UpdateJob(ctx context.Context, caller domain.Identity, id domain.JobID, in UpdateJobInput) (domain.Job, error) {
	if caller.UserID == "" {
		return domain.Job{}, Unauthenticated()
	}
	company := domain.NormalizeJobField(in.Company)
	position := domain.NormalizeJobField(in.Position)
	if company == "" || position == "" {
		return domain.Job{}, badRequest("Company and Position cannot be empty", nil)
	}
	if in.Status.IsNull() {
		return domain.Job{}, badRequest("Status cannot be null", map[string]any{"status": "must not be null"})
	}

	p := jobrepo.Patch{
		Company:   &company,
		Position:  &position,
		UpdatedAt: s.clk.Now(),
	}
	if in.Status.IsSpecified() {
		st := in.Status.Value()
		p.Status = &st
	}

	updated, err := s.repo.UpdateByIDAndOwner(ctx, id, caller.UserID, p)
	if err != nil {
		return domain.Job{}, mapRepoError(err, id)
	}

	s.publish(ctx, jobevents.TypeUpdated, updated)
	return toDomain(updated), nil
}

// DeleteJob permanently removes a job owned by the caller and returns the removed record.
func (s *Service) DeleteJob(ctx context.Context, caller domain.Identity, id domain.JobID) (domain.Job, error) {
	if caller.UserID == "" {
		return domain.Job{}, Unauthenticated()
	}
	removed, err := s.repo.DeleteByIDAndOwner(ctx, id, caller.UserID)
	if err != nil {
		return domain.Job{}, mapRepoError(err, id)
	}

	s.publish(ctx, jobevents.TypeDeleted, removed)
	return toDomain(removed), nil
}

func (s *Service) publish(ctx context.Context, typ jobevents.Type, j jobrepo.Job) {
	if s.Events == nil {
		return
	}
	err := s.Events.Publish(ctx, jobevents.Event{
		Type:       typ,
		JobID:      j.ID,
		UserID:     j.CreatedBy,
		OccurredAt: s.clk.Now(),
	})
	if err != nil && s.Log != nil {
		s.Log.WithError(err).WithFields(logrus.Fields{
			"event":  string(typ),
			"job_id": string(j.ID),
		}).Warn("publish job event failed")
	}
}

func mapRepoError(err error, id domain.JobID) error {
	if errors.Is(err, jobrepo.ErrNotFound) {
		return notFound(string(id))
	}
	if ve := (*domain.ValidationError)(nil); errors.As(err, &ve) {
		return badRequest(ve.Error(), ve.Details())
	}
	return err
}

func toDomain(j jobrepo.Job) domain.Job {
	return domain.Job{
		ID:        j.ID,
		Company:   j.Company,
		Position:  j.Position,
		Status:    j.Status,
		CreatedBy: j.CreatedBy,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
