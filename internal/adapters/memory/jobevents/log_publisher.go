package jobevents

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobevents"
)

// LogPublisher writes events to the log at debug level.
// It is the publisher used when no broker is configured.
type LogPublisher struct {
	Log logrus.FieldLogger
}

func (p LogPublisher) Publish(ctx context.Context, e jobevents.Event) error {
	_ = ctx
	if p.Log == nil {
		return nil
	}
	p.Log.WithFields(logrus.Fields{
		"event":       string(e.Type),
		"job_id":      string(e.JobID),
		"user_id":     string(e.UserID),
		"occurred_at": e.OccurredAt,
	}).Debug("job event")
	return nil
}
