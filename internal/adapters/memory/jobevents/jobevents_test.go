package jobevents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobevents"
)

func TestRecorder_KeepsEventsAndReturnsErr(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	e := jobevents.Event{Type: jobevents.TypeCreated, JobID: "j-1", UserID: "u-1", OccurredAt: time.Unix(10, 0).UTC()}
	if err := r.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish() err=%v", err)
	}

	r.Err = errors.New("broker down")
	if err := r.Publish(context.Background(), e); err == nil {
		t.Fatalf("expected configured error")
	}

	got := r.Events()
	if len(got) != 2 || got[0] != e {
		t.Fatalf("Events()=%v", got)
	}
	got[0].JobID = "mutated"
	if r.Events()[0].JobID != "j-1" {
		t.Fatalf("Events() must return a copy")
	}
}

func TestLogPublisher_LogsAtDebug(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	p := LogPublisher{Log: log}
	if err := p.Publish(context.Background(), jobevents.Event{Type: jobevents.TypeDeleted, JobID: "j-1", UserID: "u-1"}); err != nil {
		t.Fatalf("Publish() err=%v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.DebugLevel || entry.Data["event"] != "job.deleted" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
}
