package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		UserID:   domain.UserID("user-1"),
		Method:   "POST",
		Route:    "/jobs",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"job":{}}`),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}
}

func TestStore_ExpiredRecordIsDropped(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := NewStore()
	s.TTL = time.Hour
	s.now = func() time.Time { return now }

	fp := idempotency.Fingerprint{Key: "k1", UserID: "user-1", Method: "POST", Route: "/jobs"}
	if err := s.Put(context.Background(), fp, idempotency.Record{
		StatusCode: 201,
		Body:       []byte("x"),
		CreatedAt:  now.Add(-2 * time.Hour),
	}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	if _, ok, err := s.Get(context.Background(), fp); err != nil || ok {
		t.Fatalf("Get() ok=%v err=%v, want expired miss", ok, err)
	}
}

func TestStore_DifferentUsersDoNotShareKeys(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k1", UserID: "user-1", Method: "POST", Route: "/jobs"}
	if err := s.Put(context.Background(), fp, idempotency.Record{StatusCode: 201, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	other := fp
	other.UserID = "user-2"
	if _, ok, _ := s.Get(context.Background(), other); ok {
		t.Fatalf("expected miss for another user")
	}
}
