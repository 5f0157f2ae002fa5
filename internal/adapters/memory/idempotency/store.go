package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
)

// DefaultTTL bounds how long a stored response can be replayed.
const DefaultTTL = 24 * time.Hour

// Store is an in-memory implementation of idempotency.Store.
// It is safe for concurrent use. Expired records are dropped lazily on Get.
type Store struct {
	mu sync.Mutex
	m  map[idempotency.Fingerprint]idempotency.Record

	TTL time.Duration
	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		m:   make(map[idempotency.Fingerprint]idempotency.Record),
		TTL: DefaultTTL,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.TTL > 0 && !rec.CreatedAt.IsZero() && s.now().Sub(rec.CreatedAt) > s.TTL {
		delete(s.m, fp)
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[fp] = cloneRecord(rec)
	return nil
}

func cloneRecord(rec idempotency.Record) idempotency.Record {
	out := rec
	if rec.Body != nil {
		out.Body = append([]byte(nil), rec.Body...)
	}
	return out
}
