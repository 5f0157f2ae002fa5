package idempotency

import (
	"context"
	"time"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes.
//
// Strategy: key + route + user + request body hash.
// Route is represented as HTTP method + path template (e.g. "POST /jobs").
// A record stored with an empty BodyHash holds the hash of the first body seen for the key.
type Fingerprint struct {
	Key      Key
	UserID   domain.UserID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records for replaying safe responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
