package domain

// UserID is the authenticated user extracted from the token's "userId" claim.
// We model it as an opaque identifier: its format is controlled by the user service.
type UserID string

// JobID is an internal identifier for a job record.
type JobID string
