package jobrepo

import "errors"

var (
	// ErrNotFound indicates the job does not exist or is owned by another user.
	// Callers must not distinguish the two cases.
	ErrNotFound = errors.New("job not found")

	// ErrAlreadyExists indicates a job already exists with the provided ID.
	ErrAlreadyExists = errors.New("job already exists")
)
