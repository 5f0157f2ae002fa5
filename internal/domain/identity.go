package domain

// Identity is the verified caller of a request.
//
// It is produced only by token verification and never read from a request body or query.
type Identity struct {
	UserID UserID
	Name   string
}
