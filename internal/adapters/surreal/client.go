package surreal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

var (
	ErrConnection = errors.New("surreal: connection error")
	ErrQuery      = errors.New("surreal: query error")
)

// Config holds the SurrealDB connection settings.
type Config struct {
	URL       string
	Namespace string
	Database  string
	User      string
	Password  string
}

// Connect opens a connection, signs in and selects the namespace/database.
func Connect(ctx context.Context, cfg Config) (*surrealdb.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: empty SURREAL_URL", ErrConnection)
	}
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if cfg.User != "" {
		if _, err := db.SignIn(ctx, &surrealdb.Auth{
			Username: cfg.User,
			Password: cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}
	return db, nil
}

// Ping checks the connection by asking the server for its version.
func Ping(ctx context.Context, db *surrealdb.DB) error {
	if db == nil {
		return ErrConnection
	}
	if _, err := db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

const schemaQL = `
DEFINE TABLE IF NOT EXISTS job SCHEMALESS;
DEFINE INDEX IF NOT EXISTS job_created_by ON job FIELDS created_by;
`

// EnsureSchema defines the job table and its owner index.
func EnsureSchema(ctx context.Context, db *surrealdb.DB) error {
	_, err := Query[any](ctx, db, schemaQL, nil)
	return err
}

// Query runs a statement and returns the result of the last one.
// Any statement that did not report OK fails the whole call.
func Query[T any](ctx context.Context, db *surrealdb.DB, ql string, vars map[string]any) (T, error) {
	var zero T
	if db == nil {
		return zero, ErrConnection
	}
	results, err := surrealdb.Query[T](ctx, db, ql, vars)
	if err != nil {
		// Keeps *surrealdb.QueryError in the chain for IsAlreadyExists.
		return zero, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	if results == nil || len(*results) == 0 {
		return zero, nil
	}
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return zero, fmt.Errorf("%w: %w", ErrQuery, r.Error)
			}
			return zero, ErrQuery
		}
	}
	return (*results)[len(*results)-1].Result, nil
}

// IsAlreadyExists reports whether err is a statement error raised because the record id
// is taken.
//
// The driver's *surrealdb.QueryError carries only the server's message, with no code, so
// the check is limited to that error's text. Transport and decoding failures never match.
// Server wording is "Database record `job:<id>` already exists" up to 2.x; recheck it when
// upgrading SurrealDB.
func IsAlreadyExists(err error) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *surrealdb.QueryError:
		return e != nil && strings.Contains(e.Message, "already exists")
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if IsAlreadyExists(inner) {
				return true
			}
		}
		return false
	default:
		return IsAlreadyExists(errors.Unwrap(err))
	}
}
