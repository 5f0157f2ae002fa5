package jobrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

const jobColumns = `id, company, position, status, created_by, created_at, updated_at`

// Repo is a Postgres implementation of jobrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]jobrepo.Job, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE created_by = $1
		ORDER BY created_by ASC, created_at ASC, id ASC
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]jobrepo.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	if r.pool == nil {
		return jobrepo.Job{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = $1 AND created_by = $2
	`, uid, string(owner))
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobrepo.Job{}, jobrepo.ErrNotFound
		}
		return jobrepo.Job{}, err
	}
	return j, nil
}

func (r *Repo) Create(ctx context.Context, j jobrepo.Job) (jobrepo.Job, error) {
	if r.pool == nil {
		return jobrepo.Job{}, errors.New("nil postgres pool")
	}
	if err := j.Validate(); err != nil {
		return jobrepo.Job{}, err
	}
	uid, err := uuid.Parse(string(j.ID))
	if err != nil {
		return jobrepo.Job{}, jobrepo.ErrAlreadyExists
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+jobColumns+`
	`,
		uid,
		j.Company,
		j.Position,
		string(j.Status),
		string(j.CreatedBy),
		j.CreatedAt.UTC(),
		j.UpdatedAt.UTC(),
	)
	out, err := scanJob(row)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return jobrepo.Job{}, jobrepo.ErrAlreadyExists
		}
		return jobrepo.Job{}, err
	}
	return out, nil
}

func (r *Repo) UpdateByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID, p jobrepo.Patch) (jobrepo.Job, error) {
	if r.pool == nil {
		return jobrepo.Job{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}

	var out jobrepo.Job
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanJob(tx.QueryRow(ctx, `
			SELECT `+jobColumns+`
			FROM jobs
			WHERE id = $1 AND created_by = $2
			FOR UPDATE
		`, uid, string(owner)))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return jobrepo.ErrNotFound
			}
			return err
		}

		merged := p.Apply(existing)
		if err := merged.Validate(); err != nil {
			return err
		}

		updated, err := scanJob(tx.QueryRow(ctx, `
			UPDATE jobs
			SET company = $3, position = $4, status = $5, updated_at = $6
			WHERE id = $1 AND created_by = $2
			RETURNING `+jobColumns+`
		`,
			uid,
			string(owner),
			merged.Company,
			merged.Position,
			string(merged.Status),
			merged.UpdatedAt.UTC(),
		))
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		return jobrepo.Job{}, err
	}
	return out, nil
}

func (r *Repo) DeleteByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	if r.pool == nil {
		return jobrepo.Job{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		DELETE FROM jobs
		WHERE id = $1 AND created_by = $2
		RETURNING `+jobColumns+`
	`, uid, string(owner))
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobrepo.Job{}, jobrepo.ErrNotFound
		}
		return jobrepo.Job{}, err
	}
	return j, nil
}

func scanJob(row pgx.Row) (jobrepo.Job, error) {
	var (
		id        uuid.UUID
		company   string
		position  string
		status    string
		createdBy string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &company, &position, &status, &createdBy, &createdAt, &updatedAt); err != nil {
		return jobrepo.Job{}, err
	}
	return jobrepo.Job{
		ID:        domain.JobID(id.String()),
		Company:   company,
		Position:  position,
		Status:    domain.JobStatus(status),
		CreatedBy: domain.UserID(createdBy),
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
