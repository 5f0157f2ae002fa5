package jobrepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/surreal"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

// Record ids and datetimes are projected to strings so rows decode into plain structs.
const projection = `
	meta::id(id) AS id,
	company,
	position,
	status,
	created_by,
	<string> created_at AS created_at,
	<string> updated_at AS updated_at
`

type jobRow struct {
	ID        string `json:"id"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Status    string `json:"status"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Repo is a SurrealDB implementation of jobrepo.Repository.
type Repo struct {
	db *surrealdb.DB
}

func NewRepo(db *surrealdb.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]jobrepo.Job, error) {
	rows, err := surreal.Query[[]jobRow](ctx, r.db,
		`SELECT `+projection+` FROM job WHERE created_by = $owner`,
		map[string]any{"owner": string(owner)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]jobrepo.Job, 0, len(rows))
	for _, row := range rows {
		j, err := row.toJob()
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	rows, err := surreal.Query[[]jobRow](ctx, r.db,
		`SELECT `+projection+` FROM type::thing('job', $id) WHERE created_by = $owner`,
		map[string]any{"id": string(id), "owner": string(owner)},
	)
	if err != nil {
		return jobrepo.Job{}, err
	}
	if len(rows) == 0 {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	return rows[0].toJob()
}

func (r *Repo) Create(ctx context.Context, j jobrepo.Job) (jobrepo.Job, error) {
	if err := j.Validate(); err != nil {
		return jobrepo.Job{}, err
	}
	if j.ID == "" {
		return jobrepo.Job{}, jobrepo.ErrAlreadyExists
	}
	_, err := surreal.Query[any](ctx, r.db, `
		CREATE type::thing('job', $id) CONTENT {
			company: $company,
			position: $position,
			status: $status,
			created_by: $created_by,
			created_at: <datetime> $created_at,
			updated_at: <datetime> $updated_at
		} RETURN NONE
	`, map[string]any{
		"id":         string(j.ID),
		"company":    j.Company,
		"position":   j.Position,
		"status":     string(j.Status),
		"created_by": string(j.CreatedBy),
		"created_at": formatTime(j.CreatedAt),
		"updated_at": formatTime(j.UpdatedAt),
	})
	if err != nil {
		if surreal.IsAlreadyExists(err) {
			return jobrepo.Job{}, jobrepo.ErrAlreadyExists
		}
		return jobrepo.Job{}, err
	}
	return r.GetByIDAndOwner(ctx, j.ID, j.CreatedBy)
}

func (r *Repo) UpdateByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID, p jobrepo.Patch) (jobrepo.Job, error) {
	existing, err := r.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return jobrepo.Job{}, err
	}
	merged := p.Apply(existing)
	if err := merged.Validate(); err != nil {
		return jobrepo.Job{}, err
	}

	rows, err := surreal.Query[[]jobRow](ctx, r.db, `
		UPDATE type::thing('job', $id) MERGE {
			company: $company,
			position: $position,
			status: $status,
			updated_at: <datetime> $updated_at
		} WHERE created_by = $owner RETURN NONE;
		SELECT `+projection+` FROM type::thing('job', $id) WHERE created_by = $owner;
	`, map[string]any{
		"id":         string(id),
		"owner":      string(owner),
		"company":    merged.Company,
		"position":   merged.Position,
		"status":     string(merged.Status),
		"updated_at": formatTime(merged.UpdatedAt),
	})
	if err != nil {
		return jobrepo.Job{}, err
	}
	if len(rows) == 0 {
		return jobrepo.Job{}, jobrepo.ErrNotFound
	}
	return rows[0].toJob()
}

func (r *Repo) DeleteByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	existing, err := r.GetByIDAndOwner(ctx, id, owner)
	if err != nil {
		return jobrepo.Job{}, err
	}
	if _, err := surreal.Query[any](ctx, r.db,
		`DELETE type::thing('job', $id) WHERE created_by = $owner RETURN NONE`,
		map[string]any{"id": string(id), "owner": string(owner)},
	); err != nil {
		return jobrepo.Job{}, err
	}
	return existing, nil
}

func (row jobRow) toJob() (jobrepo.Job, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return jobrepo.Job{}, fmt.Errorf("job %s created_at: %w", row.ID, err)
	}
	updatedAt, err := parseTime(row.UpdatedAt)
	if err != nil {
		return jobrepo.Job{}, fmt.Errorf("job %s updated_at: %w", row.ID, err)
	}
	return jobrepo.Job{
		ID:        domain.JobID(row.ID),
		Company:   row.Company,
		Position:  row.Position,
		Status:    domain.JobStatus(row.Status),
		CreatedBy: domain.UserID(row.CreatedBy),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts the cast output of a SurrealDB datetime, which may be quoted.
func parseTime(s string) (time.Time, error) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') {
		s = s[1 : len(s)-1]
	}
	s = trimDatetimePrefix(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func trimDatetimePrefix(s string) string {
	if len(s) > 3 && s[0] == 'd' && (s[1] == '\'' || s[1] == '"') {
		return s[2 : len(s)-1]
	}
	return s
}
