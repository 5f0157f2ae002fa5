package jobrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore"
	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

// Repo is a gorm implementation of jobrepo.Repository (SQLite and MySQL).
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]jobrepo.Job, error) {
	var rows []gormstore.JobModel
	err := r.db.WithContext(ctx).
		Where("created_by = ?", string(owner)).
		Order("created_by ASC, created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]jobrepo.Job, 0, len(rows))
	for _, row := range rows {
		out = append(out, toJob(row))
	}
	return out, nil
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	row, err := findOwned(r.db.WithContext(ctx), id, owner)
	if err != nil {
		return jobrepo.Job{}, err
	}
	return toJob(row), nil
}

func (r *Repo) Create(ctx context.Context, j jobrepo.Job) (jobrepo.Job, error) {
	if err := j.Validate(); err != nil {
		return jobrepo.Job{}, err
	}
	if j.ID == "" {
		return jobrepo.Job{}, jobrepo.ErrAlreadyExists
	}
	row := fromJob(j)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jobrepo.Job{}, jobrepo.ErrAlreadyExists
		}
		return jobrepo.Job{}, err
	}
	return toJob(row), nil
}

func (r *Repo) UpdateByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID, p jobrepo.Patch) (jobrepo.Job, error) {
	var out jobrepo.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findOwned(lockForUpdate(tx), id, owner)
		if err != nil {
			return err
		}
		merged := p.Apply(toJob(row))
		if err := merged.Validate(); err != nil {
			return err
		}
		err = tx.Model(&gormstore.JobModel{}).
			Where("id = ? AND created_by = ?", string(id), string(owner)).
			Updates(map[string]any{
				"company":    merged.Company,
				"position":   merged.Position,
				"status":     string(merged.Status),
				"updated_at": merged.UpdatedAt.UTC(),
			}).Error
		if err != nil {
			return err
		}
		out = merged
		return nil
	})
	if err != nil {
		return jobrepo.Job{}, err
	}
	return out, nil
}

func (r *Repo) DeleteByIDAndOwner(ctx context.Context, id domain.JobID, owner domain.UserID) (jobrepo.Job, error) {
	var out jobrepo.Job
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findOwned(lockForUpdate(tx), id, owner)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND created_by = ?", string(id), string(owner)).Delete(&gormstore.JobModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return jobrepo.ErrNotFound
		}
		out = toJob(row)
		return nil
	})
	if err != nil {
		return jobrepo.Job{}, err
	}
	return out, nil
}

func findOwned(db *gorm.DB, id domain.JobID, owner domain.UserID) (gormstore.JobModel, error) {
	var row gormstore.JobModel
	err := db.Where("id = ? AND created_by = ?", string(id), string(owner)).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gormstore.JobModel{}, jobrepo.ErrNotFound
		}
		return gormstore.JobModel{}, err
	}
	return row, nil
}

// SQLite has no row locks; its single writer connection already serializes updates.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func fromJob(j jobrepo.Job) gormstore.JobModel {
	return gormstore.JobModel{
		ID:        string(j.ID),
		Company:   j.Company,
		Position:  j.Position,
		Status:    string(j.Status),
		CreatedBy: string(j.CreatedBy),
		CreatedAt: j.CreatedAt.UTC(),
		UpdatedAt: j.UpdatedAt.UTC(),
	}
}

func toJob(m gormstore.JobModel) jobrepo.Job {
	return jobrepo.Job{
		ID:        domain.JobID(m.ID),
		Company:   m.Company,
		Position:  m.Position,
		Status:    domain.JobStatus(m.Status),
		CreatedBy: domain.UserID(m.CreatedBy),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}
