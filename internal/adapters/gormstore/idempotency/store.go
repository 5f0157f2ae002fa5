package idempotency

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore"
	"github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
)

// Store is a gorm implementation of idempotency.Store.
// Records older than TTL are treated as absent.
type Store struct {
	db  *gorm.DB
	TTL time.Duration
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, TTL: 24 * time.Hour}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	var row gormstore.IdempotencyModel
	err := s.db.WithContext(ctx).
		Where("idempotency_key = ? AND user_id = ? AND method = ? AND route = ? AND body_hash = ?",
			string(fp.Key), string(fp.UserID), fp.Method, fp.Route, fp.BodyHash).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return idempotency.Record{}, false, nil
		}
		return idempotency.Record{}, false, err
	}
	rec := idempotency.Record{
		StatusCode:  row.StatusCode,
		ContentType: row.ContentType,
		Body:        row.Body,
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if s.TTL > 0 && time.Since(rec.CreatedAt) > s.TTL {
		return idempotency.Record{}, false, nil
	}
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	body := rec.Body
	if body == nil {
		body = []byte{}
	}
	row := gormstore.IdempotencyModel{
		IdempotencyKey: string(fp.Key),
		UserID:         string(fp.UserID),
		Method:         fp.Method,
		Route:          fp.Route,
		BodyHash:       fp.BodyHash,
		StatusCode:     rec.StatusCode,
		ContentType:    rec.ContentType,
		Body:           body,
		CreatedAt:      createdAt.UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&row).Error
}
