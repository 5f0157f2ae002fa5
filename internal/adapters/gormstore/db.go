package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options configures how gorm connections are opened.
type Options struct {
	// Log receives gorm's slow-query and error output. Nil silences gorm.
	Log           logrus.FieldLogger
	SlowThreshold time.Duration
}

func gormConfig(opts Options) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if opts.Log == nil {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
		return cfg
	}
	slow := opts.SlowThreshold
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	cfg.Logger = logger.New(opts.Log, logger.Config{
		SlowThreshold:             slow,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	return cfg
}

// OpenSQLite opens (or creates) a SQLite database at path. ":memory:" is accepted.
// SQLite serializes writers, so the pool is pinned to a single connection.
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("gormstore: empty SQLITE_PATH")
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("gormstore: open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormstore: sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenMySQL opens a MySQL connection. parseTime=true is required in the DSN.
func OpenMySQL(dsn string, opts Options) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("gormstore: empty MYSQL_DSN")
	}
	db, err := gorm.Open(mysql.Open(dsn), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("gormstore: open mysql: %w", err)
	}
	return db, nil
}

// Migrate creates the tables this service needs.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&JobModel{}, &IdempotencyModel{})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// JobModel is the gorm mapping of the jobs table.
type JobModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Company   string    `gorm:"size:50;not null"`
	Position  string    `gorm:"size:100;not null"`
	Status    string    `gorm:"size:16;not null;default:pending"`
	CreatedBy string    `gorm:"index:idx_jobs_owner,priority:1;size:255;not null"`
	CreatedAt time.Time `gorm:"index:idx_jobs_owner,priority:2;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (JobModel) TableName() string { return "jobs" }

// IdempotencyModel is the gorm mapping of the idempotency_keys table.
type IdempotencyModel struct {
	IdempotencyKey string    `gorm:"primaryKey;size:255"`
	UserID         string    `gorm:"primaryKey;size:255"`
	Method         string    `gorm:"primaryKey;size:16"`
	Route          string    `gorm:"primaryKey;size:255"`
	BodyHash       string    `gorm:"primaryKey;size:64"`
	StatusCode     int       `gorm:"not null"`
	ContentType    string    `gorm:"size:255;not null"`
	Body           []byte    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime:false"`
}

func (IdempotencyModel) TableName() string { return "idempotency_keys" }
