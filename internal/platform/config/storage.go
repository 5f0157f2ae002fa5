package config

import (
	"fmt"
	"os"
)

type StorageBackend string

const (
	StorageMemory   StorageBackend = "memory"
	StoragePostgres StorageBackend = "postgres"
	StorageSurreal  StorageBackend = "surreal"
	StorageSQLite   StorageBackend = "sqlite"
	StorageMySQL    StorageBackend = "mysql"
)

// StorageConfig selects the job store and carries the settings of each backend.
type StorageConfig struct {
	Backend StorageBackend

	DatabaseURL string

	SurrealURL       string
	SurrealNamespace string
	SurrealDatabase  string
	SurrealUser      string
	SurrealPassword  string

	SQLitePath string
	MySQLDSN   string
}

func LoadStorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		Backend:          StorageBackend(getenv("STORAGE_BACKEND", string(StorageMemory))),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SurrealURL:       os.Getenv("SURREAL_URL"),
		SurrealNamespace: getenv("SURREAL_NAMESPACE", "jobtracker"),
		SurrealDatabase:  getenv("SURREAL_DATABASE", "jobs"),
		SurrealUser:      os.Getenv("SURREAL_USER"),
		SurrealPassword:  os.Getenv("SURREAL_PASSWORD"),
		SQLitePath:       getenv("SQLITE_PATH", "jobs.db"),
		MySQLDSN:         os.Getenv("MYSQL_DSN"),
	}

	switch cfg.Backend {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return StorageConfig{}, fmt.Errorf("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
	case StorageSurreal:
		if cfg.SurrealURL == "" {
			return StorageConfig{}, fmt.Errorf("STORAGE_BACKEND=surreal requires SURREAL_URL")
		}
	case StorageMySQL:
		if cfg.MySQLDSN == "" {
			return StorageConfig{}, fmt.Errorf("STORAGE_BACKEND=mysql requires MYSQL_DSN")
		}
	default:
		return StorageConfig{}, fmt.Errorf("unknown STORAGE_BACKEND %q (memory|postgres|surreal|sqlite|mysql)", cfg.Backend)
	}
	return cfg, nil
}

// EventsConfig enables job event publishing when AMQPURL is set.
type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

func (c EventsConfig) Enabled() bool { return c.AMQPURL != "" }

func LoadEventsConfigFromEnv() EventsConfig {
	return EventsConfig{
		AMQPURL:  os.Getenv("AMQP_URL"),
		Exchange: getenv("AMQP_EXCHANGE", "jobs.events"),
	}
}
