package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	amqpjobevents "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/amqp/jobevents"
	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore"
	gormidempotency "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore/idempotency"
	gormjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/gormstore/jobrepo"
	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/memory/idempotency"
	memjobevents "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/memory/jobevents"
	memjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/memory/jobrepo"
	postgres "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres/idempotency"
	pgjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/postgres/jobrepo"
	"github.com/Overland-East-Bay/job-tracker-api/internal/adapters/surreal"
	surrealjobrepo "github.com/Overland-East-Bay/job-tracker-api/internal/adapters/surreal/jobrepo"
	"github.com/Overland-East-Bay/job-tracker-api/internal/app/jobs"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/Overland-East-Bay/job-tracker-api/internal/platform/clock"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/config"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/logging"
	idempotencyport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
	jobeventsport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobevents"
	jobrepoport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

func main() {
	// A missing .env is fine; the process environment wins either way.
	_ = godotenv.Load()

	serverCfg, err := config.LoadServerConfigFromEnv()
	if err != nil {
		logrus.Fatalf("invalid server config: %v", err)
	}
	log, err := logging.New(serverCfg.LogLevel, serverCfg.LogFormat)
	if err != nil {
		logrus.Fatalf("invalid logging config: %v", err)
	}

	jwtCfg, err := config.LoadJWTConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid auth config: %v", err)
	}
	authMW := httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))

	storageCfg, err := config.LoadStorageConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid storage config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobRepo, idemStore, closeStore, err := openStorage(ctx, storageCfg, log)
	if err != nil {
		log.WithError(err).WithField("backend", string(storageCfg.Backend)).Fatal("open storage")
	}
	defer closeStore()

	events, closeEvents := openEvents(config.LoadEventsConfigFromEnv(), log)
	defer closeEvents()

	svc := jobs.NewService(jobRepo, platformclock.NewSystemClock())
	svc.Events = events
	svc.Log = log

	api := httpapi.NewServer(svc, idemStore)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		BasePath:       serverCfg.BasePath,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":      serverCfg.Port,
			"base_path": serverCfg.BasePath,
			"backend":   string(storageCfg.Backend),
		}).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
}

func openStorage(ctx context.Context, cfg config.StorageConfig, log *logrus.Logger) (jobrepoport.Repository, idempotencyport.Store, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, nil, noop, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, noop, err
		}
		return pgjobrepo.NewRepo(pool), pgidempotency.NewStore(pool), pool.Close, nil

	case config.StorageSurreal:
		db, err := surreal.Connect(ctx, surreal.Config{
			URL:       cfg.SurrealURL,
			Namespace: cfg.SurrealNamespace,
			Database:  cfg.SurrealDatabase,
			User:      cfg.SurrealUser,
			Password:  cfg.SurrealPassword,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		closeDB := func() {
			if err := db.Close(context.Background()); err != nil {
				log.WithError(err).Warn("close surreal")
			}
		}
		if err := surreal.EnsureSchema(ctx, db); err != nil {
			closeDB()
			return nil, nil, noop, err
		}
		// Replay records stay in process for this backend.
		return surrealjobrepo.NewRepo(db), memidempotency.NewStore(), closeDB, nil

	case config.StorageSQLite, config.StorageMySQL:
		opts := gormstore.Options{Log: log}
		var (
			db  *gorm.DB
			err error
		)
		if cfg.Backend == config.StorageSQLite {
			db, err = gormstore.OpenSQLite(cfg.SQLitePath, opts)
		} else {
			db, err = gormstore.OpenMySQL(cfg.MySQLDSN, opts)
		}
		if err != nil {
			return nil, nil, noop, err
		}
		closeDB := func() {
			if err := gormstore.Close(db); err != nil {
				log.WithError(err).Warn("close database")
			}
		}
		if err := gormstore.Migrate(ctx, db); err != nil {
			closeDB()
			return nil, nil, noop, err
		}
		return gormjobrepo.NewRepo(db), gormidempotency.NewStore(db), closeDB, nil

	default:
		return memjobrepo.NewRepo(), memidempotency.NewStore(), noop, nil
	}
}

func openEvents(cfg config.EventsConfig, log *logrus.Logger) (jobeventsport.Publisher, func()) {
	fallback := memjobevents.LogPublisher{Log: log}
	if !cfg.Enabled() {
		return fallback, func() {}
	}
	pub, err := amqpjobevents.Dial(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		log.WithError(err).Warn("amqp unavailable; job events will only be logged")
		return fallback, func() {}
	}
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.WithError(err).Warn("close amqp publisher")
		}
	}
}
