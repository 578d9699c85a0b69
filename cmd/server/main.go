// @title                       SteelVault Project Dashboard API
// @version                     1.0
// @description                 Projects, clients, team and dashboard widgets for SteelVault.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/api"
	"github.com/steelvault/project-dashboard/internal/api/handler"
	"github.com/steelvault/project-dashboard/internal/api/metrics"
	"github.com/steelvault/project-dashboard/internal/api/middleware"
	"github.com/steelvault/project-dashboard/internal/core/gate"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
	"github.com/steelvault/project-dashboard/internal/core/service"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/memory"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/mongo"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/postgres"
	"github.com/steelvault/project-dashboard/internal/infrastructure/db/redis"
	"github.com/steelvault/project-dashboard/internal/pkg/config"
	"github.com/steelvault/project-dashboard/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "project-dashboard",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	resolver := schema.Default()
	if cfg.AliasesFile != "" {
		r, err := schema.LoadAliases(cfg.AliasesFile)
		if err != nil {
			return err
		}
		resolver = r
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	checks := map[string]handler.Check{}
	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	store, err := openStore(ctx, cfg, resolver, log, &cleanup)
	if err != nil {
		return err
	}
	checks["store"] = store.Ping

	var (
		tables   ports.TableStore = service.NewInstrumentedStore(store, m)
		sessions ports.SessionStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: 5 * time.Second})
		if err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

		sessions = redis.NewSessionStore(rdb)
		if cfg.Cache.TTL > 0 {
			tables = service.NewCachedStore(tables, redis.NewListCache(rdb), cfg.Cache.TTL, log)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions in redis")
	} else {
		sessions = memory.NewSessionStore()
		if cfg.Cache.TTL > 0 {
			tables = service.NewCachedStore(tables, memory.NewListCache(), cfg.Cache.TTL, log)
		}
		log.Warn().Msg("REDIS_ADDR not set, sessions are kept in process")
	}

	auth := service.NewAuthService(tables, sessions, resolver, service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.Auth.SessionTTL,
	}, log, m)
	team := service.NewTeamService(tables, resolver, log)

	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.Auth.LoginRatePerMinute), log)
	defer limiter.Stop()

	e := api.NewRouter(api.Dependencies{
		Auth:      auth,
		Dashboard: service.NewDashboardService(tables, resolver, log, m),
		Projects:  service.NewProjectService(tables, resolver, log),
		Clients:   service.NewClientService(tables, resolver, team, log),
		Team:      team,

		Gate:           gate.New(cfg.Gate.LoginPath, cfg.Gate.DefaultPath),
		Metrics:        m,
		Registry:       reg,
		LoginLimiter:   limiter,
		Checks:         checks,
		OtherThreshold: cfg.OtherThreshold,
		Log:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the table store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, resolver *schema.Resolver, log zerolog.Logger, cleanup *[]func()) (ports.TableStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: 10 * time.Second})
		if err != nil {
			return nil, err
		}
		*cleanup = append(*cleanup, func() { _ = client.Disconnect(context.Background()) })
		store := mongo.NewTableStore(db)
		if err := store.EnsureIndexes(ctx, resolver); err != nil {
			log.Warn().Err(err).Msg("mongo indexes not ensured")
		}
		return store, nil

	case config.DriverPostgres:
		if cfg.Postgres.MigrateOnStart {
			if err := postgres.RunMigrations(cfg.Postgres.DSN); err != nil {
				return nil, err
			}
			log.Info().Msg("postgres migrations applied")
		}
		db, err := postgres.Open(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			*cleanup = append(*cleanup, func() { _ = sqlDB.Close() })
		}
		return postgres.NewTableStore(db), nil

	case config.DriverMemory:
		log.Warn().Msg("memory store selected, data is lost on restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

