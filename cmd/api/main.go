// @title        Task Manager API
// @version      1.0
// @description  Per-user task lists behind JWT bearer authentication.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskboard/task-manager/internal/api"
	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/ports"
	"github.com/taskboard/task-manager/internal/core/service"
	mongostore "github.com/taskboard/task-manager/internal/infrastructure/db/mongo"
	pgstore "github.com/taskboard/task-manager/internal/infrastructure/db/postgres"
	redisstore "github.com/taskboard/task-manager/internal/infrastructure/db/redis"
	"github.com/taskboard/task-manager/internal/infrastructure/http/handlers"
	"github.com/taskboard/task-manager/internal/pkg/config"
	"github.com/taskboard/task-manager/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores is the persistence wiring selected by STORE_DRIVER.
type stores struct {
	users  ports.AuthRepository
	tasks  ports.TaskRepository
	checks []handlers.Check
	close  func()
}

func main() {
	cfg := config.MustLoad()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "task-manager",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := service.NewTokenService(cfg.JWT.Key, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer st.close()

	var idem ports.IdempotencyStore
	checks := st.checks
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		idem = redisstore.NewIdempotencyStore(rdb)
		checks = append(checks, handlers.Check{Name: "redis", Ping: redisstore.Ping(rdb)})
	} else {
		log.Info().Msg("REDIS_ADDR empty, Idempotency-Key support disabled")
	}

	e := api.NewRouter(api.Dependencies{
		Logger:         log,
		AuthService:    service.NewAuthService(st.users, tokens, domain.PasswordPolicy(cfg.PasswordPolicy), log),
		TaskService:    service.NewTaskService(st.tasks, st.users, idem, log),
		Tokens:         tokens,
		Readiness:      handlers.NewHealthDependenciesHandler(checks...),
		AllowedOrigins: cfg.AllowedOrigins,
		DetailedErrors: cfg.DetailedErrors,
		EnableSwagger:  cfg.IsDevelopment(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	log := logger.Get()
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &stores{
			users:  mongostore.NewAuthRepository(db),
			tasks:  mongostore.NewTaskRepository(db),
			checks: []handlers.Check{{Name: "mongodb", Ping: mongostore.Ping(db)}},
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("connected to postgres")
		return &stores{
			users:  pgstore.NewUserRepository(pool),
			tasks:  pgstore.NewTaskRepository(pool),
			checks: []handlers.Check{{Name: "postgres", Ping: pool.Ping}},
			close:  pool.Close,
		}, nil
	}
}
