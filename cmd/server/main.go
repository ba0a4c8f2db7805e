// @title                       College Notice Board API
// @version                     1.0
// @description                 Notices for students, faculty and administrators.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusboard/notice-board/internal/api"
	"github.com/campusboard/notice-board/internal/api/handler"
	"github.com/campusboard/notice-board/internal/core/ports"
	"github.com/campusboard/notice-board/internal/core/service"
	"github.com/campusboard/notice-board/internal/infrastructure/db/memory"
	"github.com/campusboard/notice-board/internal/infrastructure/db/mongo"
	"github.com/campusboard/notice-board/internal/infrastructure/db/redis"
	"github.com/campusboard/notice-board/internal/pkg/config"
	"github.com/campusboard/notice-board/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Service: "notice-board"})
		boot.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "notice-board",
	})

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("storage unavailable")
	}
	defer st.close()

	tokens := service.NewTokenService(st.users, cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(st.users, tokens, log)
	noticeService := service.NewNoticeService(st.notices, st.keys, cfg.Location(), log)

	e := api.NewRouter(api.Deps{
		Notices:      noticeService,
		Auth:         authService,
		Tokens:       tokens,
		HealthChecks: st.checks,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// storage is the set of adapters selected by STORAGE.
type storage struct {
	users   ports.UserRepository
	notices ports.NoticeRepository
	keys    ports.IdempotencyStore
	checks  map[string]handler.HealthCheck
	close   func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		mem := memory.NewStore(nil)
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &storage{
			users:   mem.Users,
			notices: mem.Notices,
			keys:    mem.Keys,
			checks:  map[string]handler.HealthCheck{},
			close:   func() {},
		}, nil
	}

	ms, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	st := &storage{
		users:   ms.Users,
		notices: ms.Notices,
		checks: map[string]handler.HealthCheck{
			"mongo": func(ctx context.Context) error { return ms.Client.Ping(ctx, nil) },
		},
	}
	closers := []func(context.Context) error{ms.Close}

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// Idempotency keys are optional; notices are still served.
			log.Warn().Err(err).Msg("redis unavailable, idempotency keys disabled")
		} else {
			st.keys = redis.NewIdempotencyStore(rdb)
			st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			closers = append(closers, func(context.Context) error { return rdb.Close() })
		}
	}

	st.close = func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, c := range closers {
			if err := c(ctx); err != nil {
				log.Warn().Err(err).Msg("closing storage")
			}
		}
	}
	return st, nil
}
