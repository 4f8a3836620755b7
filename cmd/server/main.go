package main // Entry point of the booking service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-booking-client/internal/auth"
	"github.com/iliyamo/movie-booking-client/internal/config"
	"github.com/iliyamo/movie-booking-client/internal/database"
	"github.com/iliyamo/movie-booking-client/internal/handler"
	"github.com/iliyamo/movie-booking-client/internal/history"
	"github.com/iliyamo/movie-booking-client/internal/logging"
	"github.com/iliyamo/movie-booking-client/internal/remote"
	"github.com/iliyamo/movie-booking-client/internal/router"
	"github.com/iliyamo/movie-booking-client/internal/seatmap"
	"github.com/iliyamo/movie-booking-client/internal/service"
	"github.com/iliyamo/movie-booking-client/internal/session"
	"github.com/iliyamo/movie-booking-client/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.New("booking", cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Validator = handler.NewRequestValidator()

	// Redis is optional unless it backs the visitor store.
	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		if cfg.StorageBackend == config.BackendRedis {
			logger.Fatalf("redis unavailable: %v", err)
		}
		logger.Warnj(log.JSON{"event": "redis_unavailable", "error": err.Error()})
	} else {
		defer rdb.Close()
	}

	var db *sql.DB
	var store storage.Store
	switch cfg.StorageBackend {
	case config.BackendRedis:
		store = storage.NewRedis(rdb, cfg.StoragePrefix, cfg.StorageTTL)
	case config.BackendMySQL:
		if db, err = database.Open(cfg.DB); err != nil {
			logger.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		m := storage.NewMySQL(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = m.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Fatalf("migrate kv_store: %v", err)
		}
		store = m
	default:
		store = storage.NewMemory()
	}

	api, err := remote.New(remote.Config{
		BaseURL:  cfg.APIBaseURL,
		APIToken: cfg.APIToken,
		Group:    cfg.APIGroup,
		Timeout:  cfg.APITimeout,
	}, nil, logging.New("remote", cfg.LogLevel))
	if err != nil {
		logger.Fatalf("movie api client: %v", err)
	}

	sessions := auth.NewSessions(cfg.IdleTimeout, logger)

	var builderOpts []seatmap.Option
	if cfg.DemoOverlay {
		builderOpts = append(builderOpts, seatmap.WithDemoOverlay())
	}
	registry := session.NewRegistry(
		seatmap.NewBuilder(builderOpts...),
		logging.New("session", cfg.LogLevel),
		session.WithHoldDuration(cfg.HoldDuration),
	)

	// A typed nil publisher would defeat the nil check in the submitter.
	var publisher session.ReceiptPublisher
	if cfg.ReceiptsEnabled {
		publisher = service.NewReceiptPublisher(cfg.AMQPURL, logger)
	}
	submitter := session.NewSubmitter(api, sessions, publisher, logger)

	// Same for the redis interfaces the middleware take.
	var cacheRDB redis.Cmdable
	var limitRDB redis.Scripter
	if rdb != nil {
		cacheRDB, limitRDB = rdb, rdb
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg.JWTSecret, cfg.VisitorTTL, api, sessions, store, logger), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(api), config.LoadCacheConfig(), cacheRDB)
	router.RegisterSession(e,
		handler.NewSessionHandler(api, registry, submitter, sessions, store, logger),
		cfg.JWTSecret, config.LoadRateLimitConfig(), limitRDB)
	router.RegisterProfile(e,
		handler.NewProfileHandler(api, sessions, history.NewService(api, logger), store, logger),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Infoj(log.JSON{"event": "listening", "addr": addr, "env": cfg.Env, "storage": cfg.StorageBackend})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	registry.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Errorj(log.JSON{"event": "shutdown_failed", "error": err.Error()})
	}
}
