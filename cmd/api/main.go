package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-mapty/internal/config"
	"backend-mapty/internal/db"
	"backend-mapty/internal/logging"
	"backend-mapty/internal/server"
	"backend-mapty/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	newLogger       func(level string) *zap.Logger
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, storage.KV, *redis.Client, *zap.Logger, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		newLogger:       logging.New,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	log := deps.newLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	rdb := deps.connectRedis(cfg)
	if rdb != nil {
		if err := db.PingRedis(context.Background(), rdb); err != nil {
			log.Warn("redis not reachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	}

	var pg *pgxpool.Pool
	if cfg.StorageBackend == config.BackendPostgres {
		var err error
		pg, err = deps.connectPostgres(cfg)
		if err != nil {
			log.Error("postgres connection failed", zap.Error(err))
			return
		}
		defer pg.Close()
	}

	kv, err := openStorage(cfg, rdb, pg)
	if err != nil {
		log.Error("storage unavailable", zap.String("backend", cfg.StorageBackend), zap.Error(err))
		return
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, kv, rdb, log, signals, nil); err != nil {
		log.Error("server exited with error", zap.Error(err))
	}
}

// openStorage keeps a nil *pgxpool.Pool from turning into a non-nil db.Querier.
func openStorage(cfg config.Config, rdb *redis.Client, pg *pgxpool.Pool) (storage.KV, error) {
	if pg == nil {
		return storage.Open(cfg, rdb, nil)
	}
	return storage.Open(cfg, rdb, pg)
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, kv storage.KV, rdb *redis.Client, log *zap.Logger, signals <-chan os.Signal, listen ListenFunc) error {
	if log == nil {
		log = zap.NewNop()
	}
	if kv == nil {
		kv = storage.NewMemory()
	}
	srv := server.NewServer(cfg, kv, rdb, log)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.ServerPort), zap.String("storage", cfg.StorageBackend))
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	_ = srv.Close()
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
