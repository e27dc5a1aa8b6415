package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/gruppenspiel/internal/catalog"
	"github.com/playperu/gruppenspiel/internal/config"
	"github.com/playperu/gruppenspiel/internal/database"
	"github.com/playperu/gruppenspiel/internal/engine"
	"github.com/playperu/gruppenspiel/internal/handler/health"
	"github.com/playperu/gruppenspiel/internal/migrations"
	"github.com/playperu/gruppenspiel/internal/persist"
	"github.com/playperu/gruppenspiel/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Storage ---
	kv, closeKV, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeKV()

	// --- Content ---
	content := catalog.New(catalog.Source(cfg.ContentDir))
	if err := content.Check(ctx); err != nil {
		return fmt.Errorf("opening content: %w", err)
	}
	if cfg.ContentDir == "" {
		logger.Info("using embedded content")
	} else {
		logger.Info("using content directory", "dir", cfg.ContentDir)
	}

	// --- Session ---
	saver := persist.NewSaver(kv, logger, persist.WithSaveTimeout(cfg.SaveTimeout))
	initial, ok := saver.Load(ctx)
	if !ok {
		initial = engine.DefaultGameState()
	}
	logger.Info("session loaded", "resumed", ok, "phase", initial.Phase, "teams", len(initial.Teams))

	broker := server.NewBroker()
	store := engine.NewStore(initial)
	store.Subscribe(saver.Listener())
	store.Subscribe(broker.Listener())

	host := engine.NewHost(store, content,
		engine.WithAdvanceDelay(cfg.AdvanceDelay),
		engine.WithLogger(logger),
	)
	defer host.Close()

	// --- HTTP Server ---
	app := server.App{
		Host:    host,
		Saver:   saver,
		Catalog: content,
		Broker:  broker,
		SPADir:  cfg.SPADir,
	}
	srv := server.New(cfg.HTTPAddr, logger, app, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
			string(cfg.Storage): kv,
			"content":           content,
		}).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openStorage builds the save-slot backend selected by STORAGE.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (persist.KV, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		applied, err := migrations.Run(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", applied)
		return persist.NewSQLiteKV(db), func() { db.Close() }, nil

	case config.StorageRedis:
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis", "prefix", cfg.RedisPrefix)
		return persist.NewRedisKV(rdb, cfg.RedisPrefix), func() { rdb.Close() }, nil

	default:
		logger.Warn("using in-memory storage, the session is lost on exit")
		return persist.NewMemoryKV(), func() {}, nil
	}
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
