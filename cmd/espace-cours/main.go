// Package main provides the espace-cours admin command. It drives the
// session manager against the configured record store.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/creastat/espace-cours/config"
	"github.com/creastat/espace-cours/session"
	"github.com/creastat/espace-cours/session/drivers"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()

	a := newApp(cfg, store, logger, stdout)
	return a.dispatch(ctx, args)
}

// openStore builds the store selected by cfg.Store.
func openStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Store {
	case drivers.StoreTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return drivers.NewStore(drivers.StoreTypeRedis,
			drivers.WithRedisClient(client),
			drivers.WithRedisTTL(cfg.Redis.TTL),
			drivers.WithKeyPrefix(cfg.Redis.KeyPrefix),
		)

	case drivers.StoreTypePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		store := drivers.NewPostgresStore(db, cfg.Postgres.Table)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil

	default:
		return drivers.NewStore(cfg.Store)
	}
}
