package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vouch/internal/authz"
	"vouch/internal/command"
	"vouch/internal/health"
	"vouch/internal/platform/config"
	"vouch/internal/platform/httpserver"
	"vouch/internal/platform/logger"
	"vouch/internal/platform/metrics"
	"vouch/internal/platform/postgres"
	platformredis "vouch/internal/platform/redis"
	"vouch/internal/poller"
	"vouch/internal/telegram"
	"vouch/internal/verification"
	"vouch/internal/verification/store"
)

// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in internal packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Missing credentials are the one unrecoverable startup failure.
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, storeCheck, closeStore, err := buildStore(ctx, cfg, log, m)
	if err != nil {
		log.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	tg, err := telegram.New(cfg.TelegramToken, cfg.PollTimeout, log)
	if err != nil {
		log.Error("telegram setup failed", "error", err)
		os.Exit(1)
	}

	verifier := verification.New(st, log)
	registry := authz.New(cfg.OwnerID)
	router := command.NewRouter(verifier, registry, log, m)
	processor := command.NewProcessor(router, tg, log)

	supervisor := poller.NewSupervisor(tg, processor, log,
		poller.WithBackoff(cfg.PollBackoff),
		poller.WithMetrics(m),
	)
	supervisor.Start(ctx)
	monitor := poller.NewMonitor(supervisor, cfg.MonitorInterval, log, m)

	healthOpts := []health.Option{}
	if storeCheck != nil {
		healthOpts = append(healthOpts, health.WithStoreCheck(storeCheck))
	}
	srv := httpserver.New(cfg.Addr, health.New(monitor, healthOpts...).Router())
	log.Info("vouch bot starting", "addr", cfg.Addr, "owner_id", cfg.OwnerID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		monitor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStore picks the record backend from configuration: Redis when
// REDIS_URL is set, Postgres when POSTGRES_DSN is, otherwise in-memory.
// The returned check reports backend reachability for the health surface;
// it is nil for the in-memory store, which has nothing to reach.
func buildStore(ctx context.Context, cfg config.Config, log *slog.Logger, m *metrics.Metrics) (store.Store, func(ctx context.Context) error, func(), error) {
	switch {
	case cfg.RedisURL != "":
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewRedis(client.Client, m), client.Health, func() { _ = client.Close() }, nil
	case cfg.PostgresDSN != "":
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		pg := store.NewPostgres(db, m)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return pg, db.PingContext, func() { _ = db.Close() }, nil
	default:
		log.Warn("no REDIS_URL or POSTGRES_DSN configured, records will not survive restarts")
		return store.NewInMemory(), nil, func() {}, nil
	}
}
