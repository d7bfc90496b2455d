package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/poolscreen/internal/barstore"
	"github.com/Spok95/poolscreen/internal/config"
	"github.com/Spok95/poolscreen/internal/infra/logger"
	"github.com/Spok95/poolscreen/internal/infra/metrics"
)

func openStore(ctx context.Context, path string, log *slog.Logger) (barstore.Store, error) {
	if path == "" {
		log.Info("using in-memory bar store")
		return barstore.NewMemory(), nil
	}
	log.Info("using sqlite bar store", "path", path)
	return barstore.OpenSQLite(ctx, path)
}

func main() {
	cfgPath := flag.String("config", "config/example.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.Component(logger.New(cfg.App.Env), "barstore")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Barstore.DBPath, log)
	if err != nil {
		log.Error("open store failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		gatherer = prometheus.DefaultGatherer
	}
	h := barstore.NewHandler(store, log, metrics.NewStore(prometheus.DefaultRegisterer))
	app := barstore.NewApp(h, barstore.AppConfig{
		Name:         "Bar Store",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		AccessLog:    true,
		Gatherer:     gatherer,
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Error("shutdown failed", "err", err)
		}
	}()

	log.Info("bar store started", "addr", cfg.Barstore.Addr)
	if err := app.Listen(cfg.Barstore.Addr); err != nil {
		log.Error("listen failed", "err", err)
		return
	}
	log.Info("graceful shutdown complete")
}
