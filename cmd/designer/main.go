package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Spok95/poolscreen/internal/bot"
	"github.com/Spok95/poolscreen/internal/config"
	"github.com/Spok95/poolscreen/internal/dialog"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/projects"
	"github.com/Spok95/poolscreen/internal/infra/db"
	"github.com/Spok95/poolscreen/internal/infra/forwarder"
	httpx "github.com/Spok95/poolscreen/internal/infra/http"
	"github.com/Spok95/poolscreen/internal/infra/logger"
	"github.com/Spok95/poolscreen/internal/infra/metrics"
	"github.com/Spok95/poolscreen/internal/session"
)

func loadCatalog(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (*catalog.Catalog, error) {
	if cfg.Catalog.Source != config.CatalogDB {
		return catalog.New(catalog.Default())
	}
	if pool == nil {
		return nil, errors.New("catalog.source=db requires postgres.dsn")
	}
	return catalog.NewRepo(pool).Load(ctx)
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var (
		pool   *pgxpool.Pool
		states dialog.Store = dialog.NewMemory()
		store  bot.ProjectStore
	)
	if cfg.Postgres.DSN != "" {
		if err := db.Migrate(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")

		var err error
		if pool, err = db.Connect(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()
		log.Info("db connected")

		states = dialog.NewRepo(pool)
		store = projects.NewRepo(pool)
	} else {
		log.Warn("postgres.dsn is empty: dialog state in memory, /save and /load disabled")
	}

	cat, err := loadCatalog(ctx, cfg, pool)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	log.Info("catalog loaded", "source", cfg.Catalog.Source, "types", cat.Len()-1)

	reg := prometheus.DefaultRegisterer
	designerMetrics := metrics.NewDesigner(reg)

	var (
		pub session.Publisher
		fwd *forwarder.Forwarder
	)
	if cfg.Forwarder.URL != "" {
		fwd = forwarder.New(cfg.Forwarder.URL,
			forwarder.WithQueueSize(cfg.Forwarder.QueueSize),
			forwarder.WithTimeout(cfg.Forwarder.Timeout),
			forwarder.WithLogger(logger.Component(log, "forwarder")),
			forwarder.WithObserver(metrics.NewForwarder(reg)),
		)
		pub = fwd
		log.Info("forwarding bars", "url", cfg.Forwarder.URL)
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		gatherer = prometheus.DefaultGatherer
	}
	var ready httpx.ReadyFunc
	if pool != nil {
		ready = pool.Ping
	}
	srv := httpx.New(cfg.HTTP.Addr, gatherer, ready)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	log.Info("authorized", "bot", api.Self.UserName)

	b := bot.New(bot.Deps{
		API:         api,
		Log:         logger.Component(log, "bot"),
		Catalog:     cat,
		States:      states,
		Projects:    store,
		Publisher:   pub,
		Metrics:     designerMetrics,
		AdminChatID: cfg.Telegram.AdminChatID,
		SessionTTL:  cfg.Telegram.SessionTTL,
	})

	runErr := b.Run(ctx, cfg.Telegram.TimeoutSec)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if fwd != nil {
		if err := fwd.Close(shutdownCtx); err != nil {
			log.Warn("forwarder close", "err", err)
		}
	}
	_ = srv.Shutdown(shutdownCtx)

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func main() {
	cfgPath := flag.String("config", "config/example.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("designer stopped", "err", err)
		os.Exit(1)
	}
	log.Info("graceful shutdown complete")
}
