package barstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/poolscreen/internal/infra/metrics"
)

type Handler struct {
	store Store
	log   *slog.Logger
	m     *metrics.Store
}

func NewHandler(store Store, log *slog.Logger, m *metrics.Store) *Handler {
	return &Handler{store: store, log: log, m: m}
}

func decode(body []byte) (Bar, error) {
	if len(body) == 0 {
		return Bar{}, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	var req addRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return Bar{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return req.bar()
}

// AddBar POST /add_bar.
func (h *Handler) AddBar(c fiber.Ctx) error {
	b, err := decode(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	all, err := h.store.Add(c.Context(), b)
	if err != nil {
		h.log.Error("add bar", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}
	h.m.Added(len(all))
	h.log.Debug("bar stored", "type", b.Type, "length", b.Length, "total", len(all))
	return c.JSON(fiber.Map{"message": "Bar added successfully", "bars": all})
}

// GetBars GET /get_bars.
func (h *Handler) GetBars(c fiber.Ctx) error {
	all, err := h.store.List(c.Context())
	if err != nil {
		h.log.Error("list bars", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}
	return c.JSON(all)
}

// ClearBars POST /clear_bars.
func (h *Handler) ClearBars(c fiber.Ctx) error {
	if err := h.store.Clear(c.Context()); err != nil {
		h.log.Error("clear bars", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage failure"})
	}
	h.m.Cleared()
	return c.JSON(fiber.Map{"message": "All bars cleared"})
}

func (h *Handler) ready(c fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AccessLog    bool
	Gatherer     prometheus.Gatherer
}

// NewApp собирает fiber-приложение хранилища.
func NewApp(h *Handler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AppName:      cfg.Name,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", h.ready)

	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/add_bar", h.AddBar)
	app.Get("/get_bars", h.GetBars)
	app.Post("/clear_bars", h.ClearBars)

	return app
}
