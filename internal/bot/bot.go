package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/poolscreen/internal/dialog"
	"github.com/Spok95/poolscreen/internal/domain/catalog"
	"github.com/Spok95/poolscreen/internal/domain/projects"
	"github.com/Spok95/poolscreen/internal/infra/metrics"
	"github.com/Spok95/poolscreen/internal/session"
)

// API часть tgbotapi.BotAPI, которой пользуется бот.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ProjectStore сохранение проектов. nil: команды /save и /load отключены.
type ProjectStore interface {
	Save(ctx context.Context, chatID int64, name string, recs []session.Record) (*projects.Project, error)
	Load(ctx context.Context, chatID int64) (*projects.Project, error)
}

type Deps struct {
	API         API
	Log         *slog.Logger
	Catalog     *catalog.Catalog
	States      dialog.Store
	Projects    ProjectStore
	Publisher   session.Publisher
	Metrics     *metrics.Designer
	AdminChatID int64
	// SessionTTL сколько хранить сессию чата без обращений; 0 не вытеснять.
	SessionTTL time.Duration
}

type Bot struct {
	api       API
	log       *slog.Logger
	cat       *catalog.Catalog
	states    dialog.Store
	projects  ProjectStore
	adminChat int64
	sessions  *registry
	ttl       time.Duration
}

func New(d Deps) *Bot {
	b := &Bot{
		api:       d.API,
		log:       d.Log,
		cat:       d.Catalog,
		states:    d.States,
		projects:  d.Projects,
		adminChat: d.AdminChatID,
		ttl:       d.SessionTTL,
	}
	if b.log == nil {
		b.log = slog.Default()
	}

	var opened, closed func()
	if d.Metrics != nil {
		opened, closed = d.Metrics.SessionOpened, d.Metrics.SessionClosed
	}
	b.sessions = newRegistry(func(chatID int64) *session.Session {
		opts := []session.Option{session.WithLogger(b.log.With("chat_id", chatID))}
		if d.Publisher != nil {
			opts = append(opts, session.WithPublisher(d.Publisher))
		}
		if d.Metrics != nil {
			opts = append(opts, session.WithListener(d.Metrics))
		}
		return session.New(b.cat, opts...)
	}, opened, closed)
	return b
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	var sweep <-chan time.Time
	if b.ttl > 0 {
		t := time.NewTicker(sweepInterval(b.ttl))
		defer t.Stop()
		sweep = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sweep:
			b.evictIdle()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		b.onMessage(ctx, upd)
	case upd.CallbackQuery != nil:
		b.onCallback(ctx, upd)
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery.Message == nil {
		return
	}
	b.handleCallback(ctx, upd.CallbackQuery)
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return time.Minute
}

func (b *Bot) evictIdle() {
	for _, chatID := range b.sessions.evictIdle(b.ttl) {
		b.log.Info("session evicted", "chat_id", chatID, "idle", b.ttl)
	}
}
