package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Spok95/poolscreen/internal/session"
)

const (
	DefaultQueueSize = 64
	DefaultTimeout   = 3 * time.Second

	maxResponseBody = 1 << 20
)

var ErrClosed = errors.New("forwarder: closed")

// DeliveryError событие не доставлено. Повторов нет.
type DeliveryError struct {
	URL    string
	Status int
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("forwarder: deliver to %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("forwarder: deliver to %s: %v", e.URL, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Observer счётчики исходов доставки.
type Observer interface {
	Delivered()
	Dropped()
	Failed()
}

type nopObserver struct{}

func (nopObserver) Delivered() {}
func (nopObserver) Dropped()   {}
func (nopObserver) Failed()    {}

// Forwarder отправляет события о новых брусьях во внешнее хранилище.
// Publish не блокирует: при полной очереди событие теряется.
type Forwarder struct {
	url    string
	client *http.Client
	log    *slog.Logger
	obs    Observer

	queue chan session.Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Forwarder)

func WithQueueSize(n int) Option {
	return func(f *Forwarder) {
		if n > 0 {
			f.queue = make(chan session.Event, n)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(f *Forwarder) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option { return func(f *Forwarder) { f.client = c } }

func WithLogger(l *slog.Logger) Option { return func(f *Forwarder) { f.log = l } }

func WithObserver(o Observer) Option { return func(f *Forwarder) { f.obs = o } }

// New запускает воркер, разбирающий очередь.
func New(url string, opts ...Option) *Forwarder {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Forwarder{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
		log:    slog.Default(),
		obs:    nopObserver{},
		queue:  make(chan session.Event, DefaultQueueSize),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, o := range opts {
		o(f)
	}
	go f.run()
	return f
}

// Publish ставит событие в очередь.
func (f *Forwarder) Publish(e session.Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		f.drop(e, "closed")
		return
	}
	select {
	case f.queue <- e:
	default:
		f.drop(e, "queue full")
	}
}

func (f *Forwarder) drop(e session.Event, reason string) {
	f.obs.Dropped()
	f.log.Warn("forwarder: event dropped", "reason", reason, "bar_type", e.BarType, "length", e.Length)
}

func (f *Forwarder) run() {
	defer close(f.done)
	for e := range f.queue {
		// После истечения срока Close остаток очереди не отправляем
		if f.ctx.Err() != nil {
			f.drop(e, "shutdown")
			continue
		}
		if err := f.Send(f.ctx, e); err != nil {
			if f.ctx.Err() != nil {
				f.drop(e, "shutdown")
				continue
			}
			f.obs.Failed()
			f.log.Error("forwarder: delivery failed", "bar_type", e.BarType, "err", err)
			continue
		}
		f.obs.Delivered()
	}
}

// Send одна попытка доставки. Любая ошибка возвращается как *DeliveryError.
func (f *Forwarder) Send(ctx context.Context, e session.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return &DeliveryError{URL: f.url, Err: fmt.Errorf("encode event: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{URL: f.url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return &DeliveryError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return &DeliveryError{URL: f.url, Status: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	var reply json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&reply); err != nil {
		return &DeliveryError{URL: f.url, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	f.log.Debug("forwarder: delivered", "bar_type", e.BarType, "status", resp.StatusCode)
	return nil
}

// Close перестаёт принимать события и дожидается отправки очереди.
// По истечении ctx незавершённые запросы отменяются.
func (f *Forwarder) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.closed = true
	close(f.queue)
	f.mu.Unlock()

	select {
	case <-f.done:
		f.cancel()
		return nil
	case <-ctx.Done():
		f.cancel()
		<-f.done
		return ctx.Err()
	}
}
