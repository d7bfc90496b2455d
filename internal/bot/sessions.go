package bot

import (
	"sync"
	"time"

	"github.com/Spok95/poolscreen/internal/session"
)

// chatSession сессия одного чата. Session не потокобезопасна, доступ только под mu.
type chatSession struct {
	mu sync.Mutex
	s  *session.Session

	// под registry.mu
	refs int
	seen time.Time
}

type registry struct {
	mu     sync.Mutex
	chats  map[int64]*chatSession
	create func(chatID int64) *session.Session
	opened func()
	closed func()
	now    func() time.Time
}

func newRegistry(create func(chatID int64) *session.Session, opened, closed func()) *registry {
	return &registry{
		chats:  map[int64]*chatSession{},
		create: create,
		opened: opened,
		closed: closed,
		now:    time.Now,
	}
}

func (r *registry) acquire(chatID int64) *chatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs, ok := r.chats[chatID]
	if !ok {
		cs = &chatSession{s: r.create(chatID)}
		r.chats[chatID] = cs
		if r.opened != nil {
			r.opened()
		}
	}
	cs.refs++
	cs.seen = r.now()
	return cs
}

func (r *registry) release(cs *chatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cs.refs--
	cs.seen = r.now()
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}

// with выполняет fn под блокировкой сессии чата.
func (r *registry) with(chatID int64, fn func(s *session.Session)) {
	cs := r.acquire(chatID)
	defer r.release(cs)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	fn(cs.s)
}

// evictIdle забывает сессии, к которым не обращались дольше ttl.
// Занятые сессии не трогает. Несохранённый проект теряется.
func (r *registry) evictIdle(ttl time.Duration) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-ttl)
	var evicted []int64
	for id, cs := range r.chats {
		if cs.refs > 0 || !cs.seen.Before(cutoff) {
			continue
		}
		delete(r.chats, id)
		evicted = append(evicted, id)
		if r.closed != nil {
			r.closed()
		}
	}
	return evicted
}
