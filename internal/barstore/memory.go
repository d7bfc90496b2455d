package barstore

import (
	"context"
	"sync"
)

type Memory struct {
	mu   sync.RWMutex
	bars []Bar
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Add(_ context.Context, b Bar) ([]Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bars = append(m.bars, b)
	return append([]Bar(nil), m.bars...), nil
}

func (m *Memory) List(context.Context) ([]Bar, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Bar{}, m.bars...), nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	m.bars = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
