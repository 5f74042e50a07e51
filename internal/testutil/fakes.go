package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warehouse-service/internal/models"
)

// RecordingPublisher keeps every published event in order
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []models.EntityEvent
	Err    error
}

func (p *RecordingPublisher) PublishEntityEvent(ctx context.Context, event *models.EntityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, *event)
	return nil
}

// Last returns the most recent event, or nil
func (p *RecordingPublisher) Last() *models.EntityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Events) == 0 {
		return nil
	}
	e := p.Events[len(p.Events)-1]
	return &e
}

// MemIdempotency is a map-backed idempotency store. TTLs are ignored.
type MemIdempotency struct {
	mu     sync.Mutex
	values map[string]string
	locks  map[string]bool
	Err    error
}

func NewMemIdempotency() *MemIdempotency {
	return &MemIdempotency{
		values: make(map[string]string),
		locks:  make(map[string]bool),
	}
}

func (m *MemIdempotency) GetIdempotencyKey(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemIdempotency) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = fmt.Sprint(value)
	return nil
}

func (m *MemIdempotency) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if m.locks[lockKey] {
		return false, nil
	}
	m.locks[lockKey] = true
	return true, nil
}

func (m *MemIdempotency) ReleaseLock(ctx context.Context, lockKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockKey)
	return nil
}

// Locked reports whether lockKey is currently held
func (m *MemIdempotency) Locked(lockKey string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[lockKey]
}
