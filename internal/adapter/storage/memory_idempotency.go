package storage

import (
	"context"
	"sync"
	"time"
)

type idempotencyEntry struct {
	productID int64
	expiresAt time.Time
}

// MemoryIdempotency keeps idempotency keys in process. Expired keys are
// evicted lazily every few hundred claims.
type MemoryIdempotency struct {
	mu     sync.Mutex
	ttl    time.Duration
	keys   map[string]idempotencyEntry
	claims uint64
	now    func() time.Time
}

func NewMemoryIdempotency(ttl time.Duration) *MemoryIdempotency {
	if ttl <= 0 {
		ttl = idempotencyKeyTTL
	}
	return &MemoryIdempotency{
		ttl:  ttl,
		keys: make(map[string]idempotencyEntry),
		now:  time.Now,
	}
}

func (m *MemoryIdempotency) Claim(_ context.Context, key string) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.claims++
	if m.claims%512 == 0 {
		for k, e := range m.keys {
			if now.After(e.expiresAt) {
				delete(m.keys, k)
			}
		}
	}

	if e, ok := m.keys[key]; ok && !now.After(e.expiresAt) {
		return false, e.productID, nil
	}
	m.keys[key] = idempotencyEntry{expiresAt: now.Add(m.ttl)}
	return true, 0, nil
}

func (m *MemoryIdempotency) Complete(_ context.Context, key string, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = idempotencyEntry{productID: productID, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}
