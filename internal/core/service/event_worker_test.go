package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	events []domain.ProductEvent
	fail   bool
}

func (r *recordingSink) SaveEvent(ctx context.Context, event domain.ProductEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("sink down")
	}
	r.events = append(r.events, event)
	return nil
}

func TestEventWorkers_DrainQueue(t *testing.T) {
	queue := make(chan domain.ProductEvent, 100)
	sink := &recordingSink{}
	pool := StartEventWorkers(4, queue, sink, discardLogger())

	for i := 1; i <= 50; i++ {
		queue <- domain.ProductEvent{Type: domain.EventProductCreated, ProductID: int64(i)}
	}
	close(queue)
	pool.Wait()

	require.Len(t, sink.events, 50)
	seen := make(map[int64]bool)
	for _, ev := range sink.events {
		seen[ev.ProductID] = true
	}
	require.Len(t, seen, 50)
}

func TestEventWorkers_SinkFailureKeepsDraining(t *testing.T) {
	queue := make(chan domain.ProductEvent, 10)
	sink := &recordingSink{fail: true}
	pool := StartEventWorkers(2, queue, sink, discardLogger())

	for i := 0; i < 10; i++ {
		queue <- domain.ProductEvent{Type: domain.EventProductDeleted, ProductID: 1}
	}
	close(queue)
	pool.Wait()

	require.Empty(t, queue)
	require.Empty(t, sink.events)
}

func TestEventWorkers_NilQueue(t *testing.T) {
	pool := StartEventWorkers(3, nil, &recordingSink{}, discardLogger())
	pool.Wait()
}
