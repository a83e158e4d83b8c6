package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rl1809/product-catalog/internal/core/domain"
	"github.com/rl1809/product-catalog/internal/port"
)

const eventSaveTimeout = 5 * time.Second

// EventWorkerPool drains product events into a sink until the queue closes.
type EventWorkerPool struct {
	sink   port.EventSink
	logger *slog.Logger
	wg     sync.WaitGroup
}

func StartEventWorkers(count int, queue <-chan domain.ProductEvent, sink port.EventSink, logger *slog.Logger) *EventWorkerPool {
	p := &EventWorkerPool{sink: sink, logger: logger}
	if queue == nil {
		return p
	}
	for i := 0; i < count; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.workerLoop(id, queue)
		}(i)
	}
	logger.Info("started event workers", "count", count)
	return p
}

// Wait blocks until every worker has exited.
func (p *EventWorkerPool) Wait() {
	p.wg.Wait()
}

func (p *EventWorkerPool) workerLoop(id int, queue <-chan domain.ProductEvent) {
	for event := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), eventSaveTimeout)

		if err := p.sink.SaveEvent(ctx, event); err != nil {
			p.logger.Error("failed to save product event",
				"worker", id, "type", string(event.Type), "product_id", event.ProductID, "error", err)
		}

		cancel()
	}
}
