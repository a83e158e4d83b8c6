package storage

import (
	"context"
	"log/slog"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

// LogSink writes product events to the process log. Used when no audit
// database is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) SaveEvent(ctx context.Context, event domain.ProductEvent) error {
	l.logger.InfoContext(ctx, "product_event",
		"type", string(event.Type),
		"product_id", event.ProductID,
		"name", event.Name,
		"price", event.Price,
		"stock", event.Stock,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
