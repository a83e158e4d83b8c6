package port

import (
	"context"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

type EventSink interface {
	// SaveEvent persists a product change event for auditing
	SaveEvent(ctx context.Context, event domain.ProductEvent) error
}
