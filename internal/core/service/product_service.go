package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rl1809/product-catalog/internal/core/domain"
	"github.com/rl1809/product-catalog/internal/port"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type ProductService struct {
	repo      port.ProductRepository
	logger    *slog.Logger
	events    chan domain.ProductEvent
	closeOnce sync.Once
	now       func() time.Time
}

// NewProductService builds the business service over repo. Change events are
// buffered up to queueSize; a zero queueSize disables them.
func NewProductService(repo port.ProductRepository, queueSize int, logger *slog.Logger) *ProductService {
	s := &ProductService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	if queueSize > 0 {
		s.events = make(chan domain.ProductEvent, queueSize)
	}
	return s
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "Product ID must be greater than 0")
	}
	return s.repo.Get(ctx, id)
}

// ListProducts never rejects pagination input: page and pageSize are
// normalized before the repository is queried.
func (s *ProductService) ListProducts(ctx context.Context, page, pageSize int, category string) (domain.ProductPage, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return s.repo.List(ctx, page, pageSize, strings.TrimSpace(category))
}

func (s *ProductService) CreateProduct(ctx context.Context, draft domain.Product) (domain.Product, error) {
	if err := validateProduct(draft); err != nil {
		return domain.Product{}, err
	}

	now := s.now().UTC()
	draft.ID = 0
	draft.CreatedAt = now
	draft.UpdatedAt = now

	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, domain.NewProductEvent(domain.EventProductCreated, created, now))
	return created, nil
}

// UpdateProduct returns nil without error when the product does not exist.
func (s *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", product.ID, err)
	}
	if existing == nil {
		return nil, nil
	}

	now := s.now().UTC()
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = now
	if product.UpdatedAt.Before(existing.UpdatedAt) {
		product.UpdatedAt = existing.UpdatedAt
	}

	updated, err := s.repo.Update(ctx, product)
	if errors.Is(err, domain.ErrProductNotFound) {
		// deleted between the lookup and the write
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", product.ID, err)
	}

	s.publish(ctx, domain.NewProductEvent(domain.EventProductUpdated, updated, now))
	return &updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, domain.NewValidationError("id", "Product ID must be greater than 0")
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	if removed {
		s.publish(ctx, domain.ProductEvent{
			Type:       domain.EventProductDeleted,
			ProductID:  id,
			OccurredAt: s.now().UTC(),
		})
	}
	return removed, nil
}

// Events exposes the change-event queue. It is nil when events are disabled.
func (s *ProductService) Events() <-chan domain.ProductEvent {
	return s.events
}

// Close closes the event queue. Call it only after no request can reach the
// service any more.
func (s *ProductService) Close() {
	s.closeOnce.Do(func() {
		if s.events != nil {
			close(s.events)
		}
	})
}

func (s *ProductService) publish(ctx context.Context, event domain.ProductEvent) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- event:
	default:
		s.logger.WarnContext(ctx, "event queue full, dropping event",
			"type", string(event.Type), "product_id", event.ProductID)
	}
}

// NormalizePage clamps page to at least 1 and pageSize to [1, MaxPageSize],
// substituting DefaultPageSize for non-positive sizes.
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "Product name is required")
	}
	if p.Price < 0 {
		return domain.NewValidationError("price", "Product price cannot be negative")
	}
	if p.Stock < 0 {
		return domain.NewValidationError("stock", "Product stock cannot be negative")
	}
	return nil
}
