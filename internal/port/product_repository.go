package port

import (
	"context"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

type ProductRepository interface {
	// Get returns nil without error when the id is absent
	Get(ctx context.Context, id int64) (*domain.Product, error)

	// List filters by category (case-insensitive, empty means all), orders by id
	// and returns one page together with the filtered total
	List(ctx context.Context, page, pageSize int, category string) (domain.ProductPage, error)

	// Create assigns a fresh id and stores the product
	Create(ctx context.Context, product domain.Product) (domain.Product, error)

	// Update replaces the stored product with the same id
	Update(ctx context.Context, product domain.Product) (domain.Product, error)

	// Delete reports whether an entry was removed
	Delete(ctx context.Context, id int64) (bool, error)
}
