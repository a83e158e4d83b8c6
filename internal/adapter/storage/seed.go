package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rl1809/product-catalog/internal/core/domain"
	"github.com/rl1809/product-catalog/internal/port"
)

// SampleProducts returns the catalog loaded at startup, stamped with now.
func SampleProducts(now time.Time) []domain.Product {
	now = now.UTC()
	return []domain.Product{
		{Name: "Laptop Gaming", Description: "High-performance gaming laptop", Price: 15000000, Category: "Electronics", Stock: 10, CreatedAt: now, UpdatedAt: now},
		{Name: "Smartphone", Description: "Latest Android smartphone", Price: 8000000, Category: "Electronics", Stock: 25, CreatedAt: now, UpdatedAt: now},
		{Name: "Office Chair", Description: "Ergonomic office chair", Price: 2500000, Category: "Furniture", Stock: 15, CreatedAt: now, UpdatedAt: now},
		{Name: "Coffee Maker", Description: "Automatic coffee maker", Price: 1200000, Category: "Appliances", Stock: 8, CreatedAt: now, UpdatedAt: now},
		{Name: "Running Shoes", Description: "Professional running shoes", Price: 1500000, Category: "Sports", Stock: 30, CreatedAt: now, UpdatedAt: now},
	}
}

func Seed(ctx context.Context, repo port.ProductRepository, products []domain.Product) error {
	for _, p := range products {
		if _, err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed %q: %w", p.Name, err)
		}
	}
	return nil
}
