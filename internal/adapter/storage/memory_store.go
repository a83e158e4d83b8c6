package storage

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

// MemoryStore is a volatile product repository safe for concurrent use. Ids
// come from a single atomic counter, so concurrent creators never share one.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	lastID   atomic.Int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[int64]domain.Product)}
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	p, ok := s.products[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryStore) List(_ context.Context, page, pageSize int, category string) (domain.ProductPage, error) {
	s.mu.RLock()
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if category == "" || strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	result := domain.ProductPage{Products: []domain.Product{}, TotalCount: len(matched)}
	if page < 1 || pageSize < 1 {
		return result, nil
	}

	// page is caller-controlled; compare before multiplying so huge values cannot overflow
	if page-1 > len(matched)/pageSize {
		return result, nil
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return result, nil
	}
	end := min(start+pageSize, len(matched))

	slices.SortFunc(matched, func(a, b domain.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	result.Products = matched[start:end]
	return result, nil
}

func (s *MemoryStore) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	product.ID = s.lastID.Add(1)

	s.mu.Lock()
	s.products[product.ID] = product
	s.mu.Unlock()

	return product, nil
}

func (s *MemoryStore) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// Len returns the number of stored products.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
