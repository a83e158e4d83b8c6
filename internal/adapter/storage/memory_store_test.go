package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/product-catalog/internal/core/domain"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	require.NoError(t, Seed(context.Background(), s, SampleProducts(time.Now())))
	return s
}

func TestMemoryStore_SeedAssignsSequentialIDs(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		p, err := s.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, p)
		require.Equal(t, id, p.ID)
	}

	none, err := s.Get(ctx, 6)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestMemoryStore_ConcurrentCreateDistinctIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	const n = 200

	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := s.Create(ctx, domain.Product{Name: "item", Category: "bulk"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, n)
	for id := range ids {
		require.Greater(t, id, int64(0))
		seen[id] = struct{}{}
	}
	require.Len(t, seen, n)
	require.Equal(t, n, s.Len())
}

func TestMemoryStore_ListPagination(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	for page := 1; page <= 4; page++ {
		got, err := s.List(ctx, page, 2, "")
		require.NoError(t, err)
		require.Equal(t, 5, got.TotalCount)
		require.LessOrEqual(t, len(got.Products), 2)
	}

	first, err := s.List(ctx, 1, 2, "")
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.Equal(t, int64(1), first.Products[0].ID)
	require.Equal(t, int64(2), first.Products[1].ID)

	last, err := s.List(ctx, 3, 2, "")
	require.NoError(t, err)
	require.Len(t, last.Products, 1)
	require.Equal(t, int64(5), last.Products[0].ID)
}

func TestMemoryStore_ListOutOfRangePage(t *testing.T) {
	s := seededStore(t)

	got, err := s.List(context.Background(), 1000, 10, "")
	require.NoError(t, err)
	require.Empty(t, got.Products)
	require.Equal(t, 5, got.TotalCount)
}

func TestMemoryStore_ListCategoryFilter(t *testing.T) {
	s := seededStore(t)

	got, err := s.List(context.Background(), 1, 10, "electronics")
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalCount)
	require.Len(t, got.Products, 2)
	for _, p := range got.Products {
		require.Equal(t, "Electronics", p.Category)
	}

	got, err = s.List(context.Background(), 2, 1, "ELECTRONICS")
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalCount)
	require.Len(t, got.Products, 1)
	require.Equal(t, int64(2), got.Products[0].ID)

	got, err = s.List(context.Background(), 1, 10, "Toys")
	require.NoError(t, err)
	require.Zero(t, got.TotalCount)
	require.Empty(t, got.Products)
}

func TestMemoryStore_UpdateReplacesEntry(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	p, err := s.Get(ctx, 3)
	require.NoError(t, err)

	replacement := *p
	replacement.Name = "Standing Desk"
	replacement.Description = ""
	_, err = s.Update(ctx, replacement)
	require.NoError(t, err)

	got, err := s.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, replacement, *got)

	_, err = s.Update(ctx, domain.Product{ID: 99, Name: "ghost"})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	removed, err := s.Delete(ctx, 2)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.Delete(ctx, 2)
	require.NoError(t, err)
	require.False(t, removed)

	page, err := s.List(ctx, 1, 10, "")
	require.NoError(t, err)
	require.Equal(t, 4, page.TotalCount)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	p, err := s.Get(ctx, 1)
	require.NoError(t, err)
	p.Name = "mutated"

	again, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Laptop Gaming", again.Name)
}

func TestMemoryStore_ConcurrentMixedOperations(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ctx, domain.Product{Name: "new", Category: "Electronics"})
		}()
		go func() {
			defer wg.Done()
			page, err := s.List(ctx, 1, 5, "electronics")
			if err != nil {
				t.Errorf("list: %v", err)
				return
			}
			if len(page.Products) > 5 || page.TotalCount < len(page.Products) {
				t.Errorf("inconsistent page: %d items, total %d", len(page.Products), page.TotalCount)
			}
		}()
		go func(id int64) {
			defer wg.Done()
			_, _ = s.Delete(ctx, id)
		}(int64(i%5 + 1))
	}
	wg.Wait()

	require.Equal(t, 20, s.Len())
}
