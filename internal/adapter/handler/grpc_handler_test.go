package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/adapter/storage"
	"github.com/rl1809/product-catalog/internal/core/domain"
	"github.com/rl1809/product-catalog/internal/core/service"
	"github.com/rl1809/product-catalog/internal/port"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSeededHandler returns a handler over a store holding the five sample
// products (ids 1..5).
func newSeededHandler(t *testing.T, idem port.IdempotencyRepository) (*GRPCHandler, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, storage.Seed(context.Background(), store, storage.SampleProducts(time.Now().UTC())))
	svc := service.NewProductService(store, 0, discardLogger())
	return NewGRPCHandler(svc, idem, 0, discardLogger()), store
}

func withIdempotencyKey(key string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pb.IdempotencyKeyHeader, key))
}

func TestGRPCHandler_GetProduct(t *testing.T) {
	h, _ := newSeededHandler(t, nil)

	resp, err := h.GetProduct(context.Background(), &pb.GetProductRequest{Id: 1})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "Product retrieved successfully", resp.Message)
	require.Equal(t, "Laptop Gaming", resp.Product.Name)

	resp, err = h.GetProduct(context.Background(), &pb.GetProductRequest{Id: 42})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "Product with ID 42 not found", resp.Message)
	require.Nil(t, resp.Product)
}

func TestGRPCHandler_GetProductInvalidID(t *testing.T) {
	h, _ := newSeededHandler(t, nil)

	_, err := h.GetProduct(context.Background(), &pb.GetProductRequest{Id: 0})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGRPCHandler_GetProducts(t *testing.T) {
	h, _ := newSeededHandler(t, nil)

	resp, err := h.GetProducts(context.Background(), &pb.GetProductsRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.EqualValues(t, 5, resp.TotalCount)
	require.Len(t, resp.Products, 2)
	require.EqualValues(t, 1, resp.Products[0].Id)
	require.EqualValues(t, 2, resp.Products[1].Id)

	resp, err = h.GetProducts(context.Background(), &pb.GetProductsRequest{Category: "electronics"})
	require.NoError(t, err)
	require.EqualValues(t, 2, resp.TotalCount)
}

func TestGRPCHandler_CreateUpdateDelete(t *testing.T) {
	h, store := newSeededHandler(t, nil)
	ctx := context.Background()

	created, err := h.CreateProduct(ctx, &pb.CreateProductRequest{Name: "Desk Lamp", Price: 25, Category: "Home", Stock: 7})
	require.NoError(t, err)
	require.True(t, created.Success)
	require.Equal(t, "Product created successfully", created.Message)
	require.EqualValues(t, 6, created.Product.Id)
	require.Equal(t, created.Product.CreatedAt, created.Product.UpdatedAt)

	updated, err := h.UpdateProduct(ctx, &pb.UpdateProductRequest{Id: 6, Name: "Desk Lamp XL", Price: 30, Category: "Home", Stock: 3})
	require.NoError(t, err)
	require.True(t, updated.Success)
	require.Equal(t, "Desk Lamp XL", updated.Product.Name)
	require.Equal(t, created.Product.CreatedAt, updated.Product.CreatedAt)

	missing, err := h.UpdateProduct(ctx, &pb.UpdateProductRequest{Id: 99, Name: "Ghost"})
	require.NoError(t, err)
	require.False(t, missing.Success)
	require.Equal(t, "Product with ID 99 not found", missing.Message)

	deleted, err := h.DeleteProduct(ctx, &pb.DeleteProductRequest{Id: 6})
	require.NoError(t, err)
	require.True(t, deleted.Success)
	require.Equal(t, 5, store.Len())

	again, err := h.DeleteProduct(ctx, &pb.DeleteProductRequest{Id: 6})
	require.NoError(t, err)
	require.False(t, again.Success)
}

func TestGRPCHandler_CreateValidation(t *testing.T) {
	h, store := newSeededHandler(t, nil)

	_, err := h.CreateProduct(context.Background(), &pb.CreateProductRequest{Name: "  ", Price: 10})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Product name is required", verr.Message)
	require.Equal(t, 5, store.Len())
}

func TestGRPCHandler_CreateReplaysIdempotencyKey(t *testing.T) {
	idem := storage.NewMemoryIdempotency(time.Minute)
	h, store := newSeededHandler(t, idem)
	req := &pb.CreateProductRequest{Name: "Kettle", Price: 40, Category: "Appliances", Stock: 2}

	first, err := h.CreateProduct(withIdempotencyKey("k-1"), req)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := h.CreateProduct(withIdempotencyKey("k-1"), req)
	require.NoError(t, err)
	require.True(t, second.Success)
	require.Equal(t, first.Product.Id, second.Product.Id)
	require.Equal(t, 6, store.Len())

	third, err := h.CreateProduct(withIdempotencyKey("k-2"), req)
	require.NoError(t, err)
	require.NotEqual(t, first.Product.Id, third.Product.Id)
	require.Equal(t, 7, store.Len())
}

func TestGRPCHandler_CreateInFlightDuplicate(t *testing.T) {
	idem := storage.NewMemoryIdempotency(time.Minute)
	h, store := newSeededHandler(t, idem)

	claimed, _, err := idem.Claim(context.Background(), "busy")
	require.NoError(t, err)
	require.True(t, claimed)

	resp, err := h.CreateProduct(withIdempotencyKey("busy"), &pb.CreateProductRequest{Name: "Kettle", Price: 40})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "duplicate request in progress", resp.Message)
	require.Equal(t, 5, store.Len())
}

func TestGRPCHandler_CreateFailureReleasesKey(t *testing.T) {
	idem := storage.NewMemoryIdempotency(time.Minute)
	h, _ := newSeededHandler(t, idem)

	_, err := h.CreateProduct(withIdempotencyKey("k-bad"), &pb.CreateProductRequest{Name: "Kettle", Price: -1})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	resp, err := h.CreateProduct(withIdempotencyKey("k-bad"), &pb.CreateProductRequest{Name: "Kettle", Price: 1})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

type fakeProductStream struct {
	grpc.ServerStream
	ctx       context.Context
	cancel    context.CancelFunc
	cancelAt  int
	sent      []*pb.Product
	failAfter int
}

func (f *fakeProductStream) Context() context.Context {
	return f.ctx
}

func (f *fakeProductStream) Send(p *pb.Product) error {
	if f.failAfter > 0 && len(f.sent) == f.failAfter {
		return errors.New("transport closed")
	}
	f.sent = append(f.sent, p)
	if f.cancelAt > 0 && len(f.sent) == f.cancelAt {
		f.cancel()
	}
	return nil
}

func newFakeProductStream() *fakeProductStream {
	ctx, cancel := context.WithCancel(context.Background())
	return &fakeProductStream{ctx: ctx, cancel: cancel}
}

func TestGRPCHandler_StreamSendsAllInOrder(t *testing.T) {
	h, _ := newSeededHandler(t, nil)
	stream := newFakeProductStream()
	defer stream.cancel()

	require.NoError(t, h.GetProductStream(&pb.GetProductsRequest{Page: 1, PageSize: 10}, stream))
	require.Len(t, stream.sent, 5)
	for i, p := range stream.sent {
		require.EqualValues(t, i+1, p.Id)
	}
}

func TestGRPCHandler_StreamStopsOnCancel(t *testing.T) {
	h, _ := newSeededHandler(t, nil)
	stream := newFakeProductStream()
	stream.cancelAt = 2

	err := h.GetProductStream(&pb.GetProductsRequest{Page: 1, PageSize: 10}, stream)
	require.NoError(t, err)
	require.Len(t, stream.sent, 2)
}

func TestGRPCHandler_StreamCancelDuringDelay(t *testing.T) {
	h, _ := newSeededHandler(t, nil)
	h.streamDelay = time.Hour
	stream := newFakeProductStream()
	stream.cancelAt = 1

	err := h.GetProductStream(&pb.GetProductsRequest{Page: 1, PageSize: 10}, stream)
	require.NoError(t, err)
	require.Len(t, stream.sent, 1)
}

func TestGRPCHandler_StreamSendError(t *testing.T) {
	h, _ := newSeededHandler(t, nil)
	stream := newFakeProductStream()
	defer stream.cancel()
	stream.failAfter = 3

	err := h.GetProductStream(&pb.GetProductsRequest{Page: 1, PageSize: 10}, stream)
	require.EqualError(t, err, "transport closed")
	require.Len(t, stream.sent, 3)
}
