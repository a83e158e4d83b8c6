package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/adapter/interceptor"
	"github.com/rl1809/product-catalog/internal/core/domain"
	"github.com/rl1809/product-catalog/internal/core/service"
	"github.com/rl1809/product-catalog/internal/port"
)

// GRPCHandler dispatches ProductService calls to the business service. Not
// found outcomes are answered with success=false; every other failure is
// returned as an error for the error interceptor to translate.
type GRPCHandler struct {
	pb.UnimplementedProductServiceServer
	productService *service.ProductService
	idempotency    port.IdempotencyRepository
	streamDelay    time.Duration
	logger         *slog.Logger
}

// NewGRPCHandler builds the dispatcher. idempotency may be nil, in which case
// retried creates are not deduplicated.
func NewGRPCHandler(productService *service.ProductService, idempotency port.IdempotencyRepository, streamDelay time.Duration, logger *slog.Logger) *GRPCHandler {
	return &GRPCHandler{
		productService: productService,
		idempotency:    idempotency,
		streamDelay:    streamDelay,
		logger:         logger,
	}
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Product with ID %d not found", id)
}

func (h *GRPCHandler) GetProduct(ctx context.Context, req *pb.GetProductRequest) (*pb.GetProductResponse, error) {
	h.logger.InfoContext(ctx, "getting product", "product_id", req.GetId())

	product, err := h.productService.GetProduct(ctx, req.GetId())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return &pb.GetProductResponse{
			Success: false,
			Message: notFoundMessage(req.GetId()),
		}, nil
	}

	return &pb.GetProductResponse{
		Product: toProductPB(*product),
		Success: true,
		Message: "Product retrieved successfully",
	}, nil
}

func (h *GRPCHandler) GetProducts(ctx context.Context, req *pb.GetProductsRequest) (*pb.GetProductsResponse, error) {
	h.logger.InfoContext(ctx, "getting products",
		"page", req.GetPage(), "page_size", req.GetPageSize(), "category", req.GetCategory())

	page, err := h.productService.ListProducts(ctx, int(req.GetPage()), int(req.GetPageSize()), req.GetCategory())
	if err != nil {
		return nil, err
	}

	return &pb.GetProductsResponse{
		Products:   toProductsPB(page.Products),
		TotalCount: int32(page.TotalCount),
		Success:    true,
		Message:    "Products retrieved successfully",
	}, nil
}

func (h *GRPCHandler) CreateProduct(ctx context.Context, req *pb.CreateProductRequest) (*pb.CreateProductResponse, error) {
	h.logger.InfoContext(ctx, "creating product", "name", req.Name)

	key := interceptor.IdempotencyKeyFromContext(ctx)
	if key == "" || h.idempotency == nil {
		return h.createProduct(ctx, req)
	}

	claimed, existingID, err := h.idempotency.Claim(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "idempotency claim failed, creating without deduplication", "error", err)
		return h.createProduct(ctx, req)
	}
	if !claimed {
		return h.replayCreate(ctx, existingID)
	}

	resp, err := h.createProduct(ctx, req)
	if err != nil {
		if rerr := h.idempotency.Release(ctx, key); rerr != nil {
			h.logger.WarnContext(ctx, "idempotency release failed", "error", rerr)
		}
		return nil, err
	}
	if cerr := h.idempotency.Complete(ctx, key, resp.Product.GetId()); cerr != nil {
		h.logger.WarnContext(ctx, "idempotency complete failed", "product_id", resp.Product.GetId(), "error", cerr)
	}
	return resp, nil
}

func (h *GRPCHandler) createProduct(ctx context.Context, req *pb.CreateProductRequest) (*pb.CreateProductResponse, error) {
	created, err := h.productService.CreateProduct(ctx, fromCreateRequest(req))
	if err != nil {
		return nil, err
	}

	return &pb.CreateProductResponse{
		Product: toProductPB(created),
		Success: true,
		Message: "Product created successfully",
	}, nil
}

// replayCreate answers a create whose idempotency key was already used.
func (h *GRPCHandler) replayCreate(ctx context.Context, productID int64) (*pb.CreateProductResponse, error) {
	if productID == 0 {
		return &pb.CreateProductResponse{
			Success: false,
			Message: domain.ErrDuplicateRequest.Error(),
		}, nil
	}

	h.logger.InfoContext(ctx, "replaying completed create", "product_id", productID)
	product, err := h.productService.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return &pb.CreateProductResponse{
			Success: false,
			Message: notFoundMessage(productID),
		}, nil
	}

	return &pb.CreateProductResponse{
		Product: toProductPB(*product),
		Success: true,
		Message: "Product created successfully",
	}, nil
}

func (h *GRPCHandler) UpdateProduct(ctx context.Context, req *pb.UpdateProductRequest) (*pb.UpdateProductResponse, error) {
	h.logger.InfoContext(ctx, "updating product", "product_id", req.GetId())

	updated, err := h.productService.UpdateProduct(ctx, fromUpdateRequest(req))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return &pb.UpdateProductResponse{
			Success: false,
			Message: notFoundMessage(req.GetId()),
		}, nil
	}

	return &pb.UpdateProductResponse{
		Product: toProductPB(*updated),
		Success: true,
		Message: "Product updated successfully",
	}, nil
}

func (h *GRPCHandler) DeleteProduct(ctx context.Context, req *pb.DeleteProductRequest) (*pb.DeleteProductResponse, error) {
	h.logger.InfoContext(ctx, "deleting product", "product_id", req.GetId())

	removed, err := h.productService.DeleteProduct(ctx, req.GetId())
	if err != nil {
		return nil, err
	}
	if !removed {
		return &pb.DeleteProductResponse{
			Success: false,
			Message: notFoundMessage(req.GetId()),
		}, nil
	}

	return &pb.DeleteProductResponse{
		Success: true,
		Message: "Product deleted successfully",
	}, nil
}

// GetProductStream sends the requested page one product at a time in id
// order. Cancellation is checked before every send and ends the stream
// without an error.
func (h *GRPCHandler) GetProductStream(req *pb.GetProductsRequest, stream pb.ProductService_GetProductStreamServer) error {
	ctx := stream.Context()
	h.logger.InfoContext(ctx, "streaming products",
		"page", req.GetPage(), "page_size", req.GetPageSize(), "category", req.GetCategory())

	page, err := h.productService.ListProducts(ctx, int(req.GetPage()), int(req.GetPageSize()), req.GetCategory())
	if err != nil {
		return err
	}

	for i, p := range page.Products {
		if ctx.Err() != nil {
			h.logger.InfoContext(ctx, "stream cancelled by client", "sent", i)
			return nil
		}
		if err := stream.Send(toProductPB(p)); err != nil {
			return err
		}

		if h.streamDelay > 0 {
			if err := interceptor.SleepContext(ctx, h.streamDelay); err != nil {
				h.logger.InfoContext(ctx, "stream cancelled by client", "sent", i+1)
				return nil
			}
		}
	}
	return nil
}
