package handler

import (
	"github.com/rl1809/product-catalog/internal/adapter/handler/pb"
	"github.com/rl1809/product-catalog/internal/core/domain"
)

func toProductPB(p domain.Product) *pb.Product {
	return &pb.Product{
		Id:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt.UTC().Format(pb.TimeLayout),
		UpdatedAt:   p.UpdatedAt.UTC().Format(pb.TimeLayout),
	}
}

func toProductsPB(products []domain.Product) []*pb.Product {
	out := make([]*pb.Product, 0, len(products))
	for _, p := range products {
		out = append(out, toProductPB(p))
	}
	return out
}

func fromCreateRequest(req *pb.CreateProductRequest) domain.Product {
	return domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}
}

func fromUpdateRequest(req *pb.UpdateProductRequest) domain.Product {
	return domain.Product{
		ID:          req.Id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}
}
