package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rl1809/product-catalog/internal/core/service"
)

type HTTPHandler struct {
	productService *service.ProductService
	logger         *slog.Logger
}

type ProductHTTP struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Stock       int64  `json:"stock"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ListProductsHTTPResponse struct {
	Products   []ProductHTTP `json:"products"`
	TotalCount int           `json:"total_count"`
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
}

func NewHTTPHandler(productService *service.ProductService, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{productService: productService, logger: logger}
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	// unparsable paging falls back to the service defaults
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.productService.ListProducts(r.Context(), page, pageSize, q.Get("category"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list products failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ListProductsHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	products := make([]ProductHTTP, 0, len(result.Products))
	for _, p := range toProductsPB(result.Products) {
		products = append(products, ProductHTTP{
			ID:          p.Id,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Stock:       p.Stock,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, ListProductsHTTPResponse{
		Products:   products,
		TotalCount: result.TotalCount,
		Success:    true,
		Message:    "Products retrieved successfully",
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
