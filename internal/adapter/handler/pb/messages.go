// Package pb declares the catalog wire contract: request and response
// messages, the ProductService descriptor, and the metadata keys shared by
// client and server interceptors.
package pb

// Metadata keys.
const (
	RequestIDHeader      = "x-request-id"
	IdempotencyKeyHeader = "x-idempotency-key"
)

// TimeLayout formats product timestamps on the wire, always in UTC.
const TimeLayout = "2006-01-02 15:04:05"

type Product struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Stock       int64  `json:"stock"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (x *Product) GetId() int64 {
	if x != nil {
		return x.Id
	}
	return 0
}

func (x *Product) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

type GetProductRequest struct {
	Id int64 `json:"id"`
}

func (x *GetProductRequest) GetId() int64 {
	if x != nil {
		return x.Id
	}
	return 0
}

type GetProductResponse struct {
	Product *Product `json:"product,omitempty"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
}

func (x *GetProductResponse) GetProduct() *Product {
	if x != nil {
		return x.Product
	}
	return nil
}

type GetProductsRequest struct {
	Page     int32  `json:"page"`
	PageSize int32  `json:"page_size"`
	Category string `json:"category,omitempty"`
}

func (x *GetProductsRequest) GetPage() int32 {
	if x != nil {
		return x.Page
	}
	return 0
}

func (x *GetProductsRequest) GetPageSize() int32 {
	if x != nil {
		return x.PageSize
	}
	return 0
}

func (x *GetProductsRequest) GetCategory() string {
	if x != nil {
		return x.Category
	}
	return ""
}

type GetProductsResponse struct {
	Products   []*Product `json:"products"`
	TotalCount int32      `json:"total_count"`
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Stock       int64  `json:"stock"`
}

type CreateProductResponse struct {
	Product *Product `json:"product,omitempty"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
}

func (x *CreateProductResponse) GetProduct() *Product {
	if x != nil {
		return x.Product
	}
	return nil
}

type UpdateProductRequest struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Stock       int64  `json:"stock"`
}

func (x *UpdateProductRequest) GetId() int64 {
	if x != nil {
		return x.Id
	}
	return 0
}

type UpdateProductResponse struct {
	Product *Product `json:"product,omitempty"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
}

type DeleteProductRequest struct {
	Id int64 `json:"id"`
}

func (x *DeleteProductRequest) GetId() int64 {
	if x != nil {
		return x.Id
	}
	return 0
}

type DeleteProductResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
