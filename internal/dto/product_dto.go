package dto

import (
	"time"

	"github.com/aurine/aurine-api/internal/models"
)

// ProductCreateRequest captures a new catalogue item.
type ProductCreateRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=255"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice float64  `json:"original_price" validate:"omitempty,gte=0"`
	CostPrice     float64  `json:"cost_price" validate:"omitempty,gte=0"`
	Collection    string   `json:"collection" validate:"omitempty,max=128"`
	Category      string   `json:"category" validate:"omitempty,max=128"`
	Images        []string `json:"images"`
	InStock       *bool    `json:"in_stock"`
	IsLive        bool     `json:"is_live"`
	Stock         int      `json:"stock" validate:"omitempty,gte=0"`
}

// ProductUpdateRequest is a partial patch; only set fields are written.
type ProductUpdateRequest struct {
	Name          *string   `json:"name" validate:"omitempty,min=2,max=255"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price" validate:"omitempty,gt=0"`
	OriginalPrice *float64  `json:"original_price" validate:"omitempty,gte=0"`
	CostPrice     *float64  `json:"cost_price" validate:"omitempty,gte=0"`
	Collection    *string   `json:"collection" validate:"omitempty,max=128"`
	Category      *string   `json:"category" validate:"omitempty,max=128"`
	Images        *[]string `json:"images"`
	InStock       *bool     `json:"in_stock"`
	IsLive        *bool     `json:"is_live"`
	Stock         *int      `json:"stock" validate:"omitempty,gte=0"`
}

// ProductListRequest filters admin product listings.
type ProductListRequest struct {
	Page       int
	PageSize   int
	Collection string
	Category   string
	Search     string
	LiveOnly   bool
}

// ProductResponse serializes a catalogue item.
type ProductResponse struct {
	ID            uint      `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price"`
	CostPrice     float64   `json:"cost_price,omitempty"`
	Collection    string    `json:"collection"`
	Category      string    `json:"category"`
	Images        []string  `json:"images"`
	InStock       bool      `json:"in_stock"`
	IsLive        bool      `json:"is_live"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductListResponse wraps a paginated product listing.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
	CacheHit   bool              `json:"cache_hit,omitempty"`
}

// NewProductResponse converts a model into its DTO.
func NewProductResponse(product models.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		Slug:          product.Slug,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		CostPrice:     product.CostPrice,
		Collection:    product.Collection,
		Category:      product.Category,
		Images:        append([]string(nil), product.Images...),
		InStock:       product.InStock,
		IsLive:        product.IsLive,
		Stock:         product.Stock,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}
