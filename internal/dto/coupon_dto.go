package dto

import (
	"time"

	"github.com/aurine/aurine-api/internal/models"
)

// CouponCreateRequest captures a new discount code.
type CouponCreateRequest struct {
	Code        string  `json:"code" validate:"required,min=3,max=64"`
	Type        string  `json:"type" validate:"required,oneof=percent fixed"`
	Value       float64 `json:"value" validate:"required,gt=0"`
	MinOrder    float64 `json:"min_order" validate:"omitempty,gte=0"`
	MaxDiscount float64 `json:"max_discount" validate:"omitempty,gte=0"`
	UsageLimit  int     `json:"usage_limit" validate:"omitempty,gte=0"`
	IsActive    bool    `json:"is_active"`
	StartDate   string  `json:"start_date" validate:"omitempty"`
	EndDate     string  `json:"end_date" validate:"omitempty"`
}

// CouponUpdateRequest is a partial patch; only set fields are written.
type CouponUpdateRequest struct {
	Code        *string  `json:"code" validate:"omitempty,min=3,max=64"`
	Type        *string  `json:"type" validate:"omitempty,oneof=percent fixed"`
	Value       *float64 `json:"value" validate:"omitempty,gt=0"`
	MinOrder    *float64 `json:"min_order" validate:"omitempty,gte=0"`
	MaxDiscount *float64 `json:"max_discount" validate:"omitempty,gte=0"`
	UsageLimit  *int     `json:"usage_limit" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
}

// CouponListRequest filters admin coupon listings.
type CouponListRequest struct {
	Page       int
	PageSize   int
	Search     string
	ActiveOnly bool
}

// CouponValidateRequest checks a code against an order subtotal.
type CouponValidateRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"required,gt=0"`
}

// CouponValidateResponse reports the computed discount for a valid code.
type CouponValidateResponse struct {
	Code     string  `json:"code"`
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Reason   string  `json:"reason,omitempty"`
}

// CouponResponse serializes a coupon.
type CouponResponse struct {
	ID          uint       `json:"id"`
	Code        string     `json:"code"`
	Type        string     `json:"type"`
	Value       float64    `json:"value"`
	MinOrder    float64    `json:"min_order"`
	MaxDiscount float64    `json:"max_discount"`
	UsageLimit  int        `json:"usage_limit"`
	UsedCount   int        `json:"used_count"`
	IsActive    bool       `json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CouponListResponse wraps a paginated coupon listing.
type CouponListResponse struct {
	Items      []CouponResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// NewCouponResponse converts a model into its DTO.
func NewCouponResponse(coupon models.Coupon) CouponResponse {
	return CouponResponse{
		ID:          coupon.ID,
		Code:        coupon.Code,
		Type:        coupon.Type,
		Value:       coupon.Value,
		MinOrder:    coupon.MinOrder,
		MaxDiscount: coupon.MaxDiscount,
		UsageLimit:  coupon.UsageLimit,
		UsedCount:   coupon.UsedCount,
		IsActive:    coupon.IsActive,
		StartDate:   coupon.StartDate,
		EndDate:     coupon.EndDate,
		CreatedAt:   coupon.CreatedAt,
		UpdatedAt:   coupon.UpdatedAt,
	}
}
