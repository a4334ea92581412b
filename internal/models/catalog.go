package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product is a single catalogue item sold by the storefront.
type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Slug          string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	OriginalPrice float64   `json:"original_price"`
	CostPrice     float64   `json:"cost_price"`
	Collection    string    `gorm:"size:128;index" json:"collection"`
	Category      string    `gorm:"size:128;index" json:"category"`
	ImagesRaw     string    `gorm:"column:images;type:text" json:"-"`
	InStock       bool      `gorm:"default:true" json:"in_stock"`
	IsLive        bool      `gorm:"index" json:"is_live"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Images        []string  `gorm:"-" json:"images"`
}

// BeforeSave flattens the image list before persisting.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.ImagesRaw = EncodeStringList(p.Images)
	return nil
}

// AfterFind hydrates the image list after retrieval.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.Images = DecodeStringList(p.ImagesRaw)
	return nil
}

// Coupon represents a discount code redeemable at checkout.
type Coupon struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Type        string     `gorm:"size:16;not null" json:"type"`
	Value       float64    `gorm:"not null" json:"value"`
	MinOrder    float64    `json:"min_order"`
	MaxDiscount float64    `json:"max_discount"`
	UsageLimit  int        `json:"usage_limit"`
	UsedCount   int        `json:"used_count"`
	IsActive    bool       `gorm:"index" json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Coupon discount types.
const (
	CouponTypePercent = "percent"
	CouponTypeFixed   = "fixed"
)

// Banner is a promotional panel shown on the storefront.
type Banner struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Subtitle        string    `gorm:"type:text" json:"subtitle"`
	LinkURL         string    `gorm:"size:512" json:"link_url"`
	LinkText        string    `gorm:"size:128" json:"link_text"`
	Position        string    `gorm:"size:64;index" json:"position"`
	BackgroundColor string    `gorm:"size:32" json:"background_color"`
	TextColor       string    `gorm:"size:32" json:"text_color"`
	Image           string    `gorm:"size:512" json:"image"`
	IsActive        bool      `gorm:"index" json:"is_active"`
	DisplayOrder    int       `gorm:"index" json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EncodeStringList flattens a list into the pipe-delimited text column
// format. Used by model hooks and by column-level patch updates, which
// bypass the hooks.
func EncodeStringList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "|" + strings.Join(cleaned, "|") + "|"
}

// DecodeStringList is the inverse of EncodeStringList.
func DecodeStringList(raw string) []string {
	raw = strings.Trim(raw, "|")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		items = append(items, trimmed)
	}
	return items
}
