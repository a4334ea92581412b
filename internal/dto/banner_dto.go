package dto

import (
	"time"

	"github.com/aurine/aurine-api/internal/models"
)

// BannerCreateRequest captures a new storefront banner.
type BannerCreateRequest struct {
	Title           string `json:"title" validate:"required,min=2,max=255"`
	Subtitle        string `json:"subtitle"`
	LinkURL         string `json:"link_url" validate:"omitempty,max=512"`
	LinkText        string `json:"link_text" validate:"omitempty,max=128"`
	Position        string `json:"position" validate:"omitempty,max=64"`
	BackgroundColor string `json:"background_color" validate:"omitempty,max=32"`
	TextColor       string `json:"text_color" validate:"omitempty,max=32"`
	Image           string `json:"image" validate:"omitempty,max=512"`
	IsActive        bool   `json:"is_active"`
	DisplayOrder    int    `json:"display_order"`
}

// BannerUpdateRequest is a partial patch; only set fields are written.
type BannerUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=2,max=255"`
	Subtitle        *string `json:"subtitle"`
	LinkURL         *string `json:"link_url" validate:"omitempty,max=512"`
	LinkText        *string `json:"link_text" validate:"omitempty,max=128"`
	Position        *string `json:"position" validate:"omitempty,max=64"`
	BackgroundColor *string `json:"background_color" validate:"omitempty,max=32"`
	TextColor       *string `json:"text_color" validate:"omitempty,max=32"`
	Image           *string `json:"image" validate:"omitempty,max=512"`
	IsActive        *bool   `json:"is_active"`
	DisplayOrder    *int    `json:"display_order"`
}

// BannerResponse serializes a banner.
type BannerResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	LinkURL         string    `json:"link_url"`
	LinkText        string    `json:"link_text"`
	Position        string    `json:"position"`
	BackgroundColor string    `json:"background_color"`
	TextColor       string    `json:"text_color"`
	Image           string    `json:"image"`
	IsActive        bool      `json:"is_active"`
	DisplayOrder    int       `json:"display_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewBannerResponse converts a model into its DTO.
func NewBannerResponse(banner models.Banner) BannerResponse {
	return BannerResponse{
		ID:              banner.ID,
		Title:           banner.Title,
		Subtitle:        banner.Subtitle,
		LinkURL:         banner.LinkURL,
		LinkText:        banner.LinkText,
		Position:        banner.Position,
		BackgroundColor: banner.BackgroundColor,
		TextColor:       banner.TextColor,
		Image:           banner.Image,
		IsActive:        banner.IsActive,
		DisplayOrder:    banner.DisplayOrder,
		CreatedAt:       banner.CreatedAt,
		UpdatedAt:       banner.UpdatedAt,
	}
}
