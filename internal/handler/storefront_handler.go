package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/service"
	"github.com/aurine/aurine-api/internal/utils"
)

// StorefrontHandler serves the public shop endpoints.
type StorefrontHandler struct {
	service service.StorefrontService
	logger  zerolog.Logger
}

// NewStorefrontHandler constructs the handler.
func NewStorefrontHandler(service service.StorefrontService, logger zerolog.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		service: service,
		logger:  logger.With().Str("component", "storefront_handler").Logger(),
	}
}

// Register attaches the public storefront routes.
func (h *StorefrontHandler) Register(router fiber.Router) {
	router.Get("/products", h.products)
	router.Get("/banners", h.banners)
	router.Post("/coupon/validate", h.validateCoupon)
	router.Post("/coupon/redeem", h.redeemCoupon)
}

func (h *StorefrontHandler) products(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.ProductListRequest{
		Page:       page,
		PageSize:   pageSize,
		Collection: c.Query("collection"),
		Category:   c.Query("category"),
		Search:     c.Query("search"),
	}

	result, err := h.service.ListProducts(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list catalogue")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list products")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "products retrieved", result)
}

func (h *StorefrontHandler) banners(c *fiber.Ctx) error {
	items, err := h.service.ListBanners(c.Context(), c.Query("position"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list banners")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list banners")
	}

	return utils.SendSuccess(c, "banners retrieved", items)
}

func (h *StorefrontHandler) validateCoupon(c *fiber.Ctx) error {
	var payload dto.CouponValidateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Code == "" || payload.Subtotal <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "code and positive subtotal are required")
	}

	result, err := h.service.ValidateCoupon(c.Context(), payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to validate coupon")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to validate coupon")
	}

	return utils.SendSuccess(c, "coupon checked", result)
}

func (h *StorefrontHandler) redeemCoupon(c *fiber.Ctx) error {
	var payload dto.CouponValidateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Code == "" || payload.Subtotal <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "code and positive subtotal are required")
	}

	result, err := h.service.RedeemCoupon(c.Context(), payload)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to redeem coupon")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to redeem coupon")
	}

	return utils.SendSuccess(c, "coupon redeemed", result)
}
