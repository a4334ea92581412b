package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/service"
	"github.com/aurine/aurine-api/internal/utils"
)

// AdminCouponHandler manages admin coupon routes.
type AdminCouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewAdminCouponHandler constructs the handler.
func NewAdminCouponHandler(service service.CouponService, logger zerolog.Logger) *AdminCouponHandler {
	return &AdminCouponHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_coupon_handler").Logger(),
	}
}

// Register attaches coupon routes to the router group.
func (h *AdminCouponHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AdminCouponHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.CouponListRequest{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		ActiveOnly: c.QueryBool("active_only"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list coupons")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list coupons")
	}

	return utils.SendSuccess(c, "coupons retrieved", result)
}

func (h *AdminCouponHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid coupon id")
	}

	coupon, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "coupon not found")
		}
		h.logger.Error().Err(err).Uint("coupon_id", id).Msg("failed to fetch coupon")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch coupon")
	}

	return utils.SendSuccess(c, "coupon retrieved", coupon)
}

func (h *AdminCouponHandler) create(c *fiber.Ctx) error {
	var payload dto.CouponCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	coupon, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrCouponBadDate):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCouponCodeExists):
			return utils.SendError(c, fiber.StatusConflict, "coupon code already exists")
		}
		h.logger.Error().Err(err).Msg("failed to create coupon")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create coupon")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "coupon created", coupon)
}

func (h *AdminCouponHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid coupon id")
	}

	var payload dto.CouponUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	coupon, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "coupon not found")
		case isValidationError(err), errors.Is(err, service.ErrCouponBadDate):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Uint("coupon_id", id).Msg("failed to update coupon")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update coupon")
	}

	return utils.SendSuccess(c, "coupon updated", coupon)
}

func (h *AdminCouponHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid coupon id")
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "coupon not found")
		}
		h.logger.Error().Err(err).Uint("coupon_id", id).Msg("failed to delete coupon")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete coupon")
	}

	return utils.SendSuccess(c, "coupon deleted", nil)
}
