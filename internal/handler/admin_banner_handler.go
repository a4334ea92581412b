package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/service"
	"github.com/aurine/aurine-api/internal/utils"
)

// AdminBannerHandler manages admin banner routes.
type AdminBannerHandler struct {
	service service.BannerService
	logger  zerolog.Logger
}

// NewAdminBannerHandler constructs the handler.
func NewAdminBannerHandler(service service.BannerService, logger zerolog.Logger) *AdminBannerHandler {
	return &AdminBannerHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_banner_handler").Logger(),
	}
}

// Register attaches banner routes to the router group.
func (h *AdminBannerHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AdminBannerHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context(), c.Query("position"), c.QueryBool("active_only"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list banners")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list banners")
	}

	return utils.SendSuccess(c, "banners retrieved", items)
}

func (h *AdminBannerHandler) create(c *fiber.Ctx) error {
	var payload dto.BannerCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	banner, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to create banner")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create banner")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "banner created", banner)
}

func (h *AdminBannerHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid banner id")
	}

	var payload dto.BannerUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	banner, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBannerNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "banner not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Uint("banner_id", id).Msg("failed to update banner")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update banner")
	}

	return utils.SendSuccess(c, "banner updated", banner)
}

func (h *AdminBannerHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid banner id")
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "banner not found")
		}
		h.logger.Error().Err(err).Uint("banner_id", id).Msg("failed to delete banner")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete banner")
	}

	return utils.SendSuccess(c, "banner deleted", nil)
}
