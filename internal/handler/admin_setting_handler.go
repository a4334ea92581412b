package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/service"
	"github.com/aurine/aurine-api/internal/utils"
)

// AdminSettingHandler manages the storefront settings routes.
type AdminSettingHandler struct {
	service service.SettingService
	logger  zerolog.Logger
}

// NewAdminSettingHandler constructs the handler.
func NewAdminSettingHandler(service service.SettingService, logger zerolog.Logger) *AdminSettingHandler {
	return &AdminSettingHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_setting_handler").Logger(),
	}
}

// Register attaches settings routes to the router group.
func (h *AdminSettingHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Put("", h.putBulk)
	router.Get("/:key", h.get)
	router.Put("/:key", h.put)
	router.Delete("/:key", h.unset)
}

func (h *AdminSettingHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list settings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list settings")
	}

	return utils.SendSuccess(c, "settings retrieved", result)
}

func (h *AdminSettingHandler) get(c *fiber.Ctx) error {
	key := c.Params("key")

	setting, err := h.service.Get(c.Context(), key)
	if err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "setting not found")
		}
		h.logger.Error().Err(err).Str("key", key).Msg("failed to fetch setting")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch setting")
	}

	return utils.SendSuccess(c, "setting retrieved", setting)
}

func (h *AdminSettingHandler) put(c *fiber.Ctx) error {
	key := c.Params("key")

	var payload dto.SettingPutRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	setting, err := h.service.Set(c.Context(), key, payload.Value, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSettingInvalidJSON), errors.Is(err, service.ErrSettingSchemaFailed):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Str("key", key).Msg("failed to write setting")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to write setting")
	}

	return utils.SendSuccess(c, "setting saved", setting)
}

func (h *AdminSettingHandler) putBulk(c *fiber.Ctx) error {
	var payload dto.SettingBulkPutRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if len(payload.Values) == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "at least one setting is required")
	}

	result, err := h.service.SetMultiple(c.Context(), payload.Values, actorFromContext(c))
	if err != nil {
		var partial *service.PartialApplyError
		if errors.As(err, &partial) {
			h.logger.Warn().
				Strs("applied", partial.Applied).
				Str("failed_key", partial.FailedKey).
				Msg("settings batch partially applied")
			return utils.SendError(c, fiber.StatusConflict, partial.Error())
		}
		h.logger.Error().Err(err).Msg("failed to write settings batch")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to write settings")
	}

	return utils.SendSuccess(c, "settings saved", result)
}

func (h *AdminSettingHandler) unset(c *fiber.Ctx) error {
	key := c.Params("key")

	if err := h.service.Unset(c.Context(), key, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrSettingNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "setting not found")
		}
		h.logger.Error().Err(err).Str("key", key).Msg("failed to delete setting")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete setting")
	}

	return utils.SendSuccess(c, "setting deleted", nil)
}
