package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/observability"
	"github.com/aurine/aurine-api/internal/service"
	"github.com/aurine/aurine-api/internal/utils"
)

// AdminActivityHandler exposes the audit trail and the revert endpoint.
type AdminActivityHandler struct {
	activities service.ActivityService
	reverts    service.RevertService
	logger     zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(activities service.ActivityService, reverts service.RevertService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		activities: activities,
		reverts:    reverts,
		logger:     logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches activity routes to the router group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/timeline", h.timeline)
	router.Post("/:id/revert", h.revert)
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	req, err := parseActivityListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.activities.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return utils.SendSuccess(c, "activity retrieved", result)
}

func (h *AdminActivityHandler) timeline(c *fiber.Ctx) error {
	req, err := parseActivityListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.activities.Timeline(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build activity timeline")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build activity timeline")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "activity timeline retrieved", result)
}

func (h *AdminActivityHandler) revert(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	result, err := h.reverts.Revert(c.Context(), id, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			observability.Reverts().WithLabelValues("not_found").Inc()
			return utils.SendError(c, fiber.StatusNotFound, "activity record not found")
		case errors.Is(err, service.ErrNotRevertible):
			observability.Reverts().WithLabelValues("not_revertible").Inc()
			return utils.SendError(c, fiber.StatusConflict, "activity record is not revertible")
		case errors.Is(err, service.ErrProductNotFound),
			errors.Is(err, service.ErrCouponNotFound),
			errors.Is(err, service.ErrBannerNotFound):
			observability.Reverts().WithLabelValues("entity_gone").Inc()
			return utils.SendError(c, fiber.StatusConflict, "target entity no longer exists")
		}
		observability.Reverts().WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Uint("activity_id", id).Msg("failed to revert activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to revert activity")
	}

	observability.Reverts().WithLabelValues("success").Inc()

	return utils.SendSuccess(c, "activity reverted", result)
}

func parseActivityListRequest(c *fiber.Ctx) (dto.ActivityListRequest, error) {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return dto.ActivityListRequest{}, errors.New("invalid limit")
	}

	req := dto.ActivityListRequest{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
		Limit:      limit,
	}

	if raw := c.Query("since"); raw != "" {
		since, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return dto.ActivityListRequest{}, errors.New("since must be RFC3339")
		}
		req.Since = &since
	}

	return req, nil
}
