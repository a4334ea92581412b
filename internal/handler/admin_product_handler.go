package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/service"
	"github.com/aurine/aurine-api/internal/utils"
)

// AdminProductHandler manages admin catalogue routes.
type AdminProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewAdminProductHandler constructs the handler.
func NewAdminProductHandler(service service.ProductService, logger zerolog.Logger) *AdminProductHandler {
	return &AdminProductHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_product_handler").Logger(),
	}
}

// Register attaches product routes to the router group.
func (h *AdminProductHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *AdminProductHandler) list(c *fiber.Ctx) error {
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
		LiveOnly:   c.QueryBool("live_only"),
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list products")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return utils.SendSuccess(c, "products retrieved", result)
}

func (h *AdminProductHandler) get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "product not found")
		}
		h.logger.Error().Err(err).Uint("product_id", id).Msg("failed to fetch product")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch product")
	}

	return utils.SendSuccess(c, "product retrieved", product)
}

func (h *AdminProductHandler) create(c *fiber.Ctx) error {
	var payload dto.ProductCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	product, err := h.service.Create(c.Context(), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to create product")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create product")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "product created", product)
}

func (h *AdminProductHandler) update(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid product id")
	}

	var payload dto.ProductUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	product, err := h.service.Update(c.Context(), id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "product not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Uint("product_id", id).Msg("failed to update product")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update product")
	}

	return utils.SendSuccess(c, "product updated", product)
}

func (h *AdminProductHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "product not found")
		}
		h.logger.Error().Err(err).Uint("product_id", id).Msg("failed to delete product")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete product")
	}

	return utils.SendSuccess(c, "product deleted", nil)
}
