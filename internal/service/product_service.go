package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

// ErrProductNotFound indicates the referenced product row does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductService handles admin catalogue flows. Every successful mutation
// appends exactly one activity record; updates capture the row state before
// and after the write so the change can be replayed backwards.
type ProductService interface {
	List(ctx context.Context, req dto.ProductListRequest) (dto.ProductListResponse, error)
	Get(ctx context.Context, id uint) (dto.ProductResponse, error)
	Create(ctx context.Context, payload dto.ProductCreateRequest, actor ActivityActor) (dto.ProductResponse, error)
	Update(ctx context.Context, id uint, payload dto.ProductUpdateRequest, actor ActivityActor) (dto.ProductResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type productService struct {
	repo      repository.ProductRepository
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProductService constructs the product service.
func NewProductService(repo repository.ProductRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) ProductService {
	return &productService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "product_service").Logger(),
	}
}

func (s *productService) List(ctx context.Context, req dto.ProductListRequest) (dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		Collection: strings.TrimSpace(req.Collection),
		Category:   strings.TrimSpace(req.Category),
		Search:     strings.TrimSpace(req.Search),
		LiveOnly:   req.LiveOnly,
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ProductListResponse{}, err
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, dto.NewProductResponse(product))
	}

	return dto.ProductListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, filter.PageSize),
		},
	}, nil
}

func (s *productService) Get(ctx context.Context, id uint) (dto.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductResponse{}, ErrProductNotFound
		}
		return dto.ProductResponse{}, err
	}
	return dto.NewProductResponse(product), nil
}

func (s *productService) Create(ctx context.Context, payload dto.ProductCreateRequest, actor ActivityActor) (dto.ProductResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProductResponse{}, err
	}

	inStock := true
	if payload.InStock != nil {
		inStock = *payload.InStock
	}

	product := models.Product{
		Slug:          generateProductSlug(payload.Name),
		Name:          strings.TrimSpace(payload.Name),
		Description:   s.sanitizer.Sanitize(strings.TrimSpace(payload.Description)),
		Price:         payload.Price,
		OriginalPrice: payload.OriginalPrice,
		CostPrice:     payload.CostPrice,
		Collection:    strings.TrimSpace(payload.Collection),
		Category:      strings.TrimSpace(payload.Category),
		Images:        payload.Images,
		InStock:       inStock,
		IsLive:        payload.IsLive,
		Stock:         payload.Stock,
	}

	if err := s.repo.Create(ctx, &product); err != nil {
		return dto.ProductResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     models.ActionProductCreated,
		EntityType: models.EntityProduct,
		EntityID:   entityIDString(product.ID),
		Detail:     product.Name,
		NewData:    product,
	})

	return dto.NewProductResponse(product), nil
}

func (s *productService) Update(ctx context.Context, id uint, payload dto.ProductUpdateRequest, actor ActivityActor) (dto.ProductResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProductResponse{}, err
	}

	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductResponse{}, ErrProductNotFound
		}
		return dto.ProductResponse{}, err
	}

	patch := s.buildPatch(payload)
	if len(patch) == 0 {
		return dto.NewProductResponse(previous), nil
	}

	if err := s.repo.Patch(ctx, id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductResponse{}, ErrProductNotFound
		}
		return dto.ProductResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionProductUpdated,
		EntityType:   models.EntityProduct,
		EntityID:     entityIDString(id),
		Detail:       updated.Name,
		PreviousData: previous,
		NewData:      updated,
		CanRevert:    true,
	})

	return dto.NewProductResponse(updated), nil
}

func (s *productService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionProductDeleted,
		EntityType:   models.EntityProduct,
		EntityID:     entityIDString(id),
		Detail:       previous.Name,
		PreviousData: previous,
	})

	return nil
}

func (s *productService) buildPatch(payload dto.ProductUpdateRequest) map[string]interface{} {
	patch := make(map[string]interface{})
	if payload.Name != nil {
		patch["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		patch["description"] = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Description))
	}
	if payload.Price != nil {
		patch["price"] = *payload.Price
	}
	if payload.OriginalPrice != nil {
		patch["original_price"] = *payload.OriginalPrice
	}
	if payload.CostPrice != nil {
		patch["cost_price"] = *payload.CostPrice
	}
	if payload.Collection != nil {
		patch["collection"] = strings.TrimSpace(*payload.Collection)
	}
	if payload.Category != nil {
		patch["category"] = strings.TrimSpace(*payload.Category)
	}
	if payload.Images != nil {
		patch["images"] = models.EncodeStringList(*payload.Images)
	}
	if payload.InStock != nil {
		patch["in_stock"] = *payload.InStock
	}
	if payload.IsLive != nil {
		patch["is_live"] = *payload.IsLive
	}
	if payload.Stock != nil {
		patch["stock"] = *payload.Stock
	}
	return patch
}

// record appends an activity entry. The primary mutation has already
// succeeded at this point, so a log failure is reported but not surfaced.
func (s *productService) record(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("activity record dropped")
	}
}
