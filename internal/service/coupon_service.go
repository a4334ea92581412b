package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

// Coupon service errors.
var (
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponBadDate    = errors.New("coupon date must be RFC3339")
	ErrCouponCodeExists = errors.New("coupon code already exists")
)

// CouponService handles admin coupon flows with the same snapshot/log
// contract as the product service.
type CouponService interface {
	List(ctx context.Context, req dto.CouponListRequest) (dto.CouponListResponse, error)
	Get(ctx context.Context, id uint) (dto.CouponResponse, error)
	Create(ctx context.Context, payload dto.CouponCreateRequest, actor ActivityActor) (dto.CouponResponse, error)
	Update(ctx context.Context, id uint, payload dto.CouponUpdateRequest, actor ActivityActor) (dto.CouponResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type couponService struct {
	repo      repository.CouponRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewCouponService constructs the coupon service.
func NewCouponService(repo repository.CouponRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CouponService {
	return &couponService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "coupon_service").Logger(),
	}
}

func (s *couponService) List(ctx context.Context, req dto.CouponListRequest) (dto.CouponListResponse, error) {
	filter := repository.CouponFilter{
		ActiveOnly: req.ActiveOnly,
		Search:     strings.TrimSpace(req.Search),
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}

	coupons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.CouponListResponse{}, err
	}

	items := make([]dto.CouponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		items = append(items, dto.NewCouponResponse(coupon))
	}

	return dto.CouponListResponse{
		Items: items,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, filter.PageSize),
		},
	}, nil
}

func (s *couponService) Get(ctx context.Context, id uint) (dto.CouponResponse, error) {
	coupon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CouponResponse{}, ErrCouponNotFound
		}
		return dto.CouponResponse{}, err
	}
	return dto.NewCouponResponse(coupon), nil
}

func (s *couponService) Create(ctx context.Context, payload dto.CouponCreateRequest, actor ActivityActor) (dto.CouponResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CouponResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(payload.Code))
	if _, err := s.repo.GetByCode(ctx, code); err == nil {
		return dto.CouponResponse{}, ErrCouponCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CouponResponse{}, err
	}

	startDate, err := parseOptionalDate(payload.StartDate)
	if err != nil {
		return dto.CouponResponse{}, ErrCouponBadDate
	}
	endDate, err := parseOptionalDate(payload.EndDate)
	if err != nil {
		return dto.CouponResponse{}, ErrCouponBadDate
	}

	coupon := models.Coupon{
		Code:        code,
		Type:        payload.Type,
		Value:       payload.Value,
		MinOrder:    payload.MinOrder,
		MaxDiscount: payload.MaxDiscount,
		UsageLimit:  payload.UsageLimit,
		IsActive:    payload.IsActive,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.repo.Create(ctx, &coupon); err != nil {
		return dto.CouponResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     models.ActionCouponCreated,
		EntityType: models.EntityCoupon,
		EntityID:   entityIDString(coupon.ID),
		Detail:     coupon.Code,
		NewData:    coupon,
	})

	return dto.NewCouponResponse(coupon), nil
}

func (s *couponService) Update(ctx context.Context, id uint, payload dto.CouponUpdateRequest, actor ActivityActor) (dto.CouponResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CouponResponse{}, err
	}

	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CouponResponse{}, ErrCouponNotFound
		}
		return dto.CouponResponse{}, err
	}

	patch, err := buildCouponPatch(payload)
	if err != nil {
		return dto.CouponResponse{}, err
	}
	if len(patch) == 0 {
		return dto.NewCouponResponse(previous), nil
	}

	if err := s.repo.Patch(ctx, id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CouponResponse{}, ErrCouponNotFound
		}
		return dto.CouponResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CouponResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionCouponUpdated,
		EntityType:   models.EntityCoupon,
		EntityID:     entityIDString(id),
		Detail:       updated.Code,
		PreviousData: previous,
		NewData:      updated,
		CanRevert:    true,
	})

	return dto.NewCouponResponse(updated), nil
}

func (s *couponService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionCouponDeleted,
		EntityType:   models.EntityCoupon,
		EntityID:     entityIDString(id),
		Detail:       previous.Code,
		PreviousData: previous,
	})

	return nil
}

func buildCouponPatch(payload dto.CouponUpdateRequest) (map[string]interface{}, error) {
	patch := make(map[string]interface{})
	if payload.Code != nil {
		patch["code"] = strings.ToUpper(strings.TrimSpace(*payload.Code))
	}
	if payload.Type != nil {
		patch["type"] = *payload.Type
	}
	if payload.Value != nil {
		patch["value"] = *payload.Value
	}
	if payload.MinOrder != nil {
		patch["min_order"] = *payload.MinOrder
	}
	if payload.MaxDiscount != nil {
		patch["max_discount"] = *payload.MaxDiscount
	}
	if payload.UsageLimit != nil {
		patch["usage_limit"] = *payload.UsageLimit
	}
	if payload.IsActive != nil {
		patch["is_active"] = *payload.IsActive
	}
	if payload.StartDate != nil {
		parsed, err := parseOptionalDate(*payload.StartDate)
		if err != nil {
			return nil, ErrCouponBadDate
		}
		patch["start_date"] = parsed
	}
	if payload.EndDate != nil {
		parsed, err := parseOptionalDate(*payload.EndDate)
		if err != nil {
			return nil, ErrCouponBadDate
		}
		patch["end_date"] = parsed
	}
	return patch, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (s *couponService) record(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("activity record dropped")
	}
}
