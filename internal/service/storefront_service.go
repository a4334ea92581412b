package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/observability"
	"github.com/aurine/aurine-api/internal/repository"
)

// StorefrontService serves the public, read-mostly shop surface: the live
// catalogue, active banners, and coupon validation at checkout.
type StorefrontService interface {
	ListProducts(ctx context.Context, req dto.ProductListRequest) (dto.ProductListResponse, error)
	ListBanners(ctx context.Context, position string) ([]dto.BannerResponse, error)
	ValidateCoupon(ctx context.Context, req dto.CouponValidateRequest) (dto.CouponValidateResponse, error)
	RedeemCoupon(ctx context.Context, req dto.CouponValidateRequest) (dto.CouponValidateResponse, error)
}

type storefrontService struct {
	products repository.ProductRepository
	banners  repository.BannerRepository
	coupons  repository.CouponRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStorefrontService constructs the storefront service. The cache client
// is optional; without it every listing hits the database.
func NewStorefrontService(products repository.ProductRepository, banners repository.BannerRepository, coupons repository.CouponRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StorefrontService {
	return &storefrontService{
		products: products,
		banners:  banners,
		coupons:  coupons,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "storefront_service").Logger(),
		now:      time.Now,
	}
}

func (s *storefrontService) ListProducts(ctx context.Context, req dto.ProductListRequest) (dto.ProductListResponse, error) {
	start := time.Now()
	defer func() {
		observability.CatalogLatency().Observe(time.Since(start).Seconds())
	}()

	filter := repository.ProductFilter{
		Collection: strings.TrimSpace(req.Collection),
		Category:   strings.TrimSpace(req.Category),
		Search:     strings.TrimSpace(req.Search),
		LiveOnly:   true,
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}

	cacheKey := s.catalogCacheKey(filter)
	if s.cache != nil && cacheKey != "" {
		if payload, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached dto.ProductListResponse
			if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
				cached.CacheHit = true
				observability.CatalogRequests().WithLabelValues("hit").Inc()
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read catalog cache")
		}
	}

	items, total, err := s.products.List(ctx, filter)
	if err != nil {
		observability.CatalogRequests().WithLabelValues("error").Inc()
		return dto.ProductListResponse{}, err
	}

	responses := make([]dto.ProductResponse, 0, len(items))
	for _, item := range items {
		response := dto.NewProductResponse(item)
		// cost price is back-office data and never leaves the admin surface
		response.CostPrice = 0
		responses = append(responses, response)
	}

	result := dto.ProductListResponse{
		Items: responses,
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
			TotalPages: calculateTotalPages(total, filter.PageSize),
		},
	}

	if s.cache != nil && cacheKey != "" {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write catalog cache")
			}
		}
	}

	observability.CatalogRequests().WithLabelValues("miss").Inc()

	return result, nil
}

func (s *storefrontService) ListBanners(ctx context.Context, position string) ([]dto.BannerResponse, error) {
	banners, err := s.banners.List(ctx, repository.BannerFilter{
		Position:   strings.TrimSpace(position),
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.BannerResponse, 0, len(banners))
	for _, banner := range banners {
		items = append(items, dto.NewBannerResponse(banner))
	}
	return items, nil
}

func (s *storefrontService) ValidateCoupon(ctx context.Context, req dto.CouponValidateRequest) (dto.CouponValidateResponse, error) {
	coupon, err := s.coupons.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidCoupon(req.Code, "unknown code"), nil
		}
		return dto.CouponValidateResponse{}, err
	}

	if reason := s.couponRejection(coupon, req.Subtotal); reason != "" {
		return invalidCoupon(coupon.Code, reason), nil
	}

	return dto.CouponValidateResponse{
		Code:     coupon.Code,
		Valid:    true,
		Discount: couponDiscount(coupon, req.Subtotal),
	}, nil
}

// RedeemCoupon validates and then bumps the usage counter. Called once at
// order placement, not during cart preview.
func (s *storefrontService) RedeemCoupon(ctx context.Context, req dto.CouponValidateRequest) (dto.CouponValidateResponse, error) {
	result, err := s.ValidateCoupon(ctx, req)
	if err != nil || !result.Valid {
		return result, err
	}

	coupon, err := s.coupons.GetByCode(ctx, req.Code)
	if err != nil {
		return dto.CouponValidateResponse{}, err
	}
	if err := s.coupons.IncrementUsage(ctx, coupon.ID); err != nil {
		return dto.CouponValidateResponse{}, err
	}

	return result, nil
}

func (s *storefrontService) couponRejection(coupon models.Coupon, subtotal float64) string {
	now := s.now()
	switch {
	case !coupon.IsActive:
		return "coupon is not active"
	case coupon.StartDate != nil && now.Before(*coupon.StartDate):
		return "coupon is not active yet"
	case coupon.EndDate != nil && now.After(*coupon.EndDate):
		return "coupon has expired"
	case coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit:
		return "coupon usage limit reached"
	case coupon.MinOrder > 0 && subtotal < coupon.MinOrder:
		return "order subtotal below coupon minimum"
	}
	return ""
}

func couponDiscount(coupon models.Coupon, subtotal float64) float64 {
	var discount float64
	switch coupon.Type {
	case models.CouponTypePercent:
		discount = subtotal * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.CouponTypeFixed:
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount
}

func invalidCoupon(code, reason string) dto.CouponValidateResponse {
	return dto.CouponValidateResponse{Code: strings.ToUpper(strings.TrimSpace(code)), Reason: reason}
}

func (s *storefrontService) catalogCacheKey(filter repository.ProductFilter) string {
	if s.cache == nil {
		return ""
	}
	return fmt.Sprintf("catalog:products:v1:%s|%s|%s:%d:%d", filter.Collection, filter.Category, filter.Search, filter.Page, filter.PageSize)
}
