package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

func newStorefrontFixture(t *testing.T, cache *redis.Client) (*storefrontService, *gormRepos) {
	t.Helper()
	db := setupServiceTestDB(t, &models.Product{}, &models.Banner{}, &models.Coupon{})
	repos := &gormRepos{
		products: repository.NewProductRepository(db),
		banners:  repository.NewBannerRepository(db),
		coupons:  repository.NewCouponRepository(db),
	}
	svc := NewStorefrontService(repos.products, repos.banners, repos.coupons, cache, time.Minute, testLogger()).(*storefrontService)
	return svc, repos
}

type gormRepos struct {
	products repository.ProductRepository
	banners  repository.BannerRepository
	coupons  repository.CouponRepository
}

func TestStorefrontListProductsHidesDraftsAndCostPrice(t *testing.T) {
	svc, repos := newStorefrontFixture(t, nil)

	live := models.Product{Slug: "ring", Name: "Gold Ring", Price: 120, CostPrice: 40, IsLive: true}
	draft := models.Product{Slug: "draft", Name: "Draft", Price: 10, IsLive: false}
	require.NoError(t, repos.products.Create(context.Background(), &live))
	require.NoError(t, repos.products.Create(context.Background(), &draft))

	result, err := svc.ListProducts(context.Background(), dto.ProductListRequest{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "ring", result.Items[0].Slug)
	require.Zero(t, result.Items[0].CostPrice, "cost price never leaves the admin surface")
}

func TestStorefrontListProductsCaching(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, repos := newStorefrontFixture(t, client)

	product := models.Product{Slug: "studs", Name: "Pearl Studs", Price: 60, IsLive: true}
	require.NoError(t, repos.products.Create(context.Background(), &product))

	first, err := svc.ListProducts(context.Background(), dto.ProductListRequest{})
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.ListProducts(context.Background(), dto.ProductListRequest{})
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Len(t, second.Items, 1)

	// different filters get their own cache slots
	other, err := svc.ListProducts(context.Background(), dto.ProductListRequest{Category: "rings"})
	require.NoError(t, err)
	require.False(t, other.CacheHit)
}

func TestStorefrontListBannersActiveOnly(t *testing.T) {
	svc, repos := newStorefrontFixture(t, nil)

	require.NoError(t, repos.banners.Create(context.Background(), &models.Banner{Title: "Sale", Position: "home", IsActive: true}))
	require.NoError(t, repos.banners.Create(context.Background(), &models.Banner{Title: "Old", Position: "home", IsActive: false}))

	banners, err := svc.ListBanners(context.Background(), "home")
	require.NoError(t, err)
	require.Len(t, banners, 1)
	require.Equal(t, "Sale", banners[0].Title)
}

func TestStorefrontValidateCouponRejections(t *testing.T) {
	svc, repos := newStorefrontFixture(t, nil)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	seed := []models.Coupon{
		{Code: "INACTIVE", Type: models.CouponTypeFixed, Value: 5, IsActive: false},
		{Code: "EARLY", Type: models.CouponTypeFixed, Value: 5, IsActive: true, StartDate: &future},
		{Code: "EXPIRED", Type: models.CouponTypeFixed, Value: 5, IsActive: true, EndDate: &past},
		{Code: "USEDUP", Type: models.CouponTypeFixed, Value: 5, IsActive: true, UsageLimit: 1, UsedCount: 1},
		{Code: "BIGMIN", Type: models.CouponTypeFixed, Value: 5, IsActive: true, MinOrder: 200},
	}
	for i := range seed {
		require.NoError(t, repos.coupons.Create(context.Background(), &seed[i]))
	}

	cases := []struct {
		code   string
		reason string
	}{
		{"MISSING", "unknown code"},
		{"INACTIVE", "coupon is not active"},
		{"EARLY", "coupon is not active yet"},
		{"EXPIRED", "coupon has expired"},
		{"USEDUP", "coupon usage limit reached"},
		{"BIGMIN", "order subtotal below coupon minimum"},
	}
	for _, tc := range cases {
		result, err := svc.ValidateCoupon(context.Background(), dto.CouponValidateRequest{Code: tc.code, Subtotal: 100})
		require.NoError(t, err, tc.code)
		require.False(t, result.Valid, tc.code)
		require.Equal(t, tc.reason, result.Reason, tc.code)
	}
}

func TestStorefrontValidateCouponDiscounts(t *testing.T) {
	svc, repos := newStorefrontFixture(t, nil)

	percent := models.Coupon{Code: "TEN", Type: models.CouponTypePercent, Value: 10, MaxDiscount: 15, IsActive: true}
	fixed := models.Coupon{Code: "FIVER", Type: models.CouponTypeFixed, Value: 5, IsActive: true}
	big := models.Coupon{Code: "HUGE", Type: models.CouponTypeFixed, Value: 500, IsActive: true}
	require.NoError(t, repos.coupons.Create(context.Background(), &percent))
	require.NoError(t, repos.coupons.Create(context.Background(), &fixed))
	require.NoError(t, repos.coupons.Create(context.Background(), &big))

	tenPct, err := svc.ValidateCoupon(context.Background(), dto.CouponValidateRequest{Code: "ten", Subtotal: 100})
	require.NoError(t, err)
	require.True(t, tenPct.Valid)
	require.Equal(t, 10.0, tenPct.Discount)

	capped, err := svc.ValidateCoupon(context.Background(), dto.CouponValidateRequest{Code: "TEN", Subtotal: 400})
	require.NoError(t, err)
	require.Equal(t, 15.0, capped.Discount, "percent discount honors the cap")

	flat, err := svc.ValidateCoupon(context.Background(), dto.CouponValidateRequest{Code: "FIVER", Subtotal: 100})
	require.NoError(t, err)
	require.Equal(t, 5.0, flat.Discount)

	clamped, err := svc.ValidateCoupon(context.Background(), dto.CouponValidateRequest{Code: "HUGE", Subtotal: 50})
	require.NoError(t, err)
	require.Equal(t, 50.0, clamped.Discount, "discount never exceeds the subtotal")
}

func TestStorefrontRedeemCouponIncrementsUsage(t *testing.T) {
	svc, repos := newStorefrontFixture(t, nil)

	coupon := models.Coupon{Code: "ONCE", Type: models.CouponTypeFixed, Value: 5, IsActive: true, UsageLimit: 1}
	require.NoError(t, repos.coupons.Create(context.Background(), &coupon))

	redeemed, err := svc.RedeemCoupon(context.Background(), dto.CouponValidateRequest{Code: "ONCE", Subtotal: 100})
	require.NoError(t, err)
	require.True(t, redeemed.Valid)

	again, err := svc.RedeemCoupon(context.Background(), dto.CouponValidateRequest{Code: "ONCE", Subtotal: 100})
	require.NoError(t, err)
	require.False(t, again.Valid)
	require.Equal(t, "coupon usage limit reached", again.Reason)
}
