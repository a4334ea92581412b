package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

type revertFixture struct {
	activities repository.ActivityLogRepository
	activity   ActivityService
	products   ProductService
	coupons    CouponService
	banners    BannerService
	settings   SettingService
	reverts    RevertService
}

func newRevertFixture(t *testing.T) revertFixture {
	t.Helper()
	db := setupServiceTestDB(t, &models.Product{}, &models.Coupon{}, &models.Banner{}, &models.Setting{}, &models.ActivityLog{})
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := testLogger()

	activityRepo := repository.NewActivityLogRepository(db)
	activityService := NewActivityService(activityRepo, nil, 0, logger)

	productService := NewProductService(repository.NewProductRepository(db), validate, activityService, logger)
	couponService := NewCouponService(repository.NewCouponRepository(db), validate, activityService, logger)
	bannerService := NewBannerService(repository.NewBannerRepository(db), validate, activityService, logger)
	settingService, err := NewSettingService(repository.NewSettingRepository(db), activityService, logger)
	require.NoError(t, err)

	return revertFixture{
		activities: activityRepo,
		activity:   activityService,
		products:   productService,
		coupons:    couponService,
		banners:    bannerService,
		settings:   settingService,
		reverts:    NewRevertService(activityRepo, productService, couponService, bannerService, settingService, logger),
	}
}

func (f revertFixture) latestEntry(t *testing.T, action string) models.ActivityLog {
	t.Helper()
	entries, err := f.activities.List(context.Background(), repository.ActivityLogFilter{Action: action, Limit: 1})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	return entries[0]
}

func TestRevertRestoresPreviousProductState(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 1, Role: "admin"}

	created, err := f.products.Create(context.Background(), dto.ProductCreateRequest{Name: "Gold Ring", Price: 100}, actor)
	require.NoError(t, err)

	newPrice := 80.0
	_, err = f.products.Update(context.Background(), created.ID, dto.ProductUpdateRequest{Price: &newPrice}, actor)
	require.NoError(t, err)

	entry := f.latestEntry(t, models.ActionProductUpdated)
	require.True(t, entry.CanRevert)

	result, err := f.reverts.Revert(context.Background(), entry.ID, actor)
	require.NoError(t, err)
	require.True(t, result.Reverted)
	require.Equal(t, models.EntityProduct, result.EntityType)

	restored, err := f.products.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, restored.Price)

	// the replay is an ordinary update: it appends its own entry and the
	// original record stays intact
	entries, err := f.activities.List(context.Background(), repository.ActivityLogFilter{Action: models.ActionProductUpdated})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	original, err := f.activities.GetByID(context.Background(), entry.ID)
	require.NoError(t, err)
	require.JSONEq(t, string(entry.PreviousData), string(original.PreviousData))
}

func TestRevertClearsCouponDateThatWasPreviouslyNull(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 1, Role: "admin"}

	created, err := f.coupons.Create(context.Background(), dto.CouponCreateRequest{
		Code:  "WINTER",
		Type:  models.CouponTypePercent,
		Value: 10,
	}, actor)
	require.NoError(t, err)
	require.Nil(t, created.EndDate)

	endDate := "2027-01-01T00:00:00Z"
	_, err = f.coupons.Update(context.Background(), created.ID, dto.CouponUpdateRequest{EndDate: &endDate}, actor)
	require.NoError(t, err)

	entry := f.latestEntry(t, models.ActionCouponUpdated)
	require.Contains(t, string(entry.PreviousData), `"end_date":null`)

	_, err = f.reverts.Revert(context.Background(), entry.ID, actor)
	require.NoError(t, err)

	restored, err := f.coupons.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Nil(t, restored.EndDate)
	require.Nil(t, restored.StartDate)
}

func TestRevertRejectsNonRevertibleEntries(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 1, Role: "admin"}

	created, err := f.coupons.Create(context.Background(), dto.CouponCreateRequest{
		Code:  "FLASH",
		Type:  models.CouponTypeFixed,
		Value: 5,
	}, actor)
	require.NoError(t, err)

	createEntry := f.latestEntry(t, models.ActionCouponCreated)
	_, err = f.reverts.Revert(context.Background(), createEntry.ID, actor)
	require.ErrorIs(t, err, ErrNotRevertible)

	require.NoError(t, f.coupons.Delete(context.Background(), created.ID, actor))

	deleteEntry := f.latestEntry(t, models.ActionCouponDeleted)
	_, err = f.reverts.Revert(context.Background(), deleteEntry.ID, actor)
	require.ErrorIs(t, err, ErrNotRevertible)

	// the guard fires before any side effect
	_, err = f.coupons.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrCouponNotFound)
}

func TestRevertUnknownActivity(t *testing.T) {
	f := newRevertFixture(t)

	_, err := f.reverts.Revert(context.Background(), 9999, ActivityActor{ID: 1, Role: "admin"})
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestRevertFailsWhenTargetEntityIsGone(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 1, Role: "admin"}

	created, err := f.products.Create(context.Background(), dto.ProductCreateRequest{Name: "Bracelet", Price: 40}, actor)
	require.NoError(t, err)

	newPrice := 35.0
	_, err = f.products.Update(context.Background(), created.ID, dto.ProductUpdateRequest{Price: &newPrice}, actor)
	require.NoError(t, err)

	entry := f.latestEntry(t, models.ActionProductUpdated)
	require.NoError(t, f.products.Delete(context.Background(), created.ID, actor))

	_, err = f.reverts.Revert(context.Background(), entry.ID, actor)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestRevertSettingWriteOverAbsentKeyDeletesIt(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 2, Role: "admin"}

	_, err := f.settings.Set(context.Background(), "store.theme", json.RawMessage(`"dark"`), actor)
	require.NoError(t, err)

	entry := f.latestEntry(t, models.ActionSettingsChanged)
	require.Empty(t, entry.PreviousData)

	result, err := f.reverts.Revert(context.Background(), entry.ID, actor)
	require.NoError(t, err)
	require.True(t, result.Reverted)

	_, err = f.settings.Get(context.Background(), "store.theme")
	require.ErrorIs(t, err, ErrSettingNotFound)
}

func TestRevertSettingWriteRestoresPreviousValue(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 2, Role: "admin"}

	_, err := f.settings.Set(context.Background(), "store.currency", json.RawMessage(`"USD"`), actor)
	require.NoError(t, err)
	_, err = f.settings.Set(context.Background(), "store.currency", json.RawMessage(`"EUR"`), actor)
	require.NoError(t, err)

	entry := f.latestEntry(t, models.ActionSettingsChanged)
	require.JSONEq(t, `"USD"`, string(entry.PreviousData))

	_, err = f.reverts.Revert(context.Background(), entry.ID, actor)
	require.NoError(t, err)

	current, err := f.settings.Get(context.Background(), "store.currency")
	require.NoError(t, err)
	require.JSONEq(t, `"USD"`, string(current.Value))
}

func TestRevertSettingsBatchReappliesRecordedValues(t *testing.T) {
	f := newRevertFixture(t)
	actor := ActivityActor{ID: 2, Role: "admin"}

	_, err := f.settings.SetMultiple(context.Background(), map[string]json.RawMessage{
		"store.theme":    json.RawMessage(`"dark"`),
		"store.currency": json.RawMessage(`"EUR"`),
	}, actor)
	require.NoError(t, err)

	batchEntry := f.latestEntry(t, models.ActionSettingsChanged)
	require.Nil(t, batchEntry.EntityID)

	// drift one of the keys, then replay the batch
	_, err = f.settings.Set(context.Background(), "store.theme", json.RawMessage(`"light"`), actor)
	require.NoError(t, err)

	_, err = f.reverts.Revert(context.Background(), batchEntry.ID, actor)
	require.NoError(t, err)

	theme, err := f.settings.Get(context.Background(), "store.theme")
	require.NoError(t, err)
	require.JSONEq(t, `"dark"`, string(theme.Value))

	currency, err := f.settings.Get(context.Background(), "store.currency")
	require.NoError(t, err)
	require.JSONEq(t, `"EUR"`, string(currency.Value))
}
