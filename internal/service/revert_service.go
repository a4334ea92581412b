package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

// Revert service errors.
var (
	ErrActivityNotFound = errors.New("activity record not found")
	ErrNotRevertible    = errors.New("activity record is not revertible")
)

// RevertService replays a logged previous snapshot as a forward update
// through the matching entity service. The replay is an ordinary mutation:
// it writes its own activity record, and the original record is untouched.
type RevertService interface {
	Revert(ctx context.Context, activityID uint, actor ActivityActor) (dto.RevertResponse, error)
}

type revertService struct {
	activities repository.ActivityLogRepository
	products   ProductService
	coupons    CouponService
	banners    BannerService
	settings   SettingService
	logger     zerolog.Logger
}

// NewRevertService constructs the revert executor.
func NewRevertService(activities repository.ActivityLogRepository, products ProductService, coupons CouponService, banners BannerService, settings SettingService, logger zerolog.Logger) RevertService {
	return &revertService{
		activities: activities,
		products:   products,
		coupons:    coupons,
		banners:    banners,
		settings:   settings,
		logger:     logger.With().Str("component", "revert_service").Logger(),
	}
}

func (s *revertService) Revert(ctx context.Context, activityID uint, actor ActivityActor) (dto.RevertResponse, error) {
	tracer := otel.Tracer("github.com/aurine/aurine-api/internal/service/revert")
	ctx, span := tracer.Start(ctx, "activity.revert")
	span.SetAttributes(
		attribute.Int64("revert.activity_id", int64(activityID)),
		attribute.Int64("revert.actor_id", int64(actor.ID)),
	)
	defer span.End()

	entry, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "activity_not_found")
			return dto.RevertResponse{}, ErrActivityNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "activity_lookup_failed")
		return dto.RevertResponse{}, err
	}

	span.SetAttributes(attribute.String("revert.entity_type", entry.EntityType))

	// Guard before any side effect. Settings entries are the one case where
	// a nil previous snapshot is still revertible: a single-key write over a
	// previously absent key reverts to deleting the key, and a multi-key
	// write reverts by re-applying its NewData map forward.
	if !entry.CanRevert || !s.hasRevertPayload(entry) {
		span.SetStatus(codes.Error, "not_revertible")
		return dto.RevertResponse{}, ErrNotRevertible
	}

	if err := s.dispatch(ctx, entry, actor); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "revert_failed")
		return dto.RevertResponse{}, err
	}

	s.logger.Info().
		Uint("activity_id", entry.ID).
		Str("entity_type", entry.EntityType).
		Msg("activity reverted")

	return dto.RevertResponse{
		ActivityID: entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Reverted:   true,
	}, nil
}

func (s *revertService) hasRevertPayload(entry models.ActivityLog) bool {
	if len(entry.PreviousData) > 0 {
		return true
	}
	if entry.EntityType != models.EntitySettings {
		return false
	}
	// single-key absence revert, or multi-key forward re-apply
	return entry.EntityID != nil || len(entry.NewData) > 0
}

func (s *revertService) dispatch(ctx context.Context, entry models.ActivityLog, actor ActivityActor) error {
	switch entry.EntityType {
	case models.EntityProduct:
		return s.revertProduct(ctx, entry, actor)
	case models.EntityCoupon:
		return s.revertCoupon(ctx, entry, actor)
	case models.EntityBanner:
		return s.revertBanner(ctx, entry, actor)
	case models.EntitySettings:
		return s.revertSettings(ctx, entry, actor)
	default:
		return fmt.Errorf("unsupported entity type %q", entry.EntityType)
	}
}

func (s *revertService) revertProduct(ctx context.Context, entry models.ActivityLog, actor ActivityActor) error {
	id, ok := targetID(entry)
	if !ok {
		return ErrNotRevertible
	}
	var patch dto.ProductUpdateRequest
	if err := json.Unmarshal(entry.PreviousData, &patch); err != nil {
		return fmt.Errorf("decode previous snapshot: %w", err)
	}
	_, err := s.products.Update(ctx, id, patch, actor)
	return err
}

func (s *revertService) revertCoupon(ctx context.Context, entry models.ActivityLog, actor ActivityActor) error {
	id, ok := targetID(entry)
	if !ok {
		return ErrNotRevertible
	}
	var patch dto.CouponUpdateRequest
	if err := json.Unmarshal(entry.PreviousData, &patch); err != nil {
		return fmt.Errorf("decode previous snapshot: %w", err)
	}
	markClearedCouponDates(entry.PreviousData, &patch)
	_, err := s.coupons.Update(ctx, id, patch, actor)
	return err
}

// markClearedCouponDates rewrites snapshot JSON nulls as explicit
// empty-string date markers. A nil pointer in the patch means "leave
// untouched", so a date that was null before the logged write would
// otherwise survive the replay.
func markClearedCouponDates(snapshot []byte, patch *dto.CouponUpdateRequest) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(snapshot, &raw); err != nil {
		return
	}
	if string(raw["start_date"]) == "null" {
		patch.StartDate = new(string)
	}
	if string(raw["end_date"]) == "null" {
		patch.EndDate = new(string)
	}
}

func (s *revertService) revertBanner(ctx context.Context, entry models.ActivityLog, actor ActivityActor) error {
	id, ok := targetID(entry)
	if !ok {
		return ErrNotRevertible
	}
	var patch dto.BannerUpdateRequest
	if err := json.Unmarshal(entry.PreviousData, &patch); err != nil {
		return fmt.Errorf("decode previous snapshot: %w", err)
	}
	_, err := s.banners.Update(ctx, id, patch, actor)
	return err
}

func (s *revertService) revertSettings(ctx context.Context, entry models.ActivityLog, actor ActivityActor) error {
	if entry.EntityID != nil {
		key := *entry.EntityID
		if len(entry.PreviousData) == 0 {
			// the key did not exist before the logged write
			err := s.settings.Unset(ctx, key, actor)
			if errors.Is(err, ErrSettingNotFound) {
				return nil
			}
			return err
		}
		_, err := s.settings.Set(ctx, key, json.RawMessage(entry.PreviousData), actor)
		return err
	}

	// multi-key batch: no per-key previous snapshots were stored, so the
	// recorded map is re-applied forward key by key
	var values map[string]json.RawMessage
	if err := json.Unmarshal(entry.NewData, &values); err != nil {
		return fmt.Errorf("decode settings batch: %w", err)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := s.settings.Set(ctx, key, values[key], actor); err != nil {
			return err
		}
	}
	return nil
}

func targetID(entry models.ActivityLog) (uint, bool) {
	if entry.EntityID == nil {
		return 0, false
	}
	return parseEntityID(*entry.EntityID)
}
