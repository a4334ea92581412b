package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

// ActivityActor identifies the authenticated admin performing an action.
type ActivityActor struct {
	ID   uint
	Role string
}

// ActivityEntry captures one mutation for the audit trail. PreviousData and
// NewData are snapshots taken around the write; a nil PreviousData means the
// entity had no prior state.
type ActivityEntry struct {
	ActorID      uint
	ActorRole    string
	Action       string
	EntityType   string
	EntityID     *string
	Label        string
	Detail       string
	PreviousData interface{}
	NewData      interface{}
	CanRevert    bool
}

// ActivityRecorder defines behaviour for appending audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService exposes the audit trail: writer, reader, and the
// date-grouped timeline view consumed by the admin dashboard.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	Timeline(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityTimelineResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

const timelineCacheKey = "activity:timeline:v1:default"

// NewActivityService constructs the activity log service. The cache client
// is optional; when present the unfiltered timeline is cached and the key is
// dropped on every write.
func NewActivityService(repo repository.ActivityLogRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return fmt.Errorf("entity type is required")
	}

	previous, err := snapshotJSON(entry.PreviousData)
	if err != nil {
		return fmt.Errorf("encode previous snapshot: %w", err)
	}
	next, err := snapshotJSON(entry.NewData)
	if err != nil {
		return fmt.Errorf("encode new snapshot: %w", err)
	}

	model := models.ActivityLog{
		ActorID:      entry.ActorID,
		ActorRole:    normalizeRole(entry.ActorRole),
		Action:       strings.TrimSpace(entry.Action),
		EntityType:   strings.TrimSpace(entry.EntityType),
		EntityID:     entry.EntityID,
		Label:        entry.Label,
		Detail:       entry.Detail,
		PreviousData: previous,
		NewData:      next,
		CanRevert:    entry.CanRevert,
	}
	if model.Label == "" {
		model.Label = DescribeAction(model.Action).Label
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist activity entry")
		return err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, timelineCacheKey).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate timeline cache")
		}
	}

	return nil
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	entries, err := s.repo.List(ctx, repository.ActivityLogFilter{
		EntityType: strings.TrimSpace(req.EntityType),
		Action:     strings.TrimSpace(req.Action),
		Since:      req.Since,
		Limit:      clampActivityLimit(req.Limit),
	})
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	items := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toActivityResponse(entry))
	}

	return dto.ActivityListResponse{Items: items}, nil
}

func (s *activityService) Timeline(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityTimelineResponse, error) {
	cacheable := s.cache != nil && req.EntityType == "" && req.Action == "" && req.Since == nil

	if cacheable {
		if payload, err := s.cache.Get(ctx, timelineCacheKey).Bytes(); err == nil {
			var cached dto.ActivityTimelineResponse
			if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
				cached.CacheHit = true
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read timeline cache")
		}
	}

	list, err := s.List(ctx, req)
	if err != nil {
		return dto.ActivityTimelineResponse{}, err
	}

	response := dto.ActivityTimelineResponse{Days: groupByCalendarDate(list.Items)}

	if cacheable {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, timelineCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write timeline cache")
			}
		}
	}

	return response, nil
}

// groupByCalendarDate buckets entries by the local calendar day of their
// creation time. Bucket order and per-bucket order both follow the input
// order, so a newest-first input yields a newest-first timeline.
func groupByCalendarDate(items []dto.ActivityResponse) []dto.ActivityDayGroup {
	groups := make([]dto.ActivityDayGroup, 0)
	index := make(map[string]int)

	for _, item := range items {
		day := item.CreatedAt.Local().Format("2006-01-02")
		pos, ok := index[day]
		if !ok {
			pos = len(groups)
			index[day] = pos
			groups = append(groups, dto.ActivityDayGroup{Date: day})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}

var actionDescriptors = map[string]dto.ActionDescriptor{
	models.ActionProductCreated:  {Icon: "plus", Label: "Product Created", Color: "green"},
	models.ActionProductUpdated:  {Icon: "pencil", Label: "Product Updated", Color: "blue"},
	models.ActionProductDeleted:  {Icon: "trash", Label: "Product Deleted", Color: "red"},
	models.ActionCouponCreated:   {Icon: "ticket", Label: "Coupon Created", Color: "green"},
	models.ActionCouponUpdated:   {Icon: "pencil", Label: "Coupon Updated", Color: "blue"},
	models.ActionCouponDeleted:   {Icon: "trash", Label: "Coupon Deleted", Color: "red"},
	models.ActionBannerCreated:   {Icon: "image", Label: "Banner Created", Color: "green"},
	models.ActionBannerUpdated:   {Icon: "pencil", Label: "Banner Updated", Color: "blue"},
	models.ActionBannerDeleted:   {Icon: "trash", Label: "Banner Deleted", Color: "red"},
	models.ActionSettingsChanged: {Icon: "settings", Label: "Settings Changed", Color: "purple"},
}

var fallbackDescriptor = dto.ActionDescriptor{Icon: "activity", Label: "Activity", Color: "gray"}

// DescribeAction maps an action type to its presentation descriptor.
// Unknown actions get a generic descriptor so new action types degrade
// gracefully instead of erroring.
func DescribeAction(action string) dto.ActionDescriptor {
	if descriptor, ok := actionDescriptors[action]; ok {
		return descriptor
	}
	return fallbackDescriptor
}

func toActivityResponse(entry models.ActivityLog) dto.ActivityResponse {
	response := dto.NewActivityResponse(entry)
	response.Descriptor = DescribeAction(entry.Action)
	return response
}

func snapshotJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}
	if raw, ok := value.(json.RawMessage); ok {
		if len(raw) == 0 {
			return nil, nil
		}
		return datatypes.JSON(raw), nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}

func normalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return "system"
	}
	return r
}

func clampActivityLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 500 {
		return 500
	}
	return limit
}
