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

// ErrBannerNotFound indicates the referenced banner row does not exist.
var ErrBannerNotFound = errors.New("banner not found")

// BannerService handles admin banner flows.
type BannerService interface {
	List(ctx context.Context, position string, activeOnly bool) ([]dto.BannerResponse, error)
	Get(ctx context.Context, id uint) (dto.BannerResponse, error)
	Create(ctx context.Context, payload dto.BannerCreateRequest, actor ActivityActor) (dto.BannerResponse, error)
	Update(ctx context.Context, id uint, payload dto.BannerUpdateRequest, actor ActivityActor) (dto.BannerResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type bannerService struct {
	repo      repository.BannerRepository
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewBannerService constructs the banner service.
func NewBannerService(repo repository.BannerRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) BannerService {
	return &bannerService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "banner_service").Logger(),
	}
}

func (s *bannerService) List(ctx context.Context, position string, activeOnly bool) ([]dto.BannerResponse, error) {
	banners, err := s.repo.List(ctx, repository.BannerFilter{
		Position:   strings.TrimSpace(position),
		ActiveOnly: activeOnly,
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

func (s *bannerService) Get(ctx context.Context, id uint) (dto.BannerResponse, error) {
	banner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BannerResponse{}, ErrBannerNotFound
		}
		return dto.BannerResponse{}, err
	}
	return dto.NewBannerResponse(banner), nil
}

func (s *bannerService) Create(ctx context.Context, payload dto.BannerCreateRequest, actor ActivityActor) (dto.BannerResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BannerResponse{}, err
	}

	banner := models.Banner{
		Title:           strings.TrimSpace(payload.Title),
		Subtitle:        s.sanitizer.Sanitize(strings.TrimSpace(payload.Subtitle)),
		LinkURL:         strings.TrimSpace(payload.LinkURL),
		LinkText:        strings.TrimSpace(payload.LinkText),
		Position:        strings.TrimSpace(payload.Position),
		BackgroundColor: strings.TrimSpace(payload.BackgroundColor),
		TextColor:       strings.TrimSpace(payload.TextColor),
		Image:           strings.TrimSpace(payload.Image),
		IsActive:        payload.IsActive,
		DisplayOrder:    payload.DisplayOrder,
	}

	if err := s.repo.Create(ctx, &banner); err != nil {
		return dto.BannerResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     models.ActionBannerCreated,
		EntityType: models.EntityBanner,
		EntityID:   entityIDString(banner.ID),
		Detail:     banner.Title,
		NewData:    banner,
	})

	return dto.NewBannerResponse(banner), nil
}

func (s *bannerService) Update(ctx context.Context, id uint, payload dto.BannerUpdateRequest, actor ActivityActor) (dto.BannerResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BannerResponse{}, err
	}

	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BannerResponse{}, ErrBannerNotFound
		}
		return dto.BannerResponse{}, err
	}

	patch := s.buildPatch(payload)
	if len(patch) == 0 {
		return dto.NewBannerResponse(previous), nil
	}

	if err := s.repo.Patch(ctx, id, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BannerResponse{}, ErrBannerNotFound
		}
		return dto.BannerResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.BannerResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionBannerUpdated,
		EntityType:   models.EntityBanner,
		EntityID:     entityIDString(id),
		Detail:       updated.Title,
		PreviousData: previous,
		NewData:      updated,
		CanRevert:    true,
	})

	return dto.NewBannerResponse(updated), nil
}

func (s *bannerService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBannerNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBannerNotFound
		}
		return err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionBannerDeleted,
		EntityType:   models.EntityBanner,
		EntityID:     entityIDString(id),
		Detail:       previous.Title,
		PreviousData: previous,
	})

	return nil
}

func (s *bannerService) buildPatch(payload dto.BannerUpdateRequest) map[string]interface{} {
	patch := make(map[string]interface{})
	if payload.Title != nil {
		patch["title"] = strings.TrimSpace(*payload.Title)
	}
	if payload.Subtitle != nil {
		patch["subtitle"] = s.sanitizer.Sanitize(strings.TrimSpace(*payload.Subtitle))
	}
	if payload.LinkURL != nil {
		patch["link_url"] = strings.TrimSpace(*payload.LinkURL)
	}
	if payload.LinkText != nil {
		patch["link_text"] = strings.TrimSpace(*payload.LinkText)
	}
	if payload.Position != nil {
		patch["position"] = strings.TrimSpace(*payload.Position)
	}
	if payload.BackgroundColor != nil {
		patch["background_color"] = strings.TrimSpace(*payload.BackgroundColor)
	}
	if payload.TextColor != nil {
		patch["text_color"] = strings.TrimSpace(*payload.TextColor)
	}
	if payload.Image != nil {
		patch["image"] = strings.TrimSpace(*payload.Image)
	}
	if payload.IsActive != nil {
		patch["is_active"] = *payload.IsActive
	}
	if payload.DisplayOrder != nil {
		patch["display_order"] = *payload.DisplayOrder
	}
	return patch
}

func (s *bannerService) record(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("activity record dropped")
	}
}
