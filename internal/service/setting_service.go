package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/dto"
	"github.com/aurine/aurine-api/internal/models"
	"github.com/aurine/aurine-api/internal/repository"
)

// Setting service errors.
var (
	ErrSettingNotFound     = errors.New("setting not found")
	ErrSettingInvalidJSON  = errors.New("setting value must be valid JSON")
	ErrSettingSchemaFailed = errors.New("setting value rejected by schema")
)

// PartialApplyError reports a multi-key settings write that failed midway.
// Keys listed in Applied were written and are not rolled back.
type PartialApplyError struct {
	Applied   []string
	FailedKey string
	Err       error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("settings write failed at key %q after applying %d of the batch: %v", e.FailedKey, len(e.Applied), e.Err)
}

func (e *PartialApplyError) Unwrap() error {
	return e.Err
}

// Schemas for well-known settings keys. Values for keys outside this table
// are accepted as arbitrary JSON.
var settingSchemaSources = map[string]string{
	"store.contact": `{
		"type": "object",
		"properties": {
			"email": {"type": "string"},
			"phone": {"type": "string"},
			"address": {"type": "string"}
		},
		"additionalProperties": true
	}`,
	"store.shipping": `{
		"type": "object",
		"properties": {
			"flat_rate": {"type": "number", "minimum": 0},
			"free_above": {"type": "number", "minimum": 0},
			"regions": {"type": "array", "items": {"type": "string"}}
		},
		"additionalProperties": true
	}`,
	"store.announcement_bar": `{
		"type": "object",
		"properties": {
			"enabled": {"type": "boolean"},
			"text": {"type": "string"}
		},
		"additionalProperties": true
	}`,
}

// SettingService reconciles the denormalized key/value settings table.
// Single-key writes capture the previous value (absence included) so they
// can be reverted; multi-key writes are sequential and log one combined
// entry whose NewData is the full map.
type SettingService interface {
	Get(ctx context.Context, key string) (dto.SettingResponse, error)
	List(ctx context.Context) (dto.SettingListResponse, error)
	Set(ctx context.Context, key string, value json.RawMessage, actor ActivityActor) (dto.SettingResponse, error)
	SetMultiple(ctx context.Context, values map[string]json.RawMessage, actor ActivityActor) (dto.SettingListResponse, error)
	Unset(ctx context.Context, key string, actor ActivityActor) error
}

type settingService struct {
	repo     repository.SettingRepository
	activity ActivityRecorder
	schemas  map[string]*jsonschema.Schema
	logger   zerolog.Logger
}

// NewSettingService constructs the setting service. Schema compilation is
// static, so a failure here is a programming error.
func NewSettingService(repo repository.SettingRepository, activity ActivityRecorder, logger zerolog.Logger) (SettingService, error) {
	schemas := make(map[string]*jsonschema.Schema, len(settingSchemaSources))
	for key, source := range settingSchemaSources {
		schema, err := jsonschema.CompileString(key+".json", source)
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", key, err)
		}
		schemas[key] = schema
	}

	return &settingService{
		repo:     repo,
		activity: activity,
		schemas:  schemas,
		logger:   logger.With().Str("component", "setting_service").Logger(),
	}, nil
}

func (s *settingService) Get(ctx context.Context, key string) (dto.SettingResponse, error) {
	setting, err := s.repo.Get(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingResponse{}, ErrSettingNotFound
		}
		return dto.SettingResponse{}, err
	}
	return dto.NewSettingResponse(setting), nil
}

func (s *settingService) List(ctx context.Context) (dto.SettingListResponse, error) {
	settings, err := s.repo.ListAll(ctx)
	if err != nil {
		return dto.SettingListResponse{}, err
	}

	items := make([]dto.SettingResponse, 0, len(settings))
	for _, setting := range settings {
		items = append(items, dto.NewSettingResponse(setting))
	}
	return dto.SettingListResponse{Items: items}, nil
}

func (s *settingService) Set(ctx context.Context, key string, value json.RawMessage, actor ActivityActor) (dto.SettingResponse, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return dto.SettingResponse{}, fmt.Errorf("setting key is required")
	}
	if err := s.validateValue(key, value); err != nil {
		return dto.SettingResponse{}, err
	}

	// Absence is a legitimate previous state; it reverts to key deletion.
	var previous interface{}
	existing, err := s.repo.Get(ctx, key)
	switch {
	case err == nil:
		previous = json.RawMessage(existing.Value)
	case errors.Is(err, gorm.ErrRecordNotFound):
		previous = nil
	default:
		return dto.SettingResponse{}, err
	}

	if err := s.repo.Upsert(ctx, key, datatypes.JSON(value)); err != nil {
		return dto.SettingResponse{}, err
	}

	stored, err := s.repo.Get(ctx, key)
	if err != nil {
		return dto.SettingResponse{}, err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionSettingsChanged,
		EntityType:   models.EntitySettings,
		EntityID:     &key,
		Detail:       key,
		PreviousData: previous,
		NewData:      value,
		CanRevert:    true,
	})

	return dto.NewSettingResponse(stored), nil
}

// SetMultiple applies per-key upserts one at a time, in key order. There is
// no transaction: a mid-batch failure leaves earlier keys written and is
// reported as a *PartialApplyError. On success a single combined entry is
// logged with no per-key previous snapshots; reverting it re-applies the
// same map forward.
func (s *settingService) SetMultiple(ctx context.Context, values map[string]json.RawMessage, actor ActivityActor) (dto.SettingListResponse, error) {
	if len(values) == 0 {
		return dto.SettingListResponse{}, fmt.Errorf("at least one setting is required")
	}

	// Trim once up front; the normalized map drives both the writes and
	// the logged snapshot, so the recorded keys match the stored rows.
	normalized := make(map[string]json.RawMessage, len(values))
	for key, value := range values {
		normalized[strings.TrimSpace(key)] = value
	}
	keys := make([]string, 0, len(normalized))
	for key := range normalized {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	applied := make([]string, 0, len(keys))
	for _, key := range keys {
		value := normalized[key]
		if err := s.validateValue(key, value); err != nil {
			return dto.SettingListResponse{}, &PartialApplyError{Applied: applied, FailedKey: key, Err: err}
		}
		if err := s.repo.Upsert(ctx, key, datatypes.JSON(value)); err != nil {
			return dto.SettingListResponse{}, &PartialApplyError{Applied: applied, FailedKey: key, Err: err}
		}
		applied = append(applied, key)
	}

	s.record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     models.ActionSettingsChanged,
		EntityType: models.EntitySettings,
		Detail:     fmt.Sprintf("%d settings", len(keys)),
		NewData:    normalized,
		CanRevert:  true,
	})

	items := make([]dto.SettingResponse, 0, len(keys))
	for _, key := range keys {
		stored, err := s.repo.Get(ctx, key)
		if err != nil {
			return dto.SettingListResponse{}, err
		}
		items = append(items, dto.NewSettingResponse(stored))
	}

	return dto.SettingListResponse{Items: items}, nil
}

func (s *settingService) Unset(ctx context.Context, key string, actor ActivityActor) error {
	key = strings.TrimSpace(key)

	existing, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}

	s.record(ctx, ActivityEntry{
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Action:       models.ActionSettingsChanged,
		EntityType:   models.EntitySettings,
		EntityID:     &key,
		Detail:       key,
		PreviousData: json.RawMessage(existing.Value),
		CanRevert:    true,
	})

	return nil
}

func (s *settingService) validateValue(key string, value json.RawMessage) error {
	if len(value) == 0 || !json.Valid(value) {
		return ErrSettingInvalidJSON
	}

	schema, ok := s.schemas[key]
	if !ok {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(value, &decoded); err != nil {
		return ErrSettingInvalidJSON
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingSchemaFailed, err)
	}
	return nil
}

func (s *settingService) record(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Msg("activity record dropped")
	}
}
