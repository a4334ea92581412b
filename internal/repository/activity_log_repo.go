package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/models"
)

// ActivityLogFilter narrows activity log queries.
type ActivityLogFilter struct {
	EntityType string
	Action     string
	ActorID    *uint
	Since      *time.Time
	Limit      int
}

// ActivityLogRepository persists the append-only audit trail.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	GetByID(ctx context.Context, id uint) (models.ActivityLog, error)
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) GetByID(ctx context.Context, id uint) (models.ActivityLog, error) {
	var entry models.ActivityLog
	err := r.db.WithContext(ctx).First(&entry, id).Error
	return entry, err
}

// List returns matching entries newest-first, bounded by filter.Limit.
func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
