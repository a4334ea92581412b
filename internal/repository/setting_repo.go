package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aurine/aurine-api/internal/models"
)

// SettingRepository manages the storefront key/value settings table.
type SettingRepository interface {
	Get(ctx context.Context, key string) (models.Setting, error)
	ListAll(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, key string, value datatypes.JSON) error
	Delete(ctx context.Context, key string) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository constructs a setting repository implementation.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	return setting, err
}

func (r *settingRepository) ListAll(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert writes a setting value, inserting the key when absent and
// replacing the value (plus updated_at) when present.
func (r *settingRepository) Upsert(ctx context.Context, key string, value datatypes.JSON) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

func (r *settingRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
