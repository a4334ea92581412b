package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/models"
)

// BannerFilter narrows banner listings.
type BannerFilter struct {
	Position   string
	ActiveOnly bool
}

// BannerRepository manages banner persistence operations.
type BannerRepository interface {
	List(ctx context.Context, filter BannerFilter) ([]models.Banner, error)
	GetByID(ctx context.Context, id uint) (models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) error
	Patch(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type bannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository constructs a banner repository implementation.
func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) List(ctx context.Context, filter BannerFilter) ([]models.Banner, error) {
	query := r.db.WithContext(ctx).Model(&models.Banner{})

	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var banners []models.Banner
	if err := query.Order("display_order ASC, created_at DESC").Find(&banners).Error; err != nil {
		return nil, err
	}

	return banners, nil
}

func (r *bannerRepository) GetByID(ctx context.Context, id uint) (models.Banner, error) {
	var banner models.Banner
	err := r.db.WithContext(ctx).First(&banner, id).Error
	return banner, err
}

func (r *bannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *bannerRepository) Patch(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Banner{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bannerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Banner{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
