package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/aurine/aurine-api/internal/models"
)

// CouponFilter narrows coupon listings.
type CouponFilter struct {
	ActiveOnly bool
	Search     string
	Page       int
	PageSize   int
}

// CouponRepository manages coupon persistence operations.
type CouponRepository interface {
	List(ctx context.Context, filter CouponFilter) ([]models.Coupon, int64, error)
	GetByID(ctx context.Context, id uint) (models.Coupon, error)
	GetByCode(ctx context.Context, code string) (models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Patch(ctx context.Context, id uint, fields map[string]interface{}) error
	IncrementUsage(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type couponRepository struct {
	db *gorm.DB
}

// NewCouponRepository constructs a coupon repository implementation.
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) List(ctx context.Context, filter CouponFilter) ([]models.Coupon, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Coupon{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToUpper(filter.Search) + "%"
		query = query.Where("UPPER(code) LIKE ?", pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var coupons []models.Coupon
	if err := query.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, 0, err
	}

	return coupons, total, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id uint) (models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).First(&coupon, id).Error
	return coupon, err
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	return coupon, err
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepository) Patch(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Coupon{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
