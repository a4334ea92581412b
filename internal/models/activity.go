package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity action types. The set is closed; the timeline descriptor table
// falls back to a generic entry for anything it does not recognise.
const (
	ActionProductCreated  = "product_created"
	ActionProductUpdated  = "product_updated"
	ActionProductDeleted  = "product_deleted"
	ActionCouponCreated   = "coupon_created"
	ActionCouponUpdated   = "coupon_updated"
	ActionCouponDeleted   = "coupon_deleted"
	ActionBannerCreated   = "banner_created"
	ActionBannerUpdated   = "banner_updated"
	ActionBannerDeleted   = "banner_deleted"
	ActionSettingsChanged = "settings_changed"
)

// Entity types referenced by activity records.
const (
	EntityProduct  = "product"
	EntityCoupon   = "coupon"
	EntityBanner   = "banner"
	EntitySettings = "settings"
)

// ActivityLog is one append-only audit entry describing an admin mutation.
// PreviousData holds the row state captured before the write; records with
// CanRevert set can be replayed backwards by the revert service.
type ActivityLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ActorID      uint           `gorm:"index" json:"actor_id"`
	ActorRole    string         `gorm:"size:32" json:"actor_role"`
	Action       string         `gorm:"size:64;not null;index" json:"action"`
	EntityType   string         `gorm:"size:32;not null;index" json:"entity_type"`
	EntityID     *string        `gorm:"size:128" json:"entity_id"`
	Label        string         `gorm:"size:128;not null" json:"label"`
	Detail       string         `gorm:"size:512" json:"detail"`
	PreviousData datatypes.JSON `gorm:"type:json" json:"previous_data"`
	NewData      datatypes.JSON `gorm:"type:json" json:"new_data"`
	CanRevert    bool           `json:"can_revert"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}
