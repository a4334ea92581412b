package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting stores one storefront configuration value keyed by name.
// Values are opaque JSON documents reconciled by the settings service.
// The value column is declared text rather than json: a bare scalar like
// 1 would otherwise pick up numeric affinity on sqlite and come back as
// an integer the JSON scanner cannot read.
type Setting struct {
	Key       string         `gorm:"primaryKey;size:128" json:"key"`
	Value     datatypes.JSON `gorm:"type:text" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}
