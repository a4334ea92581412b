package dto

import (
	"encoding/json"
	"time"

	"github.com/aurine/aurine-api/internal/models"
)

// SettingPutRequest writes one settings key.
type SettingPutRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

// SettingBulkPutRequest writes several settings keys in one call.
type SettingBulkPutRequest struct {
	Values map[string]json.RawMessage `json:"values" validate:"required,min=1"`
}

// SettingResponse serializes one settings row.
type SettingResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SettingListResponse wraps all settings rows.
type SettingListResponse struct {
	Items []SettingResponse `json:"items"`
}

// NewSettingResponse converts a model into its DTO.
func NewSettingResponse(setting models.Setting) SettingResponse {
	return SettingResponse{
		Key:       setting.Key,
		Value:     json.RawMessage(setting.Value),
		UpdatedAt: setting.UpdatedAt,
	}
}
