package dto

import (
	"encoding/json"
	"time"

	"github.com/aurine/aurine-api/internal/models"
)

// ActivityListRequest filters audit trail queries.
type ActivityListRequest struct {
	EntityType string
	Action     string
	Limit      int
	Since      *time.Time
}

// ActionDescriptor is the presentation hint attached to a timeline entry.
type ActionDescriptor struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// ActivityResponse serializes one audit entry.
type ActivityResponse struct {
	ID           uint             `json:"id"`
	ActorID      uint             `json:"actor_id"`
	ActorRole    string           `json:"actor_role"`
	Action       string           `json:"action"`
	EntityType   string           `json:"entity_type"`
	EntityID     *string          `json:"entity_id"`
	Label        string           `json:"label"`
	Detail       string           `json:"detail"`
	PreviousData json.RawMessage  `json:"previous_data,omitempty"`
	NewData      json.RawMessage  `json:"new_data,omitempty"`
	CanRevert    bool             `json:"can_revert"`
	Descriptor   ActionDescriptor `json:"descriptor"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ActivityListResponse wraps a flat activity listing.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
}

// ActivityDayGroup is one calendar-day bucket of the timeline.
type ActivityDayGroup struct {
	Date  string             `json:"date"`
	Items []ActivityResponse `json:"items"`
}

// ActivityTimelineResponse wraps the date-grouped timeline view.
type ActivityTimelineResponse struct {
	Days     []ActivityDayGroup `json:"days"`
	CacheHit bool               `json:"cache_hit,omitempty"`
}

// RevertResponse reports the outcome of replaying a previous snapshot.
type RevertResponse struct {
	ActivityID uint    `json:"activity_id"`
	EntityType string  `json:"entity_type"`
	EntityID   *string `json:"entity_id"`
	Reverted   bool    `json:"reverted"`
}

// NewActivityResponse converts a model into its DTO. The descriptor is
// resolved by the activity service, not here.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:           entry.ID,
		ActorID:      entry.ActorID,
		ActorRole:    entry.ActorRole,
		Action:       entry.Action,
		EntityType:   entry.EntityType,
		EntityID:     entry.EntityID,
		Label:        entry.Label,
		Detail:       entry.Detail,
		PreviousData: json.RawMessage(entry.PreviousData),
		NewData:      json.RawMessage(entry.NewData),
		CanRevert:    entry.CanRevert,
		CreatedAt:    entry.CreatedAt,
	}
}
