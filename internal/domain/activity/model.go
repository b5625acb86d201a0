package activity

import (
	"time"

	"github.com/rpggio/karte/internal/domain/entity"
)

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeCreated  ActivityType = "created"
	TypeUpdated  ActivityType = "updated"
	TypeDeleted  ActivityType = "deleted"
	TypePinned   ActivityType = "pinned"
	TypeUnpinned ActivityType = "unpinned"
	TypeUploaded ActivityType = "uploaded"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	EntityKind   entity.Kind  `json:"entity_kind"`
	EntityID     string       `json:"entity_id"`
	ProjectID    *string      `json:"project_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}
