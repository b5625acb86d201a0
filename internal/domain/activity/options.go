package activity

import "github.com/rpggio/karte/internal/domain/entity"

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	EntityKind   entity.Kind
	EntityID     string
	ProjectID    string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
