package note

import (
	"context"

	"github.com/rpggio/karte/internal/domain/activity"
)

// Repository provides persistence for notes. List ignores Match and Limit.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	Get(ctx context.Context, id string) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Note, error)
}

// ActivityRepository logs note activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
