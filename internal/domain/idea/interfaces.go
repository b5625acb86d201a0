package idea

import (
	"context"

	"github.com/rpggio/karte/internal/domain/activity"
)

// Repository provides persistence for ideas. List returns pinned ideas
// first, then newest first, and ignores Match and Limit.
type Repository interface {
	Create(ctx context.Context, i *Idea) error
	Get(ctx context.Context, id string) (*Idea, error)
	Update(ctx context.Context, i *Idea) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Idea, error)
}

// ActivityRepository logs idea activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
