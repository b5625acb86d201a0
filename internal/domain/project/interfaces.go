package project

import (
	"context"

	"github.com/rpggio/karte/internal/domain/activity"
)

// Repository provides persistence for projects. List ignores Match and Limit.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Project, error)
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
