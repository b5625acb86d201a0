package resource

import (
	"context"

	"github.com/rpggio/karte/internal/domain/activity"
)

// Repository provides persistence for resources. List ignores Match and Limit.
type Repository interface {
	Create(ctx context.Context, res *Resource) error
	Get(ctx context.Context, id string) (*Resource, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Resource, error)
}

// ActivityRepository logs resource activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// AttachmentLookup returns the original filename of an uploaded attachment.
type AttachmentLookup interface {
	Filename(ctx context.Context, ref string) (string, error)
}
