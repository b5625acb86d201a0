package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/repository"
)

// Service handles resource operations.
type Service struct {
	repo        Repository
	activities  ActivityRepository
	attachments AttachmentLookup
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new resource service. attachments may be nil, in
// which case uploaded_file labels fall back to the reference.
func NewService(repo Repository, activities ActivityRepository, attachments AttachmentLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		activities:  activities,
		attachments: attachments,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateRequest defines resource creation inputs. An empty Kind is inferred
// from Target.
type CreateRequest struct {
	ProjectID *string
	Kind      Kind
	Target    string
	Label     string
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	ProjectID    *string
	ClearProject bool
	Kind         *Kind
	Target       *string
	Label        *string
}

// Create creates a new resource.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	target := strings.TrimSpace(req.Target)
	kind := req.Kind
	if kind == "" {
		kind = InferKind(target)
	}

	now := s.now().UTC()
	res := &Resource{
		ID:        uuid.NewString(),
		ProjectID: normalizeRef(req.ProjectID),
		Kind:      kind,
		Target:    target,
		Label:     strings.TrimSpace(req.Label),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Validate(res); err != nil {
		return nil, err
	}
	if err := s.fillLabel(ctx, res); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	typ := activity.TypeCreated
	if res.Kind == KindUploadedFile {
		typ = activity.TypeUploaded
	}
	s.logActivity(ctx, res, typ, fmt.Sprintf("added %s resource %q", res.Kind.Label(), res.Label))
	return res, nil
}

// Get fetches a resource by ID.
func (s *Service) Get(ctx context.Context, id string) (*Resource, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("getting resource: %w", err)
	}
	return res, nil
}

// Update merges the non-nil fields of req into the resource.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Target != nil {
		updated.Target = strings.TrimSpace(*req.Target)
		if req.Kind == nil {
			updated.Kind = InferKind(updated.Target)
		}
	}
	if req.Kind != nil {
		updated.Kind = *req.Kind
	}
	if req.Label != nil {
		updated.Label = strings.TrimSpace(*req.Label)
	}
	if req.ClearProject {
		updated.ProjectID = nil
	} else if req.ProjectID != nil {
		updated.ProjectID = normalizeRef(req.ProjectID)
	}

	if err := Validate(&updated); err != nil {
		return nil, err
	}
	if err := s.fillLabel(ctx, &updated); err != nil {
		return nil, err
	}
	if updated.Kind == current.Kind && updated.Target == current.Target &&
		updated.Label == current.Label && sameRef(updated.ProjectID, current.ProjectID) {
		return current, nil
	}
	updated.UpdatedAt = touch(s.now(), current.UpdatedAt)

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("updating resource: %w", err)
	}
	s.logActivity(ctx, &updated, activity.TypeUpdated, fmt.Sprintf("updated resource %q", updated.Label))
	return &updated, nil
}

// Delete removes a resource; missing resources are ignored. Uploaded bytes
// stay in the attachment store.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	s.logActivity(ctx, &Resource{ID: id}, activity.TypeDeleted, "deleted resource")
	return nil
}

// List returns resources, most recently updated first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Resource, error) {
	for _, k := range opts.Kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, k)
		}
	}
	resources, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	if opts.Match != nil {
		filtered := resources[:0]
		for i := range resources {
			if opts.Match(&resources[i]) {
				filtered = append(filtered, resources[i])
			}
		}
		resources = filtered
	}
	if opts.Limit > 0 && len(resources) > opts.Limit {
		resources = resources[:opts.Limit]
	}
	return resources, nil
}

// fillLabel defaults an empty label to the uploaded filename or URL host.
func (s *Service) fillLabel(ctx context.Context, res *Resource) error {
	if res.Kind != KindUploadedFile {
		if res.Label == "" {
			res.Label = defaultLabel(res.Target)
		}
		return nil
	}
	if s.attachments == nil {
		if res.Label == "" {
			res.Label = res.Target
		}
		return nil
	}
	filename, err := s.attachments.Filename(ctx, res.Target)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: unknown attachment %q", ErrInvalidInput, res.Target)
	}
	if err != nil {
		return fmt.Errorf("looking up attachment: %w", err)
	}
	if res.Label == "" {
		res.Label = filename
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, res *Resource, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityKind:   entity.KindResource,
		EntityID:     res.ID,
		ProjectID:    res.ProjectID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log resource activity", "resource_id", res.ID, "error", err)
	}
}

func touch(now, prev time.Time) time.Time {
	now = now.UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

func normalizeRef(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
