package idea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/repository"
)

// Service handles idea operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new idea service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateRequest defines idea creation inputs.
type CreateRequest struct {
	ProjectID *string
	SourceURL string
	ImageRef  string
	Caption   string
	Pinned    bool
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	ProjectID    *string
	ClearProject bool
	SourceURL    *string
	ImageRef     *string
	Caption      *string
	Pinned       *bool
}

// Create creates a new idea.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Idea, error) {
	now := s.now().UTC()
	i := &Idea{
		ID:        uuid.NewString(),
		ProjectID: normalizeRef(req.ProjectID),
		SourceURL: strings.TrimSpace(req.SourceURL),
		ImageRef:  strings.TrimSpace(req.ImageRef),
		Caption:   strings.TrimSpace(req.Caption),
		Pinned:    req.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Validate(i); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("creating idea: %w", err)
	}
	s.logActivity(ctx, i, activity.TypeCreated, "clipped idea: "+describe(i))
	return i, nil
}

// Get fetches an idea by ID.
func (s *Service) Get(ctx context.Context, id string) (*Idea, error) {
	i, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("getting idea: %w", err)
	}
	return i, nil
}

// Update merges the non-nil fields of req into the idea.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Idea, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.SourceURL != nil {
		updated.SourceURL = strings.TrimSpace(*req.SourceURL)
	}
	if req.ImageRef != nil {
		updated.ImageRef = strings.TrimSpace(*req.ImageRef)
	}
	if req.Caption != nil {
		updated.Caption = strings.TrimSpace(*req.Caption)
	}
	if req.Pinned != nil {
		updated.Pinned = *req.Pinned
	}
	if req.ClearProject {
		updated.ProjectID = nil
	} else if req.ProjectID != nil {
		updated.ProjectID = normalizeRef(req.ProjectID)
	}

	if err := Validate(&updated); err != nil {
		return nil, err
	}
	if updated.SourceURL == current.SourceURL && updated.ImageRef == current.ImageRef &&
		updated.Caption == current.Caption && updated.Pinned == current.Pinned &&
		sameRef(updated.ProjectID, current.ProjectID) {
		return current, nil
	}
	updated.UpdatedAt = touch(s.now(), current.UpdatedAt)

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("updating idea: %w", err)
	}

	typ, summary := activity.TypeUpdated, "updated idea: "+describe(&updated)
	if updated.Pinned != current.Pinned {
		typ, summary = activity.TypeUnpinned, "unpinned idea: "+describe(&updated)
		if updated.Pinned {
			typ, summary = activity.TypePinned, "pinned idea: "+describe(&updated)
		}
	}
	s.logActivity(ctx, &updated, typ, summary)
	return &updated, nil
}

// Pin marks an idea as pinned.
func (s *Service) Pin(ctx context.Context, id string) (*Idea, error) {
	pinned := true
	return s.Update(ctx, id, UpdateRequest{Pinned: &pinned})
}

// Unpin clears the pinned flag.
func (s *Service) Unpin(ctx context.Context, id string) (*Idea, error) {
	pinned := false
	return s.Update(ctx, id, UpdateRequest{Pinned: &pinned})
}

// Delete removes an idea; missing ideas are ignored.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting idea: %w", err)
	}
	s.logActivity(ctx, &Idea{ID: id}, activity.TypeDeleted, "deleted idea")
	return nil
}

// List returns ideas, pinned first, then newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Idea, error) {
	ideas, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	if opts.Match != nil {
		filtered := ideas[:0]
		for i := range ideas {
			if opts.Match(&ideas[i]) {
				filtered = append(filtered, ideas[i])
			}
		}
		ideas = filtered
	}
	if opts.Limit > 0 && len(ideas) > opts.Limit {
		ideas = ideas[:opts.Limit]
	}
	return ideas, nil
}

func (s *Service) logActivity(ctx context.Context, i *Idea, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityKind:   entity.KindIdea,
		EntityID:     i.ID,
		ProjectID:    i.ProjectID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log idea activity", "idea_id", i.ID, "error", err)
	}
}

// describe picks the most readable field for activity summaries.
func describe(i *Idea) string {
	const max = 40
	text := i.Caption
	if text == "" {
		text = i.SourceURL
	}
	if text == "" {
		text = i.ImageRef
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + "…"
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
