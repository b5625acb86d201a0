package note

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

// Service handles note operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new note service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateRequest defines note creation inputs.
type CreateRequest struct {
	ProjectID *string
	Body      string
}

// UpdateRequest is a partial update. ClearProject detaches the note.
type UpdateRequest struct {
	ProjectID    *string
	ClearProject bool
	Body         *string
}

// Create creates a new note.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Note, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	now := s.now().UTC()
	n := &Note{
		ID:        uuid.NewString(),
		ProjectID: normalizeRef(req.ProjectID),
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	s.logActivity(ctx, n, activity.TypeCreated, "created note: "+excerpt(n.Body))
	return n, nil
}

// Get fetches a note by ID.
func (s *Service) Get(ctx context.Context, id string) (*Note, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("getting note: %w", err)
	}
	return n, nil
}

// Update merges the non-nil fields of req into the note.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Note, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, fmt.Errorf("%w: body is required", ErrInvalidInput)
		}
		updated.Body = *req.Body
	}
	if req.ClearProject {
		updated.ProjectID = nil
	} else if req.ProjectID != nil {
		updated.ProjectID = normalizeRef(req.ProjectID)
	}

	if updated.Body == current.Body && sameRef(updated.ProjectID, current.ProjectID) {
		return current, nil
	}
	updated.UpdatedAt = touch(s.now(), current.UpdatedAt)

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("updating note: %w", err)
	}
	s.logActivity(ctx, &updated, activity.TypeUpdated, "updated note: "+excerpt(updated.Body))
	return &updated, nil
}

// Delete removes a note; missing notes are ignored.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	s.logActivity(ctx, &Note{ID: id}, activity.TypeDeleted, "deleted note")
	return nil
}

// List returns notes, most recently updated first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Note, error) {
	notes, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	if opts.Match != nil {
		filtered := notes[:0]
		for i := range notes {
			if opts.Match(&notes[i]) {
				filtered = append(filtered, notes[i])
			}
		}
		notes = filtered
	}
	if opts.Limit > 0 && len(notes) > opts.Limit {
		notes = notes[:opts.Limit]
	}
	return notes, nil
}

func (s *Service) logActivity(ctx context.Context, n *Note, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityKind:   entity.KindNote,
		EntityID:     n.ID,
		ProjectID:    n.ProjectID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log note activity", "note_id", n.ID, "error", err)
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

func excerpt(body string) string {
	const max = 40
	body = strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	return string([]rune(body)[:max]) + "…"
}
