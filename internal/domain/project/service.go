package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new project service.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, activities: activities, logger: logger, now: time.Now}
}

// WithClock replaces the time source, for tests and the CLI.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateRequest defines project creation inputs. DueText is parsed as a
// natural date phrase when DueDate is nil.
type CreateRequest struct {
	Title    string
	Client   string
	Owner    string
	Status   Status
	Priority Priority
	DueDate  *calendar.Date
	DueText  string
	Notes    string
}

// UpdateRequest is a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Title        *string
	Client       *string
	Owner        *string
	Status       *Status
	Priority     *Priority
	DueDate      *calendar.Date
	DueText      *string
	ClearDueDate bool
	Notes        *string
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	due, err := s.resolveDue(req.DueDate, req.DueText)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusNotStarted
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := s.now().UTC()
	proj := &Project{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Client:    strings.TrimSpace(req.Client),
		Owner:     strings.TrimSpace(req.Owner),
		Status:    status,
		Priority:  priority,
		DueDate:   due,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Validate(proj); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	s.logActivity(ctx, proj, activity.TypeCreated, fmt.Sprintf("created project %q", proj.Title))

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Lookup resolves a weak project reference. A nil or dangling reference
// yields nil without error.
func (s *Service) Lookup(ctx context.Context, id *string) (*Project, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	proj, err := s.Get(ctx, *id)
	if errors.Is(err, ErrProjectNotFound) {
		return nil, nil
	}
	return proj, err
}

// Update merges the non-nil fields of req into the project.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.Client != nil {
		updated.Client = strings.TrimSpace(*req.Client)
	}
	if req.Owner != nil {
		updated.Owner = strings.TrimSpace(*req.Owner)
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	switch {
	case req.ClearDueDate:
		updated.DueDate = nil
	case req.DueDate != nil || req.DueText != nil:
		text := ""
		if req.DueText != nil {
			text = *req.DueText
		}
		due, err := s.resolveDue(req.DueDate, text)
		if err != nil {
			return nil, err
		}
		updated.DueDate = due
	}

	if err := Validate(&updated); err != nil {
		return nil, err
	}
	if sameContent(current, &updated) {
		return current, nil
	}
	updated.UpdatedAt = s.touch(current.UpdatedAt)

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	s.logActivity(ctx, &updated, activity.TypeUpdated, fmt.Sprintf("updated project %q", updated.Title))

	return &updated, nil
}

// Delete removes a project. Deleting a missing project is not an error, and
// notes or resources pointing at it are left untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logActivity(ctx, &Project{ID: id}, activity.TypeDeleted, "deleted project")
	return nil
}

// List returns projects filtered and ordered by opts.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	if !opts.Sort.Valid() {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, opts.Sort)
	}
	for _, st := range opts.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, st)
		}
	}

	projects, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if opts.Match != nil {
		filtered := projects[:0]
		for i := range projects {
			if opts.Match(&projects[i]) {
				filtered = append(filtered, projects[i])
			}
		}
		projects = filtered
	}
	if opts.Limit > 0 && len(projects) > opts.Limit {
		projects = projects[:opts.Limit]
	}
	return projects, nil
}

// Today returns the current calendar day for the service clock in loc.
func (s *Service) Today(loc *time.Location) calendar.Date {
	return calendar.Today(s.now(), loc)
}

func (s *Service) resolveDue(due *calendar.Date, text string) (*calendar.Date, error) {
	if due != nil {
		d := *due
		return &d, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parsed, err := calendar.ParseInput(text, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: due date: %v", ErrInvalidInput, err)
	}
	return &parsed, nil
}

// touch returns the new updated timestamp, never earlier than prev.
func (s *Service) touch(prev time.Time) time.Time {
	now := s.now().UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

func (s *Service) logActivity(ctx context.Context, proj *Project, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	id := proj.ID
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		EntityKind:   entity.KindProject,
		EntityID:     proj.ID,
		ProjectID:    &id,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("failed to log project activity", "project_id", proj.ID, "error", err)
	}
}

func sameContent(a, b *Project) bool {
	if a.Title != b.Title || a.Client != b.Client || a.Owner != b.Owner ||
		a.Status != b.Status || a.Priority != b.Priority || a.Notes != b.Notes {
		return false
	}
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return true
	case a.DueDate == nil || b.DueDate == nil:
		return false
	default:
		return *a.DueDate == *b.DueDate
	}
}
