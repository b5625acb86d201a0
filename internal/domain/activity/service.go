package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultRecentLimit caps GetRecentActivity when no limit is given.
const DefaultRecentLimit = 20

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an entry, stamping the current time if missing. It satisfies
// the ActivityRepository interfaces of the record services.
func (s *Service) Log(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.EntityID == "" || !entry.EntityKind.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultRecentLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
