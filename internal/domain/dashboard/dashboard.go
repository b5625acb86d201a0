// Package dashboard derives the deadline and progress projections shown on
// the landing page from the project collection.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/project"
)

const (
	// DefaultHorizonDays is used when Build is given a zero horizon.
	DefaultHorizonDays = 7
	// RecentActivityLimit caps View.RecentActivity.
	RecentActivityLimit = 10
)

// ErrInvalidInput indicates a negative horizon.
var ErrInvalidInput = errors.New("invalid dashboard input")

// ProjectLister lists projects.
type ProjectLister interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
}

// ActivityLister lists recent activity.
type ActivityLister interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Item is a project as it appears in a bucket.
type Item struct {
	project.Project
	// DaysLeft is negative for overdue projects and nil without a due date.
	DaysLeft *int `json:"days_left,omitempty"`
}

// View is the dashboard projection for one day.
type View struct {
	Today          calendar.Date            `json:"today"`
	Horizon        int                      `json:"horizon_days"`
	Overdue        []Item                   `json:"overdue"`
	DueSoon        []Item                   `json:"due_soon"`
	InProgress     []Item                   `json:"in_progress"`
	Rest           []Item                   `json:"rest"`
	StatusCounts   map[project.Status]int   `json:"status_counts"`
	RecentActivity []activity.ActivityEntry `json:"recent_activity"`
}

// Service builds dashboard views.
type Service struct {
	projects   ProjectLister
	activities ActivityLister
	logger     *slog.Logger
}

// NewService creates a dashboard service. activities may be nil.
func NewService(projects ProjectLister, activities ActivityLister, logger *slog.Logger) *Service {
	return &Service{projects: projects, activities: activities, logger: logger}
}

// Build partitions all projects relative to today. Overdue and DueSoon
// exclude done projects and never overlap; InProgress may repeat projects
// from either; Rest holds the projects in none of the three.
func (s *Service) Build(ctx context.Context, today calendar.Date, horizonDays int) (*View, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("%w: horizon must not be negative", ErrInvalidInput)
	}
	if horizonDays == 0 {
		horizonDays = DefaultHorizonDays
	}

	projects, err := s.projects.List(ctx, project.ListOptions{Sort: project.SortDueAsc})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	view := Partition(projects, today, horizonDays)
	view.RecentActivity = s.recentActivity(ctx)
	return view, nil
}

// Partition is the pure part of Build.
func Partition(projects []project.Project, today calendar.Date, horizonDays int) *View {
	limit := today.AddDays(horizonDays)
	view := &View{
		Today:          today,
		Horizon:        horizonDays,
		Overdue:        []Item{},
		DueSoon:        []Item{},
		InProgress:     []Item{},
		Rest:           []Item{},
		StatusCounts:   make(map[project.Status]int, len(project.Statuses)),
		RecentActivity: []activity.ActivityEntry{},
	}
	for _, st := range project.Statuses {
		view.StatusCounts[st] = 0
	}

	for _, p := range projects {
		view.StatusCounts[p.Status]++
		item := Item{Project: p}
		if p.DueDate != nil {
			days := today.DaysUntil(*p.DueDate)
			item.DaysLeft = &days
		}

		placed := false
		if p.DueDate != nil && !p.IsClosed() {
			switch {
			case p.DueDate.Before(today):
				view.Overdue = append(view.Overdue, item)
				placed = true
			case !p.DueDate.After(limit):
				view.DueSoon = append(view.DueSoon, item)
				placed = true
			}
		}
		if p.Status == project.StatusInProgress {
			view.InProgress = append(view.InProgress, item)
			placed = true
		}
		if !placed {
			view.Rest = append(view.Rest, item)
		}
	}

	for _, bucket := range [][]Item{view.Overdue, view.DueSoon, view.InProgress, view.Rest} {
		sortBucket(bucket)
	}
	return view
}

// sortBucket orders by due date ascending with missing dates last, then
// title, then id.
func sortBucket(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DueDate, items[j].DueDate
		switch {
		case a == nil && b != nil:
			return false
		case a != nil && b == nil:
			return true
		case a != nil && b != nil:
			if c := a.Compare(*b); c != 0 {
				return c < 0
			}
		}
		if items[i].Title != items[j].Title {
			return items[i].Title < items[j].Title
		}
		return items[i].ID < items[j].ID
	})
}

func (s *Service) recentActivity(ctx context.Context) []activity.ActivityEntry {
	if s.activities == nil {
		return []activity.ActivityEntry{}
	}
	entries, err := s.activities.GetRecentActivity(ctx, activity.ListActivityOptions{Limit: RecentActivityLimit})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to load recent activity", "error", err)
		}
		return []activity.ActivityEntry{}
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	return entries
}
