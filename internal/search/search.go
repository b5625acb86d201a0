// Package search ranks projects, notes, resources and ideas against a
// free-text query with optional relative-date phrases.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/entity"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
)

// ProjectLister lists projects.
type ProjectLister interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
}

// NoteLister lists notes.
type NoteLister interface {
	List(ctx context.Context, opts note.ListOptions) ([]note.Note, error)
}

// ResourceLister lists resources.
type ResourceLister interface {
	List(ctx context.Context, opts resource.ListOptions) ([]resource.Resource, error)
}

// IdeaLister lists ideas.
type IdeaLister interface {
	List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error)
}

// Hit is one ranked result. Exactly one of Project, Note, Resource and Idea
// is set, matching Kind.
type Hit struct {
	Kind      entity.Kind        `json:"kind"`
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Score     int                `json:"score"`
	Snippet   string             `json:"snippet"`
	UpdatedAt time.Time          `json:"updated_at"`
	Project   *project.Project   `json:"project,omitempty"`
	Note      *note.Note         `json:"note,omitempty"`
	Resource  *resource.Resource `json:"resource,omitempty"`
	Idea      *idea.Idea         `json:"idea,omitempty"`
}

// Options narrows a search.
type Options struct {
	// Kinds restricts results to the listed kinds; empty means all.
	Kinds []entity.Kind
	// Limit caps the number of hits; zero means no cap.
	Limit int
}

// Service runs searches over the record services.
type Service struct {
	projects  ProjectLister
	notes     NoteLister
	resources ResourceLister
	ideas     IdeaLister
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates a search service. Relative dates are evaluated in loc.
func NewService(projects ProjectLister, notes NoteLister, resources ResourceLister, ideas IdeaLister, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		projects:  projects,
		notes:     notes,
		resources: resources,
		ideas:     ideas,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Search returns hits ordered by score, then most recently updated, then
// kind, then id. A blank query yields no hits. Only storage failures are
// returned as errors.
func (s *Service) Search(ctx context.Context, query string, opts Options) ([]Hit, error) {
	q := Parse(query, calendar.Today(s.now(), s.loc))
	if q.Empty() {
		return []Hit{}, nil
	}
	if s.logger != nil {
		s.logger.Debug("search", "keywords", q.Keywords, "hints", len(q.Hints))
	}

	wanted := kindSet(opts.Kinds)
	hits := []Hit{}
	if wanted[entity.KindProject] {
		found, err := s.searchProjects(ctx, q)
		if err != nil {
			return nil, err
		}
		hits = append(hits, found...)
	}
	if len(q.Keywords) > 0 {
		if wanted[entity.KindNote] {
			found, err := s.searchNotes(ctx, q.Keywords)
			if err != nil {
				return nil, err
			}
			hits = append(hits, found...)
		}
		if wanted[entity.KindResource] {
			found, err := s.searchResources(ctx, q.Keywords)
			if err != nil {
				return nil, err
			}
			hits = append(hits, found...)
		}
		if wanted[entity.KindIdea] {
			found, err := s.searchIdeas(ctx, q.Keywords)
			if err != nil {
				return nil, err
			}
			hits = append(hits, found...)
		}
	}

	Rank(hits)
	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// Rank sorts hits into their final order.
func Rank(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if a.Kind != b.Kind {
			return a.Kind.Order() < b.Kind.Order()
		}
		return a.ID < b.ID
	})
}

func (s *Service) searchProjects(ctx context.Context, q Query) ([]Hit, error) {
	projects, err := s.projects.List(ctx, project.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("searching projects: %w", err)
	}
	var hits []Hit
	for i := range projects {
		p := &projects[i]
		if len(q.Hints) > 0 && !inAnyWindow(q.Hints, p) {
			continue
		}
		fields := projectFields(p)
		var snippet string
		score := 1
		if len(q.Keywords) > 0 {
			m := scoreFields(q.Keywords, fields)
			if m.score == 0 {
				continue
			}
			score = m.score
			snippet = Snippet(fields[m.best].text, q.Keywords)
		} else {
			snippet = truncate(p.Title, 2*snippetContext)
			if p.DueDate != nil {
				snippet += " (" + p.DueDate.String() + ")"
			}
		}
		hits = append(hits, Hit{
			Kind:      entity.KindProject,
			ID:        p.ID,
			Title:     p.Title,
			Score:     score,
			Snippet:   snippet,
			UpdatedAt: p.UpdatedAt,
			Project:   p,
		})
	}
	return hits, nil
}

func (s *Service) searchNotes(ctx context.Context, keywords []string) ([]Hit, error) {
	notes, err := s.notes.List(ctx, note.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	var hits []Hit
	for i := range notes {
		n := &notes[i]
		fields := noteFields(n)
		m := scoreFields(keywords, fields)
		if m.score == 0 {
			continue
		}
		hits = append(hits, Hit{
			Kind:      entity.KindNote,
			ID:        n.ID,
			Title:     firstLine(n.Body),
			Score:     m.score,
			Snippet:   Snippet(fields[m.best].text, keywords),
			UpdatedAt: n.UpdatedAt,
			Note:      n,
		})
	}
	return hits, nil
}

func (s *Service) searchResources(ctx context.Context, keywords []string) ([]Hit, error) {
	resources, err := s.resources.List(ctx, resource.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("searching resources: %w", err)
	}
	var hits []Hit
	for i := range resources {
		r := &resources[i]
		fields := resourceFields(r)
		m := scoreFields(keywords, fields)
		if m.score == 0 {
			continue
		}
		hits = append(hits, Hit{
			Kind:      entity.KindResource,
			ID:        r.ID,
			Title:     r.Label,
			Score:     m.score,
			Snippet:   Snippet(fields[m.best].text, keywords),
			UpdatedAt: r.UpdatedAt,
			Resource:  r,
		})
	}
	return hits, nil
}

func (s *Service) searchIdeas(ctx context.Context, keywords []string) ([]Hit, error) {
	ideas, err := s.ideas.List(ctx, idea.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("searching ideas: %w", err)
	}
	var hits []Hit
	for i := range ideas {
		it := &ideas[i]
		fields := ideaFields(it)
		m := scoreFields(keywords, fields)
		if m.score == 0 {
			continue
		}
		title := it.Caption
		if title == "" {
			title = it.SourceURL
		}
		hits = append(hits, Hit{
			Kind:      entity.KindIdea,
			ID:        it.ID,
			Title:     firstLine(title),
			Score:     m.score,
			Snippet:   Snippet(fields[m.best].text, keywords),
			UpdatedAt: it.UpdatedAt,
			Idea:      it,
		})
	}
	return hits, nil
}

func inAnyWindow(hints []Hint, p *project.Project) bool {
	for _, h := range hints {
		if h.Matches(p.DueDate, p.IsClosed()) {
			return true
		}
	}
	return false
}

// kindSet treats an empty filter as every kind. Unknown kinds are ignored.
func kindSet(kinds []entity.Kind) map[entity.Kind]bool {
	set := make(map[entity.Kind]bool, len(entity.Kinds))
	if len(kinds) == 0 {
		for _, k := range entity.Kinds {
			set[k] = true
		}
		return set
	}
	for _, k := range kinds {
		if k.Valid() {
			set[k] = true
		}
	}
	return set
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	const max = 40
	if utf8.RuneCountInString(text) > max {
		return string([]rune(text)[:max]) + ellipsis
	}
	return text
}
