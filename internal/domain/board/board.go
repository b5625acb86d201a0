// Package board renders resources and ideas as board cards.
package board

import (
	"context"
	"fmt"
	"sort"

	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/resource"
)

// Layout hints how a card should be drawn.
type Layout string

const (
	LayoutImage Layout = "image"
	LayoutLink  Layout = "link"
	LayoutText  Layout = "text"
)

// ResourceLister lists resources.
type ResourceLister interface {
	List(ctx context.Context, opts resource.ListOptions) ([]resource.Resource, error)
}

// IdeaLister lists ideas.
type IdeaLister interface {
	List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error)
}

// URLs builds links to attachment content.
type URLs interface {
	AttachmentURL(ref string) string
	ThumbnailURL(ref string) string
}

// ResourceCard is a resource with a resolved link.
type ResourceCard struct {
	resource.Resource
	KindLabel string `json:"kind_label"`
	Href      string `json:"href"`
}

// IdeaCard is an idea with its layout and attachment links. Image cards put
// the image before the caption.
type IdeaCard struct {
	idea.Idea
	Layout       Layout `json:"layout"`
	ImageURL     string `json:"image_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Service builds resource and idea boards.
type Service struct {
	resources ResourceLister
	ideas     IdeaLister
	urls      URLs
}

// NewService creates a board service.
func NewService(resources ResourceLister, ideas IdeaLister, urls URLs) *Service {
	return &Service{resources: resources, ideas: ideas, urls: urls}
}

// Resources returns resource cards, most recently updated first. An empty
// projectID lists every resource.
func (s *Service) Resources(ctx context.Context, projectID string) ([]ResourceCard, error) {
	resources, err := s.resources.List(ctx, resource.ListOptions{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	sort.SliceStable(resources, func(i, j int) bool {
		a, b := resources[i], resources[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})

	cards := make([]ResourceCard, 0, len(resources))
	for _, r := range resources {
		href := r.Target
		if r.Kind == resource.KindUploadedFile {
			href = s.urls.AttachmentURL(r.Target)
		}
		cards = append(cards, ResourceCard{Resource: r, KindLabel: r.Kind.Label(), Href: href})
	}
	return cards, nil
}

// Ideas returns idea cards: pinned first, then newest first, ties by id.
func (s *Service) Ideas(ctx context.Context, projectID string) ([]IdeaCard, error) {
	ideas, err := s.ideas.List(ctx, idea.ListOptions{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	SortIdeas(ideas)

	cards := make([]IdeaCard, 0, len(ideas))
	for _, i := range ideas {
		card := IdeaCard{Idea: i, Layout: LayoutText}
		switch {
		case i.HasImage():
			card.Layout = LayoutImage
			card.ImageURL = s.urls.AttachmentURL(i.ImageRef)
			card.ThumbnailURL = s.urls.ThumbnailURL(i.ImageRef)
		case i.SourceURL != "":
			card.Layout = LayoutLink
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// SortIdeas orders ideas pinned first, then by created_at descending, then id.
func SortIdeas(ideas []idea.Idea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		a, b := ideas[i], ideas[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// PathURLs serves attachment links under a fixed prefix such as
// "/api/attachments".
type PathURLs string

func (p PathURLs) AttachmentURL(ref string) string {
	return string(p) + "/" + ref
}

func (p PathURLs) ThumbnailURL(ref string) string {
	return string(p) + "/" + ref + "/thumbnail"
}
