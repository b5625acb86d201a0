package idea

import "time"

// Idea is a clipped URL, image or caption collected for later reference.
type Idea struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"project_id,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Caption   string    `json:"caption"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasImage reports whether the idea carries an uploaded image.
func (i *Idea) HasImage() bool {
	return i.ImageRef != ""
}

// ListOptions provides filtering options for listing ideas.
type ListOptions struct {
	ProjectID string
	Pinned    *bool
	Match     func(*Idea) bool
	Limit     int
}
