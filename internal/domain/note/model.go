package note

import "time"

// Note is free text optionally attached to a project by weak reference.
type Note struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"project_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListOptions provides filtering options for listing notes, newest first.
type ListOptions struct {
	ProjectID string
	Match     func(*Note) bool
	Limit     int
}
