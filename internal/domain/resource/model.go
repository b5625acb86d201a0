package resource

import "time"

// Kind describes what a resource points at.
type Kind string

const (
	KindDriveLink    Kind = "drive_link"
	KindNotionLink   Kind = "notion_link"
	KindURL          Kind = "url"
	KindUploadedFile Kind = "uploaded_file"
)

var kindLabels = map[Kind]string{
	KindDriveLink:    "Drive",
	KindNotionLink:   "Notion",
	KindURL:          "URL",
	KindUploadedFile: "ファイル",
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// Label returns the display label of the kind.
func (k Kind) Label() string {
	return kindLabels[k]
}

// IsLink reports whether the target is a URL rather than an attachment.
func (k Kind) IsLink() bool {
	return k != KindUploadedFile
}

// Resource is a link or uploaded file, optionally tied to a project.
type Resource struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"project_id,omitempty"`
	Kind      Kind      `json:"kind"`
	Target    string    `json:"target"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListOptions provides filtering options for listing resources, newest first.
type ListOptions struct {
	ProjectID string
	Kinds     []Kind
	Match     func(*Resource) bool
	Limit     int
}
