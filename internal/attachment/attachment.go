// Package attachment stores uploaded files and their thumbnails behind a
// pluggable object backend, with metadata kept in the database.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/karte/internal/repository"
)

// RefPrefix marks attachment references so they can be told apart from URLs.
const RefPrefix = "att_"

var (
	// ErrNotFound indicates the attachment reference is unknown.
	ErrNotFound = fmt.Errorf("attachment %w", repository.ErrNotFound)
	// ErrInvalidInput indicates an empty filename or payload.
	ErrInvalidInput = errors.New("invalid attachment input")
)

// Attachment is the metadata of a stored file.
type Attachment struct {
	Ref          string    `json:"ref"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	ThumbnailRef string    `json:"thumbnail_ref,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsImage reports whether the attachment was sniffed as an image.
func (a *Attachment) IsImage() bool {
	return len(a.ContentType) > 6 && a.ContentType[:6] == "image/"
}

// Blob is an attachment together with its bytes.
type Blob struct {
	Attachment
	Data []byte
}

// Error wraps failures of the object backend or the metadata store.
type Error struct {
	Op  string
	Ref string
	Err error
}

func (e *Error) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("attachment %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("attachment %s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Repository persists attachment metadata.
type Repository interface {
	Create(ctx context.Context, att *Attachment) error
	Get(ctx context.Context, ref string) (*Attachment, error)
}

// Backend stores raw objects by key. Get returns an error wrapping
// ErrNotFound for missing keys.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
