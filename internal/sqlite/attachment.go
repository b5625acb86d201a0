package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/karte/internal/attachment"
	"github.com/rpggio/karte/internal/repository"
)

// AttachmentRepository implements attachment.Repository for SQLite
type AttachmentRepository struct {
	db *DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create records attachment metadata
func (r *AttachmentRepository) Create(ctx context.Context, att *attachment.Attachment) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO attachments (ref, filename, content_type, size, thumbnail_ref, created_at)
		VALUES (:ref, :filename, :content_type, :size, :thumbnail_ref, :created_at)
	`, map[string]interface{}{
		"ref":           att.Ref,
		"filename":      att.Filename,
		"content_type":  att.ContentType,
		"size":          att.Size,
		"thumbnail_ref": att.ThumbnailRef,
		"created_at":    att.CreatedAt.UTC(),
	})
	if err != nil {
		return insertErr("attachment", err)
	}
	return nil
}

// Get retrieves attachment metadata by reference
func (r *AttachmentRepository) Get(ctx context.Context, ref string) (*attachment.Attachment, error) {
	var att attachment.Attachment
	err := r.db.QueryRowxContext(ctx, `
		SELECT ref, filename, content_type, size, thumbnail_ref, created_at
		FROM attachments WHERE ref = ?
	`, ref).Scan(&att.Ref, &att.Filename, &att.ContentType, &att.Size, &att.ThumbnailRef, &att.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	att.CreatedAt = att.CreatedAt.UTC()
	return &att, nil
}
