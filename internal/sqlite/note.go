package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/repository"
)

// NoteRepository implements note.Repository for SQLite
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

type noteRow struct {
	ID        string         `db:"id"`
	ProjectID sql.NullString `db:"project_id"`
	Body      string         `db:"body"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row noteRow) toDomain() note.Note {
	return note.Note{
		ID:        row.ID,
		ProjectID: stringPtr(row.ProjectID),
		Body:      row.Body,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

// Create creates a new note
func (r *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, project_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, n.ID, nullString(n.ProjectID), n.Body, n.CreatedAt.UTC(), n.UpdatedAt.UTC())
	if err != nil {
		return insertErr("note", err)
	}
	return nil
}

// Get retrieves a note by ID
func (r *NoteRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	var row noteRow
	err := r.db.GetContext(ctx, &row, `SELECT id, project_id, body, created_at, updated_at FROM notes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	n := row.toDomain()
	return &n, nil
}

// Update overwrites a note
func (r *NoteRepository) Update(ctx context.Context, n *note.Note) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes SET project_id = ?, body = ?, updated_at = ? WHERE id = ?
	`, nullString(n.ProjectID), n.Body, n.UpdatedAt.UTC(), n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a note
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireAffected(res)
}

// List returns notes, most recently updated first
func (r *NoteRepository) List(ctx context.Context, opts note.ListOptions) ([]note.Note, error) {
	query := `SELECT id, project_id, body, created_at, updated_at FROM notes`
	var args []interface{}
	if opts.ProjectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, opts.ProjectID)
	}
	query += ` ORDER BY updated_at DESC, id ASC`

	var rows []noteRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	notes := make([]note.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toDomain())
	}
	return notes, nil
}
