package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/repository"
)

// IdeaRepository implements idea.Repository for SQLite
type IdeaRepository struct {
	db *DB
}

// NewIdeaRepository creates a new IdeaRepository
func NewIdeaRepository(db *DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

type ideaRow struct {
	ID        string         `db:"id"`
	ProjectID sql.NullString `db:"project_id"`
	SourceURL string         `db:"source_url"`
	ImageRef  string         `db:"image_ref"`
	Caption   string         `db:"caption"`
	Pinned    bool           `db:"pinned"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const ideaColumns = `id, project_id, source_url, image_ref, caption, pinned, created_at, updated_at`

func (row ideaRow) toDomain() idea.Idea {
	return idea.Idea{
		ID:        row.ID,
		ProjectID: stringPtr(row.ProjectID),
		SourceURL: row.SourceURL,
		ImageRef:  row.ImageRef,
		Caption:   row.Caption,
		Pinned:    row.Pinned,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

// Create creates a new idea
func (r *IdeaRepository) Create(ctx context.Context, i *idea.Idea) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ideas (`+ideaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, i.ID, nullString(i.ProjectID), i.SourceURL, i.ImageRef, i.Caption, i.Pinned, i.CreatedAt.UTC(), i.UpdatedAt.UTC())
	if err != nil {
		return insertErr("idea", err)
	}
	return nil
}

// Get retrieves an idea by ID
func (r *IdeaRepository) Get(ctx context.Context, id string) (*idea.Idea, error) {
	var row ideaRow
	err := r.db.GetContext(ctx, &row, `SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	i := row.toDomain()
	return &i, nil
}

// Update overwrites an idea
func (r *IdeaRepository) Update(ctx context.Context, i *idea.Idea) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ideas
		SET project_id = ?, source_url = ?, image_ref = ?, caption = ?, pinned = ?, updated_at = ?
		WHERE id = ?
	`, nullString(i.ProjectID), i.SourceURL, i.ImageRef, i.Caption, i.Pinned, i.UpdatedAt.UTC(), i.ID)
	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an idea
func (r *IdeaRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ideas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	return requireAffected(res)
}

// List returns ideas pinned first, then newest first
func (r *IdeaRepository) List(ctx context.Context, opts idea.ListOptions) ([]idea.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas`
	var conditions []string
	var args []interface{}
	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.Pinned != nil {
		conditions = append(conditions, "pinned = ?")
		args = append(args, *opts.Pinned)
	}
	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}
	query += ` ORDER BY pinned DESC, created_at DESC, id ASC`

	var rows []ideaRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	ideas := make([]idea.Idea, 0, len(rows))
	for _, row := range rows {
		ideas = append(ideas, row.toDomain())
	}
	return ideas, nil
}
