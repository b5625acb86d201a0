package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/repository"
)

// ResourceRepository implements resource.Repository for SQLite
type ResourceRepository struct {
	db *DB
}

// NewResourceRepository creates a new ResourceRepository
func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

type resourceRow struct {
	ID        string         `db:"id"`
	ProjectID sql.NullString `db:"project_id"`
	Kind      string         `db:"kind"`
	Target    string         `db:"target"`
	Label     string         `db:"label"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const resourceColumns = `id, project_id, kind, target, label, created_at, updated_at`

func (row resourceRow) toDomain() resource.Resource {
	return resource.Resource{
		ID:        row.ID,
		ProjectID: stringPtr(row.ProjectID),
		Kind:      resource.Kind(row.Kind),
		Target:    row.Target,
		Label:     row.Label,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

// Create creates a new resource
func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resources (`+resourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, res.ID, nullString(res.ProjectID), res.Kind, res.Target, res.Label, res.CreatedAt.UTC(), res.UpdatedAt.UTC())
	if err != nil {
		return insertErr("resource", err)
	}
	return nil
}

// Get retrieves a resource by ID
func (r *ResourceRepository) Get(ctx context.Context, id string) (*resource.Resource, error) {
	var row resourceRow
	err := r.db.GetContext(ctx, &row, `SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	res := row.toDomain()
	return &res, nil
}

// Update overwrites a resource
func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE resources SET project_id = ?, kind = ?, target = ?, label = ?, updated_at = ?
		WHERE id = ?
	`, nullString(res.ProjectID), res.Kind, res.Target, res.Label, res.UpdatedAt.UTC(), res.ID)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	return requireAffected(result)
}

// Delete removes a resource
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	return requireAffected(result)
}

// List returns resources, most recently updated first
func (r *ResourceRepository) List(ctx context.Context, opts resource.ListOptions) ([]resource.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources`
	var conditions []string
	var args []interface{}
	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if len(opts.Kinds) > 0 {
		conditions = append(conditions, "kind IN ("+placeholders(len(opts.Kinds))+")")
		for _, k := range opts.Kinds {
			args = append(args, k)
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}
	query += ` ORDER BY updated_at DESC, id ASC`

	var rows []resourceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	resources := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.toDomain())
	}
	return resources, nil
}
