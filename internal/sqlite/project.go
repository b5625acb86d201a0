package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/karte/internal/calendar"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type projectRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Client    string         `db:"client"`
	Owner     string         `db:"owner"`
	Status    string         `db:"status"`
	Priority  string         `db:"priority"`
	DueDate   sql.NullString `db:"due_date"`
	Notes     string         `db:"notes"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const projectColumns = `id, title, client, owner, status, priority, due_date, notes, created_at, updated_at`

func (row projectRow) toDomain() (*project.Project, error) {
	p := &project.Project{
		ID:        row.ID,
		Title:     row.Title,
		Client:    row.Client,
		Owner:     row.Owner,
		Status:    project.Status(row.Status),
		Priority:  project.Priority(row.Priority),
		Notes:     row.Notes,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.DueDate.Valid && row.DueDate.String != "" {
		due, err := calendar.ParseDate(row.DueDate.String)
		if err != nil {
			return nil, fmt.Errorf("project %s has malformed due date: %w", row.ID, err)
		}
		p.DueDate = &due
	}
	return p, nil
}

func dueValue(d *calendar.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Title,
		proj.Client,
		proj.Owner,
		proj.Status,
		proj.Priority,
		dueValue(proj.DueDate),
		proj.Notes,
		proj.CreatedAt.UTC(),
		proj.UpdatedAt.UTC(),
	)
	if err != nil {
		return insertErr("project", err)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	var row projectRow
	err := r.db.GetContext(ctx, &row, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return row.toDomain()
}

// Update overwrites every mutable column of a project
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET title = ?, client = ?, owner = ?, status = ?, priority = ?,
			due_date = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		proj.Title,
		proj.Client,
		proj.Owner,
		proj.Status,
		proj.Priority,
		dueValue(proj.DueDate),
		proj.Notes,
		proj.UpdatedAt.UTC(),
		proj.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a project. Linked notes, resources and ideas are untouched.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(res)
}

var projectOrder = map[project.SortKey]string{
	project.SortDueAsc:      "due_date IS NULL, due_date ASC, title ASC, id ASC",
	project.SortUpdatedDesc: "updated_at DESC, id ASC",
	project.SortCreatedDesc: "created_at DESC, id ASC",
	project.SortTitleAsc:    "title ASC, id ASC",
}

// List returns projects filtered by status in the requested order
func (r *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []interface{}
	if len(opts.Statuses) > 0 {
		query += ` WHERE status IN (` + placeholders(len(opts.Statuses)) + `)`
		for _, s := range opts.Statuses {
			args = append(args, s)
		}
	}
	order, ok := projectOrder[opts.Sort]
	if !ok {
		order = projectOrder[project.SortDueAsc]
	}
	query += ` ORDER BY ` + order

	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, nil
}
