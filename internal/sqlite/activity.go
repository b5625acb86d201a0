package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/karte/internal/domain/activity"
	"github.com/rpggio/karte/internal/domain/entity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type activityRow struct {
	ID           int64          `db:"id"`
	EntityKind   string         `db:"entity_kind"`
	EntityID     string         `db:"entity_id"`
	ProjectID    sql.NullString `db:"project_id"`
	ActivityType string         `db:"activity_type"`
	Summary      string         `db:"summary"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	query := `
		INSERT INTO activity_log (
			entity_kind, entity_id, project_id, activity_type, summary, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.EntityKind,
		entry.EntityID,
		nullString(entry.ProjectID),
		entry.ActivityType,
		entry.Summary,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT id, entity_kind, entity_id, project_id, activity_type, summary, created_at
		FROM activity_log
	`

	var args []interface{}
	var conditions []string

	if opts.EntityKind != "" {
		conditions = append(conditions, "entity_kind = ?")
		args = append(args, opts.EntityKind)
	}
	if opts.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, opts.EntityID)
	}
	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	entries := make([]activity.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, activity.ActivityEntry{
			ID:           row.ID,
			EntityKind:   entity.Kind(row.EntityKind),
			EntityID:     row.EntityID,
			ProjectID:    stringPtr(row.ProjectID),
			ActivityType: activity.ActivityType(row.ActivityType),
			Summary:      row.Summary,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return entries, nil
}

func joinConditions(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	joined := conditions[0]
	for i := 1; i < len(conditions); i++ {
		joined += " AND " + conditions[i]
	}
	return joined
}
