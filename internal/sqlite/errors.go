package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rpggio/karte/internal/repository"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertErr maps constraint failures on insert to repository errors.
func insertErr(what string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("failed to create %s: %w", what, repository.ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", what, err)
}

// requireAffected turns a zero-row update or delete into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
