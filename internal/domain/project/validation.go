package project

import (
	"fmt"
	"strings"
)

// Validate checks the fields every stored project must satisfy.
func Validate(p *Project) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	if !p.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, p.Priority)
	}
	return nil
}
