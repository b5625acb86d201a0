package mcp

import (
	"fmt"
	"net/http"

	"github.com/rpggio/karte/internal/transport"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	err          error
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

func (e *APIError) Unwrap() error {
	return e.err
}

var recoveryHints = map[string]string{
	transport.CodeValidation: "Check field values against karte://docs/concepts",
	transport.CodeNotFound:   "Check ID spelling or search for the record first",
	transport.CodeAttachment: "Retry later; the attachment backend is unavailable",
}

// MapError maps domain errors to MCP error codes. Unclassified errors
// return nil so callers can pass them through unchanged.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	status, code := transport.StatusFor(err)
	if status == http.StatusInternalServerError {
		return nil
	}
	return &APIError{Code: code, Message: err.Error(), RecoveryHint: recoveryHints[code], err: err}
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
