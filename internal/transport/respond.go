package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rpggio/karte/internal/attachment"
	"github.com/rpggio/karte/internal/domain/dashboard"
	"github.com/rpggio/karte/internal/domain/idea"
	"github.com/rpggio/karte/internal/domain/note"
	"github.com/rpggio/karte/internal/domain/project"
	"github.com/rpggio/karte/internal/domain/resource"
	"github.com/rpggio/karte/internal/repository"
)

// Error codes returned in the JSON error body.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeAttachment = "ATTACHMENT_ERROR"
	CodeInternal   = "INTERNAL"
)

// errBadRequest marks malformed request bodies and query parameters.
var errBadRequest = errors.New("bad request")

var validationErrors = []error{
	errBadRequest,
	project.ErrInvalidInput,
	note.ErrInvalidInput,
	resource.ErrInvalidInput,
	idea.ErrInvalidInput,
	attachment.ErrInvalidInput,
	dashboard.ErrInvalidInput,
}

var notFoundErrors = []error{
	project.ErrProjectNotFound,
	note.ErrNoteNotFound,
	resource.ErrResourceNotFound,
	idea.ErrIdeaNotFound,
	attachment.ErrNotFound,
	repository.ErrNotFound,
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type listBody[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listBody[T] {
	if items == nil {
		items = []T{}
	}
	return listBody[T]{Items: items, Count: len(items)}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// StatusFor maps a service error to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	var attErr *attachment.Error
	if errors.As(err, &attErr) {
		return http.StatusBadGateway, CodeAttachment
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, CodeValidation
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, CodeNotFound
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding body: %v", errBadRequest, err)
	}
	return nil
}
