package transport

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/karte/internal/attachment"
)

func (s *Server) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	const op = "attachment.store"
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: upload exceeds %d bytes", errBadRequest, tooLarge.Limit)
		} else {
			err = fmt.Errorf("%w: multipart field \"file\": %v", errBadRequest, err)
		}
		s.fail(w, r, op, err)
		return
	}
	defer file.Close()

	att, err := s.svc.Attachments.Store(r.Context(), header.Filename, file)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	w.Header().Set("Location", AttachmentPrefix+"/"+att.Ref)
	s.ok(w, op, http.StatusCreated, att)
}

func (s *Server) getAttachment(w http.ResponseWriter, r *http.Request) {
	const op = "attachment.resolve"
	blob, err := s.svc.Attachments.Resolve(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	metricsOK(op)
	writeBlob(w, blob, true)
}

func (s *Server) getThumbnail(w http.ResponseWriter, r *http.Request) {
	const op = "attachment.thumbnail"
	blob, err := s.svc.Attachments.ResolveThumbnail(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	metricsOK(op)
	writeBlob(w, blob, false)
}

func writeBlob(w http.ResponseWriter, blob *attachment.Blob, named bool) {
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "private, max-age=86400, immutable")
	if named {
		disposition := "attachment"
		if blob.IsImage() {
			disposition = "inline"
		}
		w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": blob.Filename}))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}
