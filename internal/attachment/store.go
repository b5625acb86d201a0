package attachment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rpggio/karte/internal/repository"
)

// ThumbnailSize bounds both sides of generated thumbnails.
const ThumbnailSize = 320

// Store saves uploads to a backend and records their metadata.
type Store struct {
	backend Backend
	repo    Repository
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates an attachment store.
func NewStore(backend Backend, repo Repository, logger *slog.Logger) *Store {
	return &Store{backend: backend, repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Store reads r fully and saves it under a fresh reference. Images also get
// a JPEG thumbnail; a thumbnail failure leaves ThumbnailRef empty.
func (s *Store) Store(ctx context.Context, filename string, r io.Reader) (*Attachment, error) {
	filename = cleanFilename(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	att := &Attachment{
		Ref:         RefPrefix + uuid.NewString(),
		Filename:    filename,
		ContentType: mimetype.Detect(data).String(),
		Size:        int64(len(data)),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.backend.Put(ctx, att.Ref, data, att.ContentType); err != nil {
		return nil, &Error{Op: "store", Ref: att.Ref, Err: err}
	}
	if att.IsImage() {
		att.ThumbnailRef = s.storeThumbnail(ctx, att.Ref, data)
	}

	if err := s.repo.Create(ctx, att); err != nil {
		s.discard(ctx, att.Ref, att.ThumbnailRef)
		return nil, &Error{Op: "store", Ref: att.Ref, Err: err}
	}
	return att, nil
}

// Resolve returns the attachment and its bytes.
func (s *Store) Resolve(ctx context.Context, ref string) (*Blob, error) {
	att, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, att.Ref)
	if err != nil {
		return nil, &Error{Op: "resolve", Ref: ref, Err: err}
	}
	return &Blob{Attachment: *att, Data: data}, nil
}

// ResolveThumbnail returns the JPEG thumbnail of an image attachment.
func (s *Store) ResolveThumbnail(ctx context.Context, ref string) (*Blob, error) {
	att, err := s.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if att.ThumbnailRef == "" {
		return nil, ErrNotFound
	}
	data, err := s.backend.Get(ctx, att.ThumbnailRef)
	if err != nil {
		return nil, &Error{Op: "resolve thumbnail", Ref: ref, Err: err}
	}
	thumb := *att
	thumb.ContentType = "image/jpeg"
	thumb.Size = int64(len(data))
	return &Blob{Attachment: thumb, Data: data}, nil
}

// Lookup returns attachment metadata without reading the bytes.
func (s *Store) Lookup(ctx context.Context, ref string) (*Attachment, error) {
	if !strings.HasPrefix(ref, RefPrefix) {
		return nil, ErrNotFound
	}
	att, err := s.repo.Get(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "lookup", Ref: ref, Err: err}
	}
	return att, nil
}

// Filename returns the original filename of an attachment.
func (s *Store) Filename(ctx context.Context, ref string) (string, error) {
	att, err := s.Lookup(ctx, ref)
	if err != nil {
		return "", err
	}
	return att.Filename, nil
}

func (s *Store) storeThumbnail(ctx context.Context, ref string, data []byte) string {
	thumb, err := Thumbnail(data)
	if err != nil {
		s.warn("skipping thumbnail", ref, err)
		return ""
	}
	key := ref + ".thumb.jpg"
	if err := s.backend.Put(ctx, key, thumb, "image/jpeg"); err != nil {
		s.warn("failed to store thumbnail", ref, err)
		return ""
	}
	return key
}

func (s *Store) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.backend.Delete(ctx, key); err != nil {
			s.warn("failed to discard object", key, err)
		}
	}
}

func (s *Store) warn(msg, ref string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "ref", ref, "error", err)
	}
}

// Thumbnail decodes an image and encodes a JPEG that fits in
// ThumbnailSize x ThumbnailSize.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func cleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
