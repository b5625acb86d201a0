package idea

import (
	"fmt"
	"net/url"
	"strings"
)

const attachmentRefPrefix = "att_"

// Validate checks that an idea carries content and well-formed references.
func Validate(i *Idea) error {
	if strings.TrimSpace(i.Caption) == "" && i.SourceURL == "" && i.ImageRef == "" {
		return fmt.Errorf("%w: one of caption, source_url or image_ref is required", ErrInvalidInput)
	}
	if i.SourceURL != "" {
		u, err := url.Parse(i.SourceURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: source_url must be an http(s) URL", ErrInvalidInput)
		}
	}
	if i.ImageRef != "" && !strings.HasPrefix(i.ImageRef, attachmentRefPrefix) {
		return fmt.Errorf("%w: image_ref must be an attachment reference", ErrInvalidInput)
	}
	return nil
}
