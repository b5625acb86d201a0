package resource

import (
	"fmt"
	"net/url"
	"strings"
)

// AttachmentRefPrefix marks targets that name an uploaded attachment.
const AttachmentRefPrefix = "att_"

// InferKind guesses the kind of a target from its shape and host.
func InferKind(target string) Kind {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, AttachmentRefPrefix) {
		return KindUploadedFile
	}
	u, err := url.Parse(target)
	if err != nil {
		return KindURL
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "drive.google.com" || host == "docs.google.com":
		return KindDriveLink
	case host == "notion.so" || strings.HasSuffix(host, ".notion.so") || strings.HasSuffix(host, ".notion.site"):
		return KindNotionLink
	default:
		return KindURL
	}
}

// Validate checks the fields every stored resource must satisfy.
func Validate(r *Resource) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, r.Kind)
	}
	if strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("%w: target is required", ErrInvalidInput)
	}
	if r.Kind == KindUploadedFile {
		if !strings.HasPrefix(r.Target, AttachmentRefPrefix) {
			return fmt.Errorf("%w: uploaded_file target must be an attachment reference", ErrInvalidInput)
		}
		return nil
	}
	u, err := url.Parse(r.Target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: target must be an http(s) URL", ErrInvalidInput)
	}
	return nil
}

func defaultLabel(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return target
	}
	return u.Host
}
