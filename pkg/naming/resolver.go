package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultWhitelist maps accepted content types to their canonical file
// extension. Uploads with any other declared type are rejected before
// name resolution.
var DefaultWhitelist = map[string]string{
	"video/mp4":        ".mp4",
	"video/quicktime":  ".mov",
	"video/webm":       ".webm",
	"video/x-matroska": ".mkv",
	"image/png":        ".png",
	"image/jpeg":       ".jpg",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
}

// safeNamePattern restricts caller-suggested names to letters, digits,
// underscore, hyphen and dot. Anything outside it (slashes, whitespace,
// traversal sequences) falls back to a generated name.
var safeNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Resolver derives on-disk filenames for uploads.
type Resolver struct {
	whitelist map[string]string
}

// NewResolver returns a Resolver using the given whitelist, or
// DefaultWhitelist when nil.
func NewResolver(whitelist map[string]string) *Resolver {
	if whitelist == nil {
		whitelist = DefaultWhitelist
	}
	return &Resolver{whitelist: whitelist}
}

// Allowed reports whether the content type is in the whitelist.
func (r *Resolver) Allowed(contentType string) bool {
	_, ok := r.whitelist[contentType]
	return ok
}

// Resolve derives the final on-disk filename for an upload. It assumes
// the content type has already been validated against the whitelist.
//
// The caller-suggested name is honoured only when it matches the safe
// pattern; a suggested name that already carries an extension is used
// verbatim, otherwise the extension derived from the original name (or
// the whitelist's canonical one) is appended. Unsafe or absent
// suggestions yield a random UUID base name.
func (r *Resolver) Resolve(originalName, contentType, suggestedName string) string {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = r.whitelist[contentType]
	}

	if name, ok := safeName(suggestedName); ok {
		if filepath.Ext(name) != "" {
			return name
		}
		return name + ext
	}

	return uuid.NewString() + ext
}

// safeName validates a caller-suggested name. Path separators and
// dot-dot sequences must never reach the filesystem layer.
func safeName(suggested string) (string, bool) {
	name := strings.TrimSpace(suggested)
	if name == "" {
		return "", false
	}
	if !safeNamePattern.MatchString(name) {
		return "", false
	}
	if strings.Contains(name, "..") || strings.Trim(name, ".") == "" {
		return "", false
	}
	return name, true
}
