package errors

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// graphNameRegex matches catalog-style graph names: lowercase words joined
// by single dashes or underscores.
var graphNameRegex = regexp.MustCompile(`^[a-z0-9]+([_-][a-z0-9]+)*$`)

// ValidateGraphName validates a name used to save or look up a graph.
//
// Names end up in file names (history) and URLs (server), so the rules are
// conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Lowercase letters, digits, and single '-' or '_' separators only
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "graph name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "graph name too long (max 64 characters)")
	}
	if !graphNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid graph name: %q (use lowercase letters, digits, '-' and '_')", name)
	}
	return nil
}

// ValidateGraphPath validates a graph file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Extension must be .json or .toml
func ValidateGraphPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".toml":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported graph file %q (want .json or .toml)", filepath.Base(path))
	}
}

// ValidateGraphURL validates a remote graph location.
//
// Validation rules:
//   - Maximum length of 2048 characters
//   - Scheme must be http or https, with a host
//   - Path extension must be .json or .toml
func ValidateGraphURL(raw string) error {
	if len(raw) > 2048 {
		return New(ErrCodeInvalidPath, "url too long (max 2048 characters)")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return New(ErrCodeInvalidPath, "invalid url: %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidPath, "unsupported url scheme %q (want http or https)", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidPath, "url has no host: %q", raw)
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".json", ".toml":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported graph url %q (want a .json or .toml path)", raw)
	}
}

// ValidateID validates a session or trace identifier. IDs are UUIDs in
// canonical form; anything else is rejected before touching storage.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(id)
	if err != nil || u.String() != strings.ToLower(id) {
		return New(ErrCodeInvalidInput, "invalid id: %q", id)
	}
	return nil
}
