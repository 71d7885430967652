package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// RequestExtensions lists the file extensions accepted for layout requests.
var RequestExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// ValidateRequestFilename validates the name of a layout request file.
// Only the base name is inspected, so callers may pass full paths.
func ValidateRequestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidRequest, "request filename cannot be empty")
	}

	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if !RequestExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported request file %q (want .json, .yaml, .yml or .toml)", base)
	}

	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
