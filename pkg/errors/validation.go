package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxMapDimension is the largest accepted map width or height.
const MaxMapDimension = 256

// ValidateDimensions checks that a map size is usable.
//
// The validation rules are:
//   - Both sides at least 8 cells, so every quadrant has room for a star
//   - Neither side larger than MaxMapDimension
func ValidateDimensions(width, height int) error {
	const minSide = 8
	if width < minSide || height < minSide {
		return New(ErrCodeInvalidOptions, "map %dx%d is too small (min %dx%d)", width, height, minSide, minSide)
	}
	if width > MaxMapDimension || height > MaxMapDimension {
		return New(ErrCodeInvalidOptions, "map %dx%d exceeds %dx%d", width, height, MaxMapDimension, MaxMapDimension)
	}
	return nil
}

// ValidateGalaxyID checks that id is a canonical UUID as issued by the store.
func ValidateGalaxyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidOptions, "galaxy id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidOptions, err, "invalid galaxy id %q", id)
	}
	return nil
}

// ValidateKey validates a civilization key. Keys are upper-case ASCII
// identifiers such as "FEDERATION".
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidDescriptor, "civilization key cannot be empty")
	}
	if len(key) > 64 {
		return New(ErrCodeInvalidDescriptor, "civilization key too long (max 64 characters)")
	}
	for _, r := range key {
		if !(r == '_' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return New(ErrCodeInvalidDescriptor, "civilization key %q must be upper-case letters, digits or '_'", key)
		}
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
