// Copyright 2025 KrakLabs
// SPDX-License-Identifier: AGPL-3.0-or-later

package contract

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultSoftLimitBytes is the baseline soft limit for a single stored
	// payload (glyph data, background image, document).
	DefaultSoftLimitBytes = 16 << 20 // 16 MiB

	// NameMaxBytes is the maximum length of a project id or glyph name.
	NameMaxBytes = 255
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// SoftLimitBytes returns the effective soft limit for payload size.
// Controlled via env FONTSTORE_SOFT_LIMIT_BYTES; falls back to DefaultSoftLimitBytes.
func SoftLimitBytes() int {
	if v := os.Getenv("FONTSTORE_SOFT_LIMIT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultSoftLimitBytes
}

// ValidateProjectID checks a user-chosen project identifier.
func ValidateProjectID(id string) error {
	return validateName("project id", id)
}

// ValidateGlyphName checks a glyph name.
func ValidateGlyphName(name string) error {
	return validateName("glyph name", name)
}

// ValidatePayload rejects payloads above the soft limit.
func ValidatePayload(kind string, size int) error {
	if limit := SoftLimitBytes(); size > limit {
		return fmt.Errorf("%w: %s is %d bytes, exceeds soft limit of %d", ErrInvalidInput, kind, size, limit)
	}
	return nil
}

func validateName(kind, s string) error {
	switch {
	case strings.TrimSpace(s) == "":
		return fmt.Errorf("%w: %s is empty", ErrInvalidInput, kind)
	case len(s) > NameMaxBytes:
		return fmt.Errorf("%w: %s is longer than %d bytes", ErrInvalidInput, kind, NameMaxBytes)
	case !utf8.ValidString(s):
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidInput, kind)
	case strings.Contains(s, "/"):
		return fmt.Errorf("%w: %s %q contains '/'", ErrInvalidInput, kind, s)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %s %q contains control characters", ErrInvalidInput, kind, s)
		}
	}
	return nil
}
