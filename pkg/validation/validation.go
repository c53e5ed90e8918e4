// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-swiftstore.
//
// go-swiftstore is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package validation checks container and object names before they reach
// the storage client or the development server. Both entry points share
// these rules so that a name accepted by the CLI is never rejected by the
// server for a different reason.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Name length limits, in bytes.
const (
	MaxContainerNameLength = 256
	MaxObjectNameLength    = 1024
)

var (
	// ErrInvalidContainerName wraps every container name rejection.
	ErrInvalidContainerName = errors.New("invalid container name")

	// ErrInvalidObjectName wraps every object name rejection.
	ErrInvalidObjectName = errors.New("invalid object name")
)

// ValidateContainerName validates a container name.
// Container names:
// - are non-empty and at most 256 bytes
// - are valid UTF-8 without control characters
// - contain no slash
func ValidateContainerName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidContainerName)
	}

	if len(name) > MaxContainerNameLength {
		return fmt.Errorf("%w: too long (max %d bytes)", ErrInvalidContainerName, MaxContainerNameLength)
	}

	if err := checkText(name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidContainerName, err)
	}

	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: contains a slash", ErrInvalidContainerName)
	}

	return nil
}

// ValidateObjectName validates an object name. Slashes are allowed and form
// pseudo-directories, but the name may not start with one and may not hold
// a ".." path component.
func ValidateObjectName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidObjectName)
	}

	// Check length before scanning the content
	if len(name) > MaxObjectNameLength {
		return fmt.Errorf("%w: too long (max %d bytes)", ErrInvalidObjectName, MaxObjectNameLength)
	}

	if err := checkText(name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidObjectName, err)
	}

	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: cannot start with a slash", ErrInvalidObjectName)
	}

	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: contains path traversal", ErrInvalidObjectName)
		}
	}

	return nil
}

// ValidatePrefix validates a listing prefix, marker or path. An empty value
// is valid.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	return ValidateObjectName(prefix)
}

func checkText(s string) error {
	if !utf8.ValidString(s) {
		return errors.New("not valid UTF-8")
	}
	for _, r := range s {
		if r < 32 || r == 127 {
			return errors.New("contains control characters")
		}
	}
	return nil
}

// SanitizeForLog sanitizes a string for safe logging (prevents log injection).
func SanitizeForLog(s string) string {
	// Remove control characters and null bytes
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)

	// Limit length to prevent log flooding
	if len(s) > 1000 {
		s = s[:1000] + "...[truncated]"
	}

	return s
}
