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

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContainerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "photos", false},
		{"unicode", "фото", false},
		{"dots and dashes", "my.bucket-01", false},
		{"max length", strings.Repeat("c", MaxContainerNameLength), false},

		{"empty", "", true},
		{"slash", "a/b", true},
		{"too long", strings.Repeat("c", MaxContainerNameLength+1), true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
		{"invalid utf8", "a\xffb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContainerName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContainerName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "cat.jpg", false},
		{"nested", "albums/2024/cat.jpg", false},
		{"spaces", "my file.txt", false},
		{"dots inside name", "file..txt", false},
		{"trailing slash", "albums/", false},

		{"empty", "", true},
		{"leading slash", "/etc/passwd", true},
		{"parent", "..", true},
		{"traversal", "a/../b", true},
		{"traversal at end", "a/..", true},
		{"tab", "a\tb", true},
		{"too long", strings.Repeat("o", MaxObjectNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidObjectName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePrefix(t *testing.T) {
	assert.NoError(t, ValidatePrefix(""))
	assert.NoError(t, ValidatePrefix("albums/"))
	assert.Error(t, ValidatePrefix("../"))
}

func TestSanitizeForLog(t *testing.T) {
	assert.Equal(t, "injectedline", SanitizeForLog("injected\nline"))
	assert.Equal(t, "clean", SanitizeForLog("clean"))

	long := SanitizeForLog(strings.Repeat("x", 1500))
	assert.True(t, strings.HasSuffix(long, "...[truncated]"))
	assert.Len(t, long, 1000+len("...[truncated]"))
}
