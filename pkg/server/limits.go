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

// Package server holds the limits shared by the storage server front ends.
package server

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// Server-wide limits, matching the constraints a Swift proxy advertises.
const (
	// MaxListLimit is the maximum number of entries returned by one listing request
	MaxListLimit = 10000

	// MaxDelimiterLength is the maximum length of a listing delimiter
	MaxDelimiterLength = 1

	// MaxPrefixLength is the maximum length of a listing prefix
	MaxPrefixLength = 1024

	// MaxMetaNameLength is the maximum length of a metadata key, without the header prefix
	MaxMetaNameLength = 128

	// MaxMetaValueLength is the maximum length of a metadata value
	MaxMetaValueLength = 256

	// MaxMetaCount is the maximum number of metadata keys on one container or object
	MaxMetaCount = 90

	// MaxMetaOverallSize is the maximum combined size of all metadata keys and values
	MaxMetaOverallSize = 4096
)

// ErrInvalidMetadata is returned when request metadata exceeds a limit.
var ErrInvalidMetadata = errors.New("invalid metadata")

// CheckMetadata validates metadata against the key, value, count and
// overall size limits.
func CheckMetadata(meta common.Metadata) error {
	if len(meta) > MaxMetaCount {
		return fmt.Errorf("%w: too many keys (max %d)", ErrInvalidMetadata, MaxMetaCount)
	}

	size := 0
	for k, v := range meta {
		if len(k) > MaxMetaNameLength {
			return fmt.Errorf("%w: key too long (max %d)", ErrInvalidMetadata, MaxMetaNameLength)
		}
		if len(v) > MaxMetaValueLength {
			return fmt.Errorf("%w: value of %s too long (max %d)", ErrInvalidMetadata, k, MaxMetaValueLength)
		}
		size += len(k) + len(v)
	}
	if size > MaxMetaOverallSize {
		return fmt.Errorf("%w: total size too large (max %d)", ErrInvalidMetadata, MaxMetaOverallSize)
	}
	return nil
}
