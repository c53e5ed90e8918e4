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

package common

import "errors"

var (
	// ErrObjectNotFound is returned when a named object does not exist in the container.
	ErrObjectNotFound = errors.New("object not found")

	// ErrContainerNotFound is returned when the container does not exist.
	ErrContainerNotFound = errors.New("container not found")

	// ErrNameRequired is returned when an operation needs an object name and none was given.
	ErrNameRequired = errors.New("object name is required")

	// ErrInvalidHeaderLine is returned when a raw header line cannot be parsed.
	ErrInvalidHeaderLine = errors.New("invalid header line")

	// ErrUnsupportedFormat is returned when a listing format cannot be encoded or decoded.
	ErrUnsupportedFormat = errors.New("unsupported listing format")
)
