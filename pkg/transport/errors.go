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

package transport

import "errors"

var (
	// ErrInvalidURL is returned when a request URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid request URL")

	// ErrInvalidMethod is returned when a request is issued without an HTTP method.
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrRequestFailed wraps transport-level failures (dial, TLS, read).
	ErrRequestFailed = errors.New("request failed")
)
