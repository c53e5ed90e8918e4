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

package adapters

import "errors"

var (
	// ErrUnauthorized is returned when a request carries no valid token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingCredentials is returned when the token header is absent.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCertificate is returned when a certificate is invalid or missing.
	ErrInvalidCertificate = errors.New("invalid certificate")

	// ErrInvalidCAPool is returned when the CA bundle cannot be loaded.
	ErrInvalidCAPool = errors.New("invalid CA pool")

	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")
)
