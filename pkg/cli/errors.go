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

package cli

import "errors"

var (
	// Configuration errors

	// ErrURLRequired is returned when the storage URL is not set.
	ErrURLRequired = errors.New("url is required")

	// ErrInvalidURL is returned when the storage URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("url must be an absolute http or https URL")

	// ErrTokenRequired is returned when the auth token is not set.
	ErrTokenRequired = errors.New("token is required")

	// ErrContainerRequired is returned when no container is selected.
	ErrContainerRequired = errors.New("container is required")

	// ErrUnsupportedOutputFormat is returned when an unsupported output format is specified.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")

	// ErrUnsupportedListFormat is returned when the listing format is not plain, json or xml.
	ErrUnsupportedListFormat = errors.New("unsupported listing format")

	// Command errors

	// ErrInvalidMetadata is returned when a metadata argument is not key=value.
	ErrInvalidMetadata = errors.New("metadata must be key=value")

	// ErrPreconditionFailed is returned when a conditional download fails with 412.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrUnexpectedStatus is returned when the service answers with a status the command cannot use.
	ErrUnexpectedStatus = errors.New("unexpected status")
)
