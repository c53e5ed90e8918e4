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

// Package swift is a client for one container of a Swift-style object
// storage account. A Container turns method calls into HTTP requests and
// turns response headers and bodies back into metadata, listings and
// transfer results.
//
// Only the info refresh and the upload operations validate the response
// status; they fail with a *StatusError. Every other operation hands the raw
// exchange back so callers can treat codes such as 304 or 412 as data.
package swift

import (
	"context"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
)

// Transport starts requests. *transport.Client implements it.
type Transport interface {
	Init(url string) *transport.Request
}

// MetadataUpdater is implemented by facades able to update object-level
// metadata. Only Container performs a request; Storage is a no-op.
type MetadataUpdater interface {
	SetFileHeaders(ctx context.Context, name string, meta common.Metadata) (int, error)
}

// AuthToken returns the header set that authenticates storage requests.
func AuthToken(token string) common.Headers {
	return common.NewHeaders(adapters.AuthTokenHeader, token)
}

// Option configures a Container or Storage.
type Option func(*options)

type options struct {
	format            common.Format
	info              common.Metadata
	logger            adapters.Logger
	detectContentType bool
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	o.format = common.ResolveFormat(o.format, DefaultFormat)
	if o.logger == nil {
		o.logger = adapters.NewNoOpLogger()
	}
	return o
}

// DefaultFormat is used when no valid format was configured.
const DefaultFormat = common.FormatPlain

// WithFormat sets the preferred listing format. Values outside
// common.Formats are ignored and the default is kept.
func WithFormat(format common.Format) Option {
	return func(o *options) {
		if format.Valid() {
			o.format = format
		}
	}
}

// WithInfo supplies a metadata snapshot so that NewContainer does not fetch
// one. An empty mapping is the same as not supplying one.
func WithInfo(info common.Metadata) Option {
	return func(o *options) {
		o.info = info
	}
}

// WithLogger sets the logger.
func WithLogger(logger adapters.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContentTypeDetection makes uploads without an explicit Content-Type
// header sniff one from the payload.
func WithContentTypeDetection() Option {
	return func(o *options) {
		o.detectContentType = true
	}
}

var (
	_ MetadataUpdater = (*Container)(nil)
	_ MetadataUpdater = (*Storage)(nil)
	_ Transport       = (*transport.Client)(nil)
)
