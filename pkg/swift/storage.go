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

package swift

import (
	"context"
	"strings"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// Storage is the account-level facade. It shares the request plumbing of
// Container and hands out containers under its URL.
type Storage struct {
	client Transport
	url    string
	token  common.Headers
	opts   []Option
	format common.Format
	logger adapters.Logger
}

// NewStorage creates the account facade rooted at the storage URL. The
// options become defaults for every container it opens.
func NewStorage(client Transport, url string, token common.Headers, opts ...Option) *Storage {
	o := newOptions(opts)
	return &Storage{
		client: client,
		url:    strings.TrimRight(url, "/") + "/",
		token:  append(common.Headers(nil), token...),
		opts:   append([]Option(nil), opts...),
		format: o.format,
		logger: o.logger,
	}
}

// URL returns the storage URL, with a trailing slash.
func (s *Storage) URL() string {
	return s.url
}

// Format returns the default listing format for containers.
func (s *Storage) Format() common.Format {
	return s.format
}

// Container opens the named container. Storage options apply first and
// opts override them.
func (s *Storage) Container(ctx context.Context, name string, opts ...Option) (*Container, error) {
	name = strings.Trim(name, "/")
	if name == "" {
		return nil, common.ErrNameRequired
	}
	all := append(append([]Option(nil), s.opts...), opts...)
	return NewContainer(ctx, s.client, s.url+name, s.token, all...)
}

// SetFileHeaders is a no-op at the account level: nothing is sent and the
// status is always 0.
func (s *Storage) SetFileHeaders(ctx context.Context, name string, meta common.Metadata) (int, error) {
	s.logger.Debug(ctx, "object metadata update ignored at account level",
		adapters.Field{Key: "object", Value: name},
	)
	return 0, nil
}
