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
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// Container is one storage container. The metadata snapshot is the only
// mutable state; it is replaced, never merged, by GetInfo(ctx, true).
type Container struct {
	client            Transport
	url               string
	token             common.Headers
	format            common.Format
	logger            adapters.Logger
	detectContentType bool

	mu   sync.RWMutex
	info common.Metadata
}

// NewContainer creates a container rooted at url (the account storage URL
// followed by the container name). Unless WithInfo supplies a non-empty
// snapshot, the metadata is fetched with one HEAD request and a non-204
// status fails construction.
func NewContainer(ctx context.Context, client Transport, url string, token common.Headers, opts ...Option) (*Container, error) {
	o := newOptions(opts)

	c := &Container{
		client:            client,
		url:               strings.TrimRight(url, "/") + "/",
		token:             append(common.Headers(nil), token...),
		format:            o.format,
		logger:            o.logger.WithFields(adapters.Field{Key: "container", Value: url}),
		detectContentType: o.detectContentType,
	}

	if len(o.info) > 0 {
		c.info = o.info.Clone()
		return c, nil
	}

	if _, err := c.GetInfo(ctx, true); err != nil {
		return nil, err
	}
	return c, nil
}

// URL returns the container base URL, with a trailing slash.
func (c *Container) URL() string {
	return c.url
}

// Format returns the preferred listing format.
func (c *Container) Format() common.Format {
	return c.format
}

// GetInfo returns the cached metadata snapshot. With refresh it first
// issues a HEAD against the container, requires 204, and replaces the
// snapshot with the decoded X-Container-Meta-* headers. A failed refresh
// leaves the snapshot untouched.
func (c *Container) GetInfo(ctx context.Context, refresh bool) (common.Metadata, error) {
	if !refresh {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.info.Clone(), nil
	}

	resp, err := c.client.Init(c.url).
		SetHeaders(c.token).
		Do(ctx, http.MethodHead)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(OpGetInfo, resp.StatusCode()); err != nil {
		c.logger.Warn(ctx, "container info refresh failed",
			adapters.Field{Key: "status", Value: resp.StatusCode()},
		)
		return nil, err
	}

	info := DecodeMetadata(resp.Headers(), ContainerMetaPrefix)

	c.mu.Lock()
	c.info = info
	c.mu.Unlock()

	c.logger.Debug(ctx, "container info refreshed",
		adapters.Field{Key: "keys", Value: len(info)},
	)
	return info.Clone(), nil
}

// objectURL joins the base URL and an object name, escaping each path
// segment of the name.
func (c *Container) objectURL(name string) string {
	segments := strings.Split(name, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.url + strings.Join(segments, "/")
}

// withToken appends the auth token to headers.
func (c *Container) withToken(headers common.Headers) common.Headers {
	return headers.Merge(c.token)
}
