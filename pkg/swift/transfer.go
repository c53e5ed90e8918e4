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
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
)

// DirectoryContentType marks a pseudo-directory placeholder object.
const DirectoryContentType = "application/directory"

// sniffLen is how much of a stream is buffered for content-type detection.
const sniffLen = 3072

// IfMatch builds an If-Match header.
func IfMatch(etag string) common.Header {
	return common.Header{Name: "If-Match", Value: etag}
}

// IfNoneMatch builds an If-None-Match header.
func IfNoneMatch(etag string) common.Header {
	return common.Header{Name: "If-None-Match", Value: etag}
}

// IfModifiedSince builds an If-Modified-Since header.
func IfModifiedSince(t time.Time) common.Header {
	return common.Header{Name: "If-Modified-Since", Value: t.UTC().Format(http.TimeFormat)}
}

// IfUnmodifiedSince builds an If-Unmodified-Since header.
func IfUnmodifiedSince(t time.Time) common.Header {
	return common.Header{Name: "If-Unmodified-Since", Value: t.UTC().Format(http.TimeFormat)}
}

// GetFile fetches an object. Caller headers (typically the conditional
// If-* headers) are sent verbatim ahead of the token. The status is not
// interpreted: 304 and 412 come back as ordinary results.
func (c *Container) GetFile(ctx context.Context, name string, headers common.Headers) (*transport.Result, error) {
	if name == "" {
		return nil, common.ErrNameRequired
	}

	resp, err := c.client.Init(c.objectURL(name)).
		SetHeaders(c.withToken(headers)).
		Do(ctx, http.MethodGet)
	if err != nil {
		return nil, err
	}
	return resp.Result(), nil
}

// PutFile uploads a local file. An empty remoteName is replaced by the
// last element of localPath. Anything but 201 is a *StatusError.
func (c *Container) PutFile(ctx context.Context, localPath, remoteName string, headers common.Headers) (*transport.Result, error) {
	if remoteName == "" {
		remoteName = filepath.Base(localPath)
	}
	if localPath == "" || remoteName == "." || remoteName == string(filepath.Separator) {
		return nil, common.ErrNameRequired
	}

	if c.detectContentType && !headers.Has("Content-Type") {
		if mt, err := mimetype.DetectFile(localPath); err == nil {
			headers = headers.Merge(common.NewHeaders("Content-Type", mt.String()))
		}
	}

	resp, err := c.client.Init(c.objectURL(remoteName)).
		SetHeaders(c.withToken(headers)).
		PutFile(ctx, localPath)
	if err != nil {
		return nil, err
	}
	return c.uploaded(ctx, OpPutFile, remoteName, resp)
}

// PutFileContents uploads an in-memory payload under remoteName, which is
// required. Anything but 201 is a *StatusError.
func (c *Container) PutFileContents(ctx context.Context, contents []byte, remoteName string, headers common.Headers) (*transport.Result, error) {
	if remoteName == "" {
		return nil, common.ErrNameRequired
	}

	if c.detectContentType && !headers.Has("Content-Type") {
		headers = headers.Merge(common.NewHeaders("Content-Type", mimetype.Detect(contents).String()))
	}

	resp, err := c.client.Init(c.objectURL(remoteName)).
		SetHeaders(c.withToken(headers)).
		PutContents(ctx, contents)
	if err != nil {
		return nil, err
	}
	return c.uploaded(ctx, OpPutFileContents, remoteName, resp)
}

// PutFileStream uploads everything read from r under remoteName using a
// chunked request. Anything but 201 is a *StatusError.
func (c *Container) PutFileStream(ctx context.Context, r io.Reader, remoteName string, headers common.Headers) (*transport.Result, error) {
	if remoteName == "" {
		return nil, common.ErrNameRequired
	}

	if c.detectContentType && !headers.Has("Content-Type") {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(r, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, err
		}
		head = head[:n]
		headers = headers.Merge(common.NewHeaders("Content-Type", mimetype.Detect(head).String()))
		r = io.MultiReader(bytes.NewReader(head), r)
	}

	resp, err := c.client.Init(c.objectURL(remoteName)).
		SetHeaders(c.withToken(headers)).
		PutReader(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.uploaded(ctx, OpPutFileStream, remoteName, resp)
}

func (c *Container) uploaded(ctx context.Context, op, name string, resp *transport.Response) (*transport.Result, error) {
	if err := checkStatus(op, resp.StatusCode()); err != nil {
		c.logger.Warn(ctx, "upload rejected",
			adapters.Field{Key: "op", Value: op},
			adapters.Field{Key: "object", Value: name},
			adapters.Field{Key: "status", Value: resp.StatusCode()},
		)
		return nil, err
	}

	c.logger.Debug(ctx, "object uploaded",
		adapters.Field{Key: "op", Value: op},
		adapters.Field{Key: "object", Value: name},
		adapters.Field{Key: "etag", Value: resp.Header().Get("ETag")},
	)
	return resp.Result(), nil
}

// SetFileHeaders replaces the X-Object-Meta-* metadata of an object with a
// POST and returns the response status without validating it.
func (c *Container) SetFileHeaders(ctx context.Context, name string, meta common.Metadata) (int, error) {
	if name == "" {
		return 0, common.ErrNameRequired
	}

	resp, err := c.client.Init(c.objectURL(name)).
		SetHeaders(c.withToken(EncodeMetadata(meta, ObjectMetaPrefix))).
		Do(ctx, http.MethodPost)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}

// CreateDirectory puts an empty application/directory placeholder at name
// and returns the exchange info without validating the status.
func (c *Container) CreateDirectory(ctx context.Context, name string) (*transport.Info, error) {
	if name == "" {
		return nil, common.ErrNameRequired
	}

	resp, err := c.client.Init(c.objectURL(name)).
		SetHeaders(c.withToken(common.NewHeaders("Content-Type", DirectoryContentType))).
		Do(ctx, http.MethodPut)
	if err != nil {
		return nil, err
	}
	return resp.Info(), nil
}
