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

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// Request accumulates headers and query parameters for one exchange.
type Request struct {
	client  *Client
	url     string
	headers common.Headers
	params  url.Values
}

// SetHeaders replaces the request headers. Order is kept on the wire.
func (r *Request) SetHeaders(headers common.Headers) *Request {
	r.headers = append(common.Headers(nil), headers...)
	return r
}

// SetParams replaces the query parameters. Parameters already present in
// the URL are kept unless overridden.
func (r *Request) SetParams(params url.Values) *Request {
	r.params = params
	return r
}

// URL returns the URL the request will be sent to, query string included.
func (r *Request) URL() (string, error) {
	u, err := url.Parse(r.url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, r.url)
	}
	if len(r.params) > 0 {
		q := u.Query()
		for k, vs := range r.params {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Do issues the request with no body.
func (r *Request) Do(ctx context.Context, method string) (*Response, error) {
	return r.send(ctx, method, nil, 0)
}

// PutFile streams the local file at path as a PUT body.
func (r *Request) PutFile(ctx context.Context, path string) (*Response, error) {
	f, err := os.Open(path) // #nosec G304 -- the caller chooses which local file to upload
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return r.send(ctx, http.MethodPut, f, info.Size())
}

// PutContents sends an in-memory payload as a PUT body.
func (r *Request) PutContents(ctx context.Context, data []byte) (*Response, error) {
	return r.send(ctx, http.MethodPut, bytes.NewReader(data), int64(len(data)))
}

// PutReader streams body as a PUT body of unknown length (chunked).
func (r *Request) PutReader(ctx context.Context, body io.Reader) (*Response, error) {
	return r.send(ctx, http.MethodPut, body, -1)
}

func (r *Request) send(ctx context.Context, method string, body io.Reader, length int64) (*Response, error) {
	if method == "" {
		return nil, ErrInvalidMethod
	}

	target, err := r.URL()
	if err != nil {
		return nil, err
	}

	if err := r.client.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if body != nil {
		req.ContentLength = length
	}
	if length == 0 && body != nil {
		req.Body = http.NoBody
	}

	r.headers.Apply(req.Header)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", r.client.userAgent)
	}

	requestID := uuid.New().String()
	start := time.Now()

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		r.client.logger.Debug(ctx, "storage request failed",
			adapters.Field{Key: "request_id", Value: requestID},
			adapters.Field{Key: "method", Value: method},
			adapters.Field{Key: "url", Value: target},
			adapters.Field{Key: "error", Value: err.Error()},
		)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s response: %w", ErrRequestFailed, method, target, err)
	}
	elapsed := time.Since(start)

	r.client.logger.Debug(ctx, "storage request completed",
		adapters.Field{Key: "request_id", Value: requestID},
		adapters.Field{Key: "method", Value: method},
		adapters.Field{Key: "url", Value: target},
		adapters.Field{Key: "status", Value: resp.StatusCode},
		adapters.Field{Key: "trans_id", Value: resp.Header.Get("X-Trans-Id")},
		adapters.Field{Key: "latency", Value: elapsed.String()},
	)

	return newResponse(method, target, resp, data, elapsed), nil
}
