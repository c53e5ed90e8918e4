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
	"net/http"
	"sort"
	"time"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// Info describes a completed exchange.
type Info struct {
	StatusCode    int            `json:"http_code"`
	Method        string         `json:"method"`
	URL           string         `json:"url"`
	ContentType   string         `json:"content_type,omitempty"`
	ContentLength int64          `json:"content_length"`
	Duration      time.Duration  `json:"total_time"`
	Headers       common.Headers `json:"headers,omitempty"`
}

// Result is a transfer result: the exchange info and the raw body.
type Result struct {
	Info *Info  `json:"info"`
	Body []byte `json:"body,omitempty"`
}

// Response is the raw outcome of one request.
type Response struct {
	info   *Info
	header http.Header
	body   []byte
}

func newResponse(method, target string, resp *http.Response, body []byte, elapsed time.Duration) *Response {
	headers := HeadersFromHTTP(resp.Header)
	return &Response{
		info: &Info{
			StatusCode:    resp.StatusCode,
			Method:        method,
			URL:           target,
			ContentType:   resp.Header.Get("Content-Type"),
			ContentLength: resp.ContentLength,
			Duration:      elapsed,
			Headers:       headers,
		},
		header: resp.Header.Clone(),
		body:   body,
	}
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.info.StatusCode
}

// Headers returns the response headers as an ordered list sorted by
// canonical name.
func (r *Response) Headers() common.Headers {
	return r.info.Headers
}

// Header returns the response headers in net/http form.
func (r *Response) Header() http.Header {
	return r.header
}

// Content returns the body as a string.
func (r *Response) Content() string {
	return string(r.body)
}

// Body returns the raw body.
func (r *Response) Body() []byte {
	return r.body
}

// Info returns the exchange info without the body.
func (r *Response) Info() *Info {
	return r.info
}

// Result returns the exchange info together with the body.
func (r *Response) Result() *Result {
	return &Result{
		Info: r.info,
		Body: r.body,
	}
}

// HeadersFromHTTP flattens an http.Header into an ordered list, sorted by
// canonical name with repeated values kept in order.
func HeadersFromHTTP(h http.Header) common.Headers {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(common.Headers, 0, len(names))
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, common.Header{Name: name, Value: v})
		}
	}
	return out
}
