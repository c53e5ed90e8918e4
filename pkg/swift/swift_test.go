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
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the fake storage saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
	Length int64
}

type fakeStorage struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeStorage) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeStorage) all() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// newFakeStorage starts a server that records every request and delegates
// the response to handler.
func newFakeStorage(t *testing.T, handler http.HandlerFunc) (*fakeStorage, *httptest.Server) {
	t.Helper()
	fake := &fakeStorage{handler: handler}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fake.mu.Lock()
		fake.requests = append(fake.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
			Length: r.ContentLength,
		})
		fake.mu.Unlock()
		fake.handler(w, r)
	}))
	t.Cleanup(server.Close)
	return fake, server
}

func newTransport(t *testing.T, server *httptest.Server) *transport.Client {
	t.Helper()
	client, err := transport.New(&transport.Config{HTTPClient: server.Client()})
	require.NoError(t, err)
	return client
}

// newTestContainer builds a container with a preset snapshot so that no
// HEAD request is issued.
func newTestContainer(t *testing.T, server *httptest.Server, opts ...Option) *Container {
	t.Helper()
	opts = append([]Option{WithInfo(common.Metadata{"Preset": "yes"})}, opts...)
	c, err := NewContainer(context.Background(), newTransport(t, server), server.URL+"/photos", AuthToken("secret"), opts...)
	require.NoError(t, err)
	return c
}
