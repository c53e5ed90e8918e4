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
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := New(&Config{HTTPClient: server.Client()})
	require.NoError(t, err)
	return client
}

func TestNew_Defaults(t *testing.T) {
	client, err := New(nil)
	require.NoError(t, err)
	assert.Nil(t, client.limiter)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.True(t, strings.HasPrefix(client.userAgent, "go-swiftstore/"))
	assert.NoError(t, client.Close())
}

func TestNew_Throttle(t *testing.T) {
	client, err := New(&Config{RequestsPerSecond: 5})
	require.NoError(t, err)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 1, client.limiter.Burst())
}

func TestNew_InvalidTLS(t *testing.T) {
	_, err := New(&Config{TLS: &adapters.TLSConfig{CAPEM: []byte("junk")}})
	assert.ErrorIs(t, err, adapters.ErrInvalidCAPool)
}

func TestRequest_HeadersAndParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/photos/", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-Auth-Token"))
		assert.Equal(t, []string{"a", "b"}, r.Header.Values("X-Repeat"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "keep", r.URL.Query().Get("existing"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "go-swiftstore/"))

		w.Header().Set("X-Container-Meta-Color", "blue")
		w.Header().Set("X-Trans-Id", "tx123")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("a.txt\nb.txt\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	resp, err := client.Init(server.URL+"/photos/?existing=keep").
		SetHeaders(common.NewHeaders("X-Auth-Token", "tok", "X-Repeat", "a", "X-Repeat", "b")).
		SetParams(url.Values{"limit": {"10"}}).
		Do(context.Background(), "GET")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "a.txt\nb.txt\n", resp.Content())
	assert.Equal(t, "blue", resp.Headers().Get("X-Container-Meta-Color"))
	assert.Equal(t, "blue", resp.Header().Get("X-Container-Meta-Color"))

	result := resp.Result()
	assert.Equal(t, http.StatusOK, result.Info.StatusCode)
	assert.Equal(t, "GET", result.Info.Method)
	assert.Equal(t, []byte("a.txt\nb.txt\n"), result.Body)
}

func TestRequest_PutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(path, []byte("file-body"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, int64(9), r.ContentLength)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "file-body", string(body))
		w.Header().Set("ETag", "etag1")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	resp, err := newTestClient(t, server).Init(server.URL + "/c/x.txt").PutFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, "etag1", resp.Info().Headers.Get("Etag"))
}

func TestRequest_PutFile_Missing(t *testing.T) {
	client, err := New(nil)
	require.NoError(t, err)
	_, err = client.Init("http://127.0.0.1:1/c/x").PutFile(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRequest_PutContentsAndReader(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	_, err := client.Init(server.URL + "/c/a").PutContents(ctx, []byte("hello"))
	require.NoError(t, err)
	_, err = client.Init(server.URL + "/c/b").PutReader(ctx, bytes.NewBufferString("streamed"))
	require.NoError(t, err)
	_, err = client.Init(server.URL + "/c/empty").PutContents(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "streamed", ""}, bodies)
}

func TestRequest_InvalidURL(t *testing.T) {
	client, err := New(nil)
	require.NoError(t, err)

	_, err = client.Init("not a url").Do(context.Background(), "GET")
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = client.Init("http://example.com").Do(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestRequest_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	client, err := New(&Config{Timeout: time.Second})
	require.NoError(t, err)
	_, err = client.Init(target).Do(context.Background(), "HEAD")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestRequest_ThrottleHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := New(&Config{HTTPClient: server.Client(), RequestsPerSecond: 0.001})
	require.NoError(t, err)

	// First request consumes the only token.
	_, err = client.Init(server.URL).Do(context.Background(), "HEAD")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Init(server.URL).Do(ctx, "HEAD")
	assert.Error(t, err)
}

func TestHeadersFromHTTP(t *testing.T) {
	h := http.Header{}
	h.Add("X-B", "2")
	h.Add("X-A", "1")
	h.Add("X-B", "3")

	got := HeadersFromHTTP(h)
	assert.Equal(t, common.Headers{
		{Name: "X-A", Value: "1"},
		{Name: "X-B", Value: "2"},
		{Name: "X-B", Value: "3"},
	}, got)
}
