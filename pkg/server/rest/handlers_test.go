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

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer(t)

	w := serve(server, http.MethodGet, "/healthcheck", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 1, resp.Containers)
}

func TestContainerLifecycle(t *testing.T) {
	server, _ := newTestServer(t)

	w := serve(server, http.MethodPut, "/docs", "", "X-Container-Meta-Owner", "ops")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(server, http.MethodPut, "/docs", "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = serve(server, http.MethodPost, "/docs", "", "X-Container-Meta-Color", "red")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(server, http.MethodHead, "/docs", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "ops", w.Header().Get("X-Container-Meta-Owner"))
	assert.Equal(t, "red", w.Header().Get("X-Container-Meta-Color"))
	assert.Equal(t, "0", w.Header().Get("X-Container-Object-Count"))
	assert.NotEmpty(t, w.Header().Get("X-Trans-Id"))

	// Trailing slash addresses the container too
	w = serve(server, http.MethodHead, "/docs/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	mustPut(t, server, "/docs/a.txt", "abc")
	w = serve(server, http.MethodDelete, "/docs", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(server, http.MethodDelete, "/docs/a.txt", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = serve(server, http.MethodDelete, "/docs", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(server, http.MethodHead, "/docs", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListContainer(t *testing.T) {
	server, _ := newTestServer(t)

	w := serve(server, http.MethodGet, "/photos", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(server, http.MethodGet, "/photos?format=json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	mustPut(t, server, "/photos/b.jpg", "bb")
	mustPut(t, server, "/photos/a.jpg", "a")
	mustPut(t, server, "/photos/2024/c.jpg", "ccc")

	w = serve(server, http.MethodGet, "/photos/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024/c.jpg\na.jpg\nb.jpg\n", w.Body.String())
	assert.Equal(t, "3", w.Header().Get("X-Container-Object-Count"))
	assert.Equal(t, "6", w.Header().Get("X-Container-Bytes-Used"))

	w = serve(server, http.MethodGet, "/photos?limit=1&marker=2024/c.jpg", "")
	assert.Equal(t, "a.jpg\n", w.Body.String())

	w = serve(server, http.MethodGet, "/photos?delimiter=/", "")
	assert.Equal(t, "2024/\na.jpg\nb.jpg\n", w.Body.String())

	w = serve(server, http.MethodGet, "/photos?prefix=a&format=json", "")
	var entries []common.ObjectDescriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "a.jpg", entries[0].Name)
	assert.Equal(t, int64(1), entries[0].Bytes)
	assert.Equal(t, "0cc175b9c0f1b6a831c399e269772661", entries[0].Hash)

	w = serve(server, http.MethodGet, "/photos", "", "Accept", "application/xml")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml"))
	decoded, err := common.DecodeDescriptors(common.FormatXML, w.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, decoded, 3)
}

func TestListContainer_Errors(t *testing.T) {
	server, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(server, http.MethodGet, "/photos?limit=abc", "").Code)
	assert.Equal(t, http.StatusPreconditionFailed, serve(server, http.MethodGet, "/photos?limit=10001", "").Code)
	assert.Equal(t, http.StatusPreconditionFailed, serve(server, http.MethodGet, "/photos?delimiter=ab", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		serve(server, http.MethodGet, "/photos?prefix="+strings.Repeat("p", 1025), "").Code)
}

func TestMetadataLimits(t *testing.T) {
	server, account := newTestServer(t)
	long := strings.Repeat("v", 257)

	w := serve(server, http.MethodPut, "/photos/cat.jpg", "x", "X-Object-Meta-Note", long)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, account.Count())

	mustPut(t, server, "/photos/cat.jpg", "x")
	w = serve(server, http.MethodPost, "/photos/cat.jpg", "", "X-Object-Meta-Note", long)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(server, http.MethodPost, "/photos", "", "X-Container-Meta-Note", long)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutAndGetObject(t *testing.T) {
	server, account := newTestServer(t)

	w := serve(server, http.MethodPut, "/photos/albums/cat.txt", "meow",
		"Content-Type", "text/plain",
		"X-Object-Meta-Kind", "pet",
	)
	require.Equal(t, http.StatusCreated, w.Code)
	etag := w.Header().Get("ETag")
	assert.Equal(t, "4a4be40c96ac6314e91d93f38043a634", etag)

	w = serve(server, http.MethodGet, "/photos/albums/cat.txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "meow", w.Body.String())
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, etag, w.Header().Get("ETag"))
	assert.Equal(t, "pet", w.Header().Get("X-Object-Meta-Kind"))
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))

	w = serve(server, http.MethodHead, "/photos/albums/cat.txt", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Header().Get("Content-Length"))

	info, err := account.Head(context.Background(), "photos", "albums/cat.txt")
	require.NoError(t, err)
	assert.Equal(t, common.Metadata{"Kind": "pet"}, info.Metadata)
}

func TestPutObject_DetectsContentType(t *testing.T) {
	server, account := newTestServer(t)

	mustPut(t, server, "/photos/page", "<!DOCTYPE html><html><body>x</body></html>")
	info, err := account.Head(context.Background(), "photos", "page")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.ContentType, "text/html"))

	noDetect, account2 := newTestServer(t, func(c *ServerConfig) { c.DetectContentType = false })
	mustPut(t, noDetect, "/photos/page", "<html></html>")
	info, err = account2.Head(context.Background(), "photos", "page")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", info.ContentType)
}

func TestPutObject_Errors(t *testing.T) {
	server, _ := newTestServer(t)

	w := serve(server, http.MethodPut, "/missing/x", "data")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(server, http.MethodPut, "/photos/x", "data", "ETag", "0000")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(server, http.MethodPut, "/photos/x", "data", "ETag", `"8d777f385d3dfec8815d20f7496026dc"`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(server, http.MethodPut, "/photos/x", "again", "If-None-Match", "*")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = serve(server, http.MethodPut, "/photos/a/../b", "x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutObject_Directory(t *testing.T) {
	server, account := newTestServer(t)

	w := serve(server, http.MethodPut, "/photos/albums", "", "Content-Type", "application/directory")
	require.Equal(t, http.StatusCreated, w.Code)

	info, err := account.Head(context.Background(), "photos", "albums")
	require.NoError(t, err)
	assert.Equal(t, "application/directory", info.ContentType)
	assert.Equal(t, int64(0), info.Bytes)
}

func TestPostObject(t *testing.T) {
	server, account := newTestServer(t)
	mustPut(t, server, "/photos/cat.jpg", "x", "X-Object-Meta-Old", "1")

	w := serve(server, http.MethodPost, "/photos/cat.jpg", "", "X-Object-Meta-New", "2")
	assert.Equal(t, http.StatusAccepted, w.Code)

	info, err := account.Head(context.Background(), "photos", "cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, common.Metadata{"New": "2"}, info.Metadata)

	w = serve(server, http.MethodPost, "/photos/missing", "", "X-Object-Meta-New", "2")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetObject_Missing(t *testing.T) {
	server, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/photos/none", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodHead, "/photos/none", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodDelete, "/photos/none", "").Code)
}

func TestGetObject_Conditional(t *testing.T) {
	server, _ := newTestServer(t)
	mustPut(t, server, "/photos/cat.txt", "meow")
	etag := "4a4be40c96ac6314e91d93f38043a634"

	w := serve(server, http.MethodGet, "/photos/cat.txt", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(server, http.MethodGet, "/photos/cat.txt", "", "If-Match", "other")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w = serve(server, http.MethodGet, "/photos/cat.txt", "", "If-Match", `"`+etag+`"`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(server, http.MethodGet, "/photos/cat.txt", "", "If-Modified-Since", "Fri, 01 Jan 2100 00:00:00 GMT")
	assert.Equal(t, http.StatusNotModified, w.Code)

	w = serve(server, http.MethodGet, "/photos/cat.txt", "", "If-Unmodified-Since", "Mon, 01 Jan 2001 00:00:00 GMT")
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}
