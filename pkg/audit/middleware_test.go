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

package audit

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/server/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditRouter(buf *bytes.Buffer, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(AuditMiddleware(NewAuditLogger(&Config{Enabled: true, Format: FormatJSON, Output: buf})))

	handle := func(c *gin.Context) {
		c.Set(adapters.PrincipalContextKey, &adapters.Principal{ID: "u1", Name: "tester", Account: "AUTH_test"})
		c.String(status, "hello")
	}
	router.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.Any("/:container", handle)
	router.Any("/:container/*object", handle)
	return router
}

func TestAuditMiddleware_ObjectRequest(t *testing.T) {
	var buf bytes.Buffer
	router := newAuditRouter(&buf, http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/photos/2024/cat.jpg", nil))
	require.Equal(t, http.StatusOK, w.Code)

	record := decodeLine(t, &buf)
	assert.Equal(t, "OBJECT_ACCESSED", record["event_type"])
	assert.Equal(t, "photos", record["container"])
	assert.Equal(t, "2024/cat.jpg", record["object"])
	assert.Equal(t, "u1", record["user_id"])
	assert.Equal(t, "tester", record["principal"])
	assert.Equal(t, "AUTH_test", record["account"])
	assert.Equal(t, "SUCCESS", record["result"])
	assert.Equal(t, float64(5), record["bytes_transferred"])
	assert.Equal(t, w.Header().Get(middleware.TransIDHeader), record["trans_id"])
}

func TestAuditMiddleware_Failure(t *testing.T) {
	var buf bytes.Buffer
	router := newAuditRouter(&buf, http.StatusNotFound)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/photos/missing", nil))

	record := decodeLine(t, &buf)
	assert.Equal(t, "OBJECT_DELETED", record["event_type"])
	assert.Equal(t, "FAILURE", record["result"])
	assert.Equal(t, "Not Found", record["error"])
	assert.Equal(t, float64(404), record["status_code"])
}

func TestAuditMiddleware_Unauthorized(t *testing.T) {
	var buf bytes.Buffer
	router := newAuditRouter(&buf, http.StatusUnauthorized)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/photos", nil))

	record := decodeLine(t, &buf)
	assert.Equal(t, "AUTH_FAILURE", record["event_type"])
	assert.NotContains(t, record, "container")
}

func TestAuditMiddleware_UploadSize(t *testing.T) {
	var buf bytes.Buffer
	router := newAuditRouter(&buf, http.StatusCreated)

	req := httptest.NewRequest(http.MethodPut, "/photos/a.txt", strings.NewReader("0123456789"))
	router.ServeHTTP(httptest.NewRecorder(), req)

	record := decodeLine(t, &buf)
	assert.Equal(t, "OBJECT_CREATED", record["event_type"])
	assert.Equal(t, float64(10), record["bytes_transferred"])
}

func TestAuditMiddleware_SkipsHealthcheck(t *testing.T) {
	var buf bytes.Buffer
	router := newAuditRouter(&buf, http.StatusOK)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Empty(t, buf.String())
}

func TestDetermineEventType(t *testing.T) {
	tests := []struct {
		method string
		object string
		want   EventType
	}{
		{http.MethodPut, "", EventContainerCreated},
		{http.MethodPost, "", EventContainerMetadataUpdated},
		{http.MethodDelete, "", EventContainerDeleted},
		{http.MethodHead, "", EventContainerAccessed},
		{http.MethodGet, "", EventContainerListed},
		{http.MethodPut, "a", EventObjectCreated},
		{http.MethodPost, "a", EventObjectMetadataUpdated},
		{http.MethodDelete, "a", EventObjectDeleted},
		{http.MethodHead, "a", EventObjectAccessed},
		{http.MethodGet, "a", EventObjectAccessed},
	}
	for _, tt := range tests {
		t.Run(tt.method+"_"+tt.object, func(t *testing.T) {
			assert.Equal(t, tt.want, determineEventType(tt.method, tt.object))
		})
	}
}
