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
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/server/middleware"
)

// AuditMiddleware creates a Gin middleware that records one audit event per
// container or object request. It must run after the request ID middleware
// and ahead of authentication.
func AuditMiddleware(auditLogger AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		container := c.Param("container")
		if container == "" {
			return
		}
		object := strings.TrimPrefix(c.Param("object"), "/")

		statusCode := c.Writer.Status()
		transID := middleware.GetRequestIDFromGinContext(c)

		if statusCode == http.StatusUnauthorized {
			_ = auditLogger.LogAuthFailure(c.Request.Context(), c.ClientIP(), transID, "invalid or missing token") // #nosec G104 -- audit failures must not fail the request
			return
		}

		result := ResultSuccess
		errorMessage := ""
		if statusCode >= http.StatusBadRequest {
			result = ResultFailure
			if len(c.Errors) > 0 {
				errorMessage = c.Errors.Last().Error()
			} else {
				errorMessage = http.StatusText(statusCode)
			}
		}

		event := &AuditEvent{
			Timestamp:        startTime,
			EventType:        determineEventType(c.Request.Method, object),
			Container:        container,
			Object:           object,
			Action:           c.Request.Method + " " + c.Request.URL.Path,
			Result:           result,
			ErrorMessage:     errorMessage,
			IPAddress:        c.ClientIP(),
			TransID:          transID,
			Method:           c.Request.Method,
			StatusCode:       statusCode,
			BytesTransferred: bytesTransferred(c),
			Duration:         time.Since(startTime),
		}

		if v, ok := c.Get(adapters.PrincipalContextKey); ok {
			if p, ok := v.(*adapters.Principal); ok && p != nil {
				event.UserID = p.ID
				event.Principal = p.Name
				event.Account = p.Account
			}
		}

		_ = auditLogger.LogEvent(c.Request.Context(), event) // #nosec G104 -- audit failures must not fail the request
	}
}

func determineEventType(method, object string) EventType {
	if object == "" {
		switch method {
		case http.MethodPut:
			return EventContainerCreated
		case http.MethodPost:
			return EventContainerMetadataUpdated
		case http.MethodDelete:
			return EventContainerDeleted
		case http.MethodHead:
			return EventContainerAccessed
		default:
			return EventContainerListed
		}
	}

	switch method {
	case http.MethodPut:
		return EventObjectCreated
	case http.MethodPost:
		return EventObjectMetadataUpdated
	case http.MethodDelete:
		return EventObjectDeleted
	default:
		return EventObjectAccessed
	}
}

func bytesTransferred(c *gin.Context) int64 {
	if c.Request.Method == http.MethodPut && c.Request.ContentLength > 0 {
		return c.Request.ContentLength
	}
	if size := c.Writer.Size(); size > 0 {
		return int64(size)
	}
	return 0
}
