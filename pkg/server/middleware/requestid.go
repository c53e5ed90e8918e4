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

// Package middleware holds gin middleware shared by the storage servers.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// TransIDHeader carries the transaction id of a storage request
	TransIDHeader = "X-Trans-Id"

	// TransIDContextKey is the context key for storing transaction ids
	TransIDContextKey contextKey = "trans_id"

	// transIDPrefix starts every generated transaction id
	transIDPrefix = "tx"
)

// NewTransID returns a fresh transaction id.
func NewTransID() string {
	return transIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// RequestIDMiddleware creates a Gin middleware that assigns every request a
// transaction id, reusing one supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		transID := c.GetHeader(TransIDHeader)
		if transID == "" {
			transID = NewTransID()
		}

		// Store in context for use by handlers and other middleware
		c.Set(string(TransIDContextKey), transID)
		c.Header(TransIDHeader, transID)

		ctx := context.WithValue(c.Request.Context(), TransIDContextKey, transID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestIDFromGinContext retrieves the transaction id from a Gin context
func GetRequestIDFromGinContext(c *gin.Context) string {
	if transID, exists := c.Get(string(TransIDContextKey)); exists {
		if id, ok := transID.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestIDFromContext retrieves the transaction id from a standard context
func GetRequestIDFromContext(ctx context.Context) string {
	if transID := ctx.Value(TransIDContextKey); transID != nil {
		if id, ok := transID.(string); ok {
			return id
		}
	}
	return ""
}
