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
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/memory"
	"github.com/jeremyhahn/go-swiftstore/pkg/server"
	"github.com/jeremyhahn/go-swiftstore/pkg/validation"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version,omitempty"`
	Containers int    `json:"containers"`
}

// RespondWithError writes an error response. HEAD requests get the status
// only.
func RespondWithError(c *gin.Context, code int, message string) {
	if c.Request.Method == http.MethodHead {
		c.Status(code)
		return
	}
	c.JSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Code:    code,
		Message: message,
	})
}

// HandleError maps a storage error to its HTTP status.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrContainerNotFound), errors.Is(err, common.ErrObjectNotFound):
		RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, validation.ErrInvalidContainerName), errors.Is(err, validation.ErrInvalidObjectName),
		errors.Is(err, server.ErrInvalidMetadata):
		RespondWithError(c, http.StatusBadRequest, validation.SanitizeForLog(err.Error()))
	case errors.Is(err, memory.ErrContainerNotEmpty):
		RespondWithError(c, http.StatusConflict, err.Error())
	default:
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			RespondWithError(c, http.StatusRequestEntityTooLarge, "Request entity too large")
			return
		}
		RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
