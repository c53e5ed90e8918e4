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
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes. auth guards the storage routes; the
// health check is always public.
func SetupRoutes(router *gin.Engine, handler *Handler, auth gin.HandlerFunc) {
	router.GET("/healthcheck", handler.HealthCheck)

	storage := router.Group("/", auth)
	{
		// Container operations
		storage.HEAD("/:container", handler.HeadContainer)
		storage.GET("/:container", handler.ListContainer)
		storage.PUT("/:container", handler.PutContainer)
		storage.POST("/:container", handler.PostContainer)
		storage.DELETE("/:container", handler.DeleteContainer)

		// Object operations (wildcard to support names with slashes). An
		// empty object path, as in "/photos/", addresses the container.
		storage.HEAD("/:container/*object", handler.HeadObject)
		storage.GET("/:container/*object", handler.GetObject)
		storage.PUT("/:container/*object", handler.PutObject)
		storage.POST("/:container/*object", handler.PostObject)
		storage.DELETE("/:container/*object", handler.DeleteObject)
	}
}
