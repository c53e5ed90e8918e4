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
	"bytes"
	"crypto/md5" //nolint:gosec // request ETag verification uses MD5
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/memory"
	"github.com/jeremyhahn/go-swiftstore/pkg/server"
	"github.com/jeremyhahn/go-swiftstore/pkg/server/middleware"
	"github.com/jeremyhahn/go-swiftstore/pkg/swift"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
	"github.com/jeremyhahn/go-swiftstore/pkg/validation"
	"github.com/jeremyhahn/go-swiftstore/pkg/version"
)

// Content types of listing responses.
const (
	contentTypePlain = "text/plain; charset=utf-8"
	contentTypeJSON  = "application/json; charset=utf-8"
	contentTypeXML   = "application/xml; charset=utf-8"
)

// Handler serves the storage routes from an in-memory account
type Handler struct {
	account           *memory.Account
	logger            adapters.Logger
	detectContentType bool
}

// NewHandler creates a new Handler instance
func NewHandler(account *memory.Account, logger adapters.Logger, detectContentType bool) *Handler {
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}
	return &Handler{
		account:           account,
		logger:            logger,
		detectContentType: detectContentType,
	}
}

// HealthCheck reports liveness
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:     "healthy",
		Version:    version.Get(),
		Containers: len(h.account.Containers()),
	})
}

// objectName returns the object part of the path, without the leading slash.
func objectName(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("object"), "/")
}

// requestMetadata decodes and limit-checks the prefixed metadata headers of
// the request.
func requestMetadata(c *gin.Context, prefix string) (common.Metadata, error) {
	meta := swift.DecodeMetadata(transport.HeadersFromHTTP(c.Request.Header), prefix)
	if err := server.CheckMetadata(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func setHeaders(c *gin.Context, headers common.Headers) {
	for _, hdr := range headers {
		c.Header(hdr.Name, hdr.Value)
	}
}

func writeContainerHeaders(c *gin.Context, info *memory.ContainerInfo) {
	c.Header("X-Container-Object-Count", strconv.Itoa(info.ObjectCount))
	c.Header("X-Container-Bytes-Used", strconv.FormatInt(info.BytesUsed, 10))
	setHeaders(c, swift.EncodeMetadata(info.Metadata, swift.ContainerMetaPrefix))
}

func writeObjectHeaders(c *gin.Context, info *memory.ObjectInfo) {
	c.Header("ETag", info.ETag)
	c.Header("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	c.Header("X-Timestamp", strconv.FormatFloat(float64(info.LastModified.UnixMicro())/1e6, 'f', 5, 64))
	setHeaders(c, swift.EncodeMetadata(info.Metadata, swift.ObjectMetaPrefix))
}

// listingFormat selects the listing format from the format parameter or,
// failing that, the Accept header.
func listingFormat(c *gin.Context) common.Format {
	switch strings.ToLower(c.Query("format")) {
	case "json":
		return common.FormatJSON
	case "xml":
		return common.FormatXML
	case "plain", "text":
		return common.FormatPlain
	}

	accept := c.GetHeader("Accept")
	switch {
	case strings.Contains(accept, "application/json"):
		return common.FormatJSON
	case strings.Contains(accept, "application/xml"), strings.Contains(accept, "text/xml"):
		return common.FormatXML
	default:
		return common.FormatPlain
	}
}

func listingContentType(format common.Format) string {
	switch format {
	case common.FormatJSON:
		return contentTypeJSON
	case common.FormatXML:
		return contentTypeXML
	default:
		return contentTypePlain
	}
}

// HeadContainer returns the container statistics and metadata
func (h *Handler) HeadContainer(c *gin.Context) {
	info, err := h.account.ContainerInfo(c.Request.Context(), c.Param("container"))
	if err != nil {
		HandleError(c, err)
		return
	}
	writeContainerHeaders(c, info)
	c.Status(http.StatusNoContent)
}

// ListContainer lists the container objects
func (h *Handler) ListContainer(c *gin.Context) {
	name := c.Param("container")
	ctx := c.Request.Context()

	info, err := h.account.ContainerInfo(ctx, name)
	if err != nil {
		HandleError(c, err)
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			RespondWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit > server.MaxListLimit {
			RespondWithError(c, http.StatusPreconditionFailed,
				"limit must be at most "+strconv.Itoa(server.MaxListLimit))
			return
		}
	}

	if len(c.Query("delimiter")) > server.MaxDelimiterLength {
		RespondWithError(c, http.StatusPreconditionFailed, "delimiter must be a single character")
		return
	}
	if len(c.Query("prefix")) > server.MaxPrefixLength {
		RespondWithError(c, http.StatusBadRequest,
			"prefix must be at most "+strconv.Itoa(server.MaxPrefixLength)+" bytes")
		return
	}

	entries, err := h.account.List(ctx, name, memory.ListOptions{
		Prefix:    c.Query("prefix"),
		Marker:    c.Query("marker"),
		Delimiter: c.Query("delimiter"),
		Path:      c.Query("path"),
		Limit:     limit,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	writeContainerHeaders(c, info)

	format := listingFormat(c)
	if format == common.FormatPlain && len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	body, err := common.EncodeDescriptors(format, name, entries)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, listingContentType(format), body)
}

// PutContainer creates a container, or merges metadata into an existing one
func (h *Handler) PutContainer(c *gin.Context) {
	name := c.Param("container")
	meta, err := requestMetadata(c, swift.ContainerMetaPrefix)
	if err != nil {
		HandleError(c, err)
		return
	}

	created, err := h.account.CreateContainer(c.Request.Context(), name, meta)
	if err != nil {
		HandleError(c, err)
		return
	}

	if created {
		h.logger.Info(c.Request.Context(), "container created",
			adapters.Field{Key: "container", Value: name},
			adapters.Field{Key: "trans_id", Value: middleware.GetRequestIDFromGinContext(c)},
		)
		c.Status(http.StatusCreated)
		return
	}
	c.Status(http.StatusAccepted)
}

// PostContainer merges container metadata; empty values remove keys
func (h *Handler) PostContainer(c *gin.Context) {
	meta, err := requestMetadata(c, swift.ContainerMetaPrefix)
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := h.account.UpdateContainerMetadata(c.Request.Context(), c.Param("container"), meta); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteContainer removes an empty container
func (h *Handler) DeleteContainer(c *gin.Context) {
	if err := h.account.DeleteContainer(c.Request.Context(), c.Param("container")); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HeadObject returns the object headers
func (h *Handler) HeadObject(c *gin.Context) {
	name := objectName(c)
	if name == "" {
		h.HeadContainer(c)
		return
	}

	info, err := h.account.Head(c.Request.Context(), c.Param("container"), name)
	if err != nil {
		HandleError(c, err)
		return
	}

	writeObjectHeaders(c, info)
	if code := checkPreconditions(c.Request, info.ETag, info.LastModified); code != 0 {
		c.Status(code)
		return
	}

	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Length", strconv.FormatInt(info.Bytes, 10))
	c.Status(http.StatusOK)
}

// GetObject downloads an object, honoring the conditional request headers
func (h *Handler) GetObject(c *gin.Context) {
	name := objectName(c)
	if name == "" {
		h.ListContainer(c)
		return
	}

	data, info, err := h.account.Get(c.Request.Context(), c.Param("container"), name)
	if err != nil {
		HandleError(c, err)
		return
	}

	writeObjectHeaders(c, info)
	if code := checkPreconditions(c.Request, info.ETag, info.LastModified); code != 0 {
		c.Status(code)
		return
	}

	c.Data(http.StatusOK, info.ContentType, data)
}

// PutObject uploads an object
func (h *Handler) PutObject(c *gin.Context) {
	name := objectName(c)
	if name == "" {
		h.PutContainer(c)
		return
	}
	container := c.Param("container")
	ctx := c.Request.Context()

	if err := validation.ValidateObjectName(name); err != nil {
		HandleError(c, err)
		return
	}

	meta, err := requestMetadata(c, swift.ObjectMetaPrefix)
	if err != nil {
		HandleError(c, err)
		return
	}

	// If-None-Match: * refuses to overwrite an existing object
	if c.GetHeader("If-None-Match") == "*" {
		if _, err := h.account.Head(ctx, container, name); err == nil {
			c.Status(http.StatusPreconditionFailed)
			return
		}
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		HandleError(c, err)
		return
	}

	if expected := strings.Trim(c.GetHeader("ETag"), `"`); expected != "" {
		sum := md5.Sum(body) //nolint:gosec // ETag
		if !strings.EqualFold(expected, hex.EncodeToString(sum[:])) {
			RespondWithError(c, http.StatusUnprocessableEntity, "ETag does not match the request body")
			return
		}
	}

	contentType := c.GetHeader("Content-Type")
	if contentType == "" && h.detectContentType {
		contentType = mimetype.Detect(body).String()
	}

	info, err := h.account.Put(ctx, container, name, bytes.NewReader(body), contentType, meta)
	if err != nil {
		HandleError(c, err)
		return
	}

	h.logger.Debug(ctx, "object stored",
		adapters.Field{Key: "container", Value: container},
		adapters.Field{Key: "object", Value: validation.SanitizeForLog(name)},
		adapters.Field{Key: "bytes", Value: info.Bytes},
		adapters.Field{Key: "content_type", Value: info.ContentType},
	)

	c.Header("ETag", info.ETag)
	c.Header("Last-Modified", info.LastModified.UTC().Format(http.TimeFormat))
	c.Status(http.StatusCreated)
}

// PostObject replaces the object metadata
func (h *Handler) PostObject(c *gin.Context) {
	name := objectName(c)
	if name == "" {
		h.PostContainer(c)
		return
	}

	meta, err := requestMetadata(c, swift.ObjectMetaPrefix)
	if err != nil {
		HandleError(c, err)
		return
	}

	if err := h.account.SetMetadata(c.Request.Context(), c.Param("container"), name, meta); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// DeleteObject removes an object
func (h *Handler) DeleteObject(c *gin.Context) {
	name := objectName(c)
	if name == "" {
		h.DeleteContainer(c)
		return
	}

	if err := h.account.Delete(c.Request.Context(), c.Param("container"), name); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
