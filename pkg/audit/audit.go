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

// Package audit records an audit trail of container and object operations.
package audit

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// EventType represents the type of audit event
type EventType string

const (
	// EventAuthFailure indicates a request rejected for a missing or unknown token
	EventAuthFailure EventType = "AUTH_FAILURE"

	// EventContainerCreated indicates a container was created or its metadata merged by PUT
	EventContainerCreated EventType = "CONTAINER_CREATED"

	// EventContainerDeleted indicates a container was deleted
	EventContainerDeleted EventType = "CONTAINER_DELETED"

	// EventContainerMetadataUpdated indicates container metadata was posted
	EventContainerMetadataUpdated EventType = "CONTAINER_METADATA_UPDATED"

	// EventContainerAccessed indicates container metadata was read with HEAD
	EventContainerAccessed EventType = "CONTAINER_ACCESSED"

	// EventContainerListed indicates a container listing was served
	EventContainerListed EventType = "CONTAINER_LISTED"

	// EventObjectCreated indicates an object was uploaded
	EventObjectCreated EventType = "OBJECT_CREATED"

	// EventObjectDeleted indicates an object was deleted
	EventObjectDeleted EventType = "OBJECT_DELETED"

	// EventObjectAccessed indicates an object was read
	EventObjectAccessed EventType = "OBJECT_ACCESSED"

	// EventObjectMetadataUpdated indicates object metadata was replaced
	EventObjectMetadataUpdated EventType = "OBJECT_METADATA_UPDATED"
)

// Result represents the outcome of an audited operation
type Result string

const (
	// ResultSuccess indicates the operation succeeded
	ResultSuccess Result = "SUCCESS"

	// ResultFailure indicates the operation failed
	ResultFailure Result = "FAILURE"
)

// AuditEvent represents a single audit log entry
type AuditEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"event_type"`

	// UserID and Principal identify the token holder; Account is its storage account
	UserID    string `json:"user_id,omitempty"`
	Principal string `json:"principal,omitempty"`
	Account   string `json:"account,omitempty"`

	Container string `json:"container,omitempty"`
	Object    string `json:"object,omitempty"`

	Action       string `json:"action"`
	Result       Result `json:"result"`
	ErrorMessage string `json:"error_message,omitempty"`

	IPAddress string `json:"ip_address,omitempty"`

	// TransID is the X-Trans-Id of the request
	TransID string `json:"trans_id,omitempty"`

	Method           string        `json:"method,omitempty"`
	StatusCode       int           `json:"status_code,omitempty"`
	BytesTransferred int64         `json:"bytes_transferred,omitempty"`
	Duration         time.Duration `json:"duration,omitempty"`
}

// AuditLogger defines the interface for audit logging
type AuditLogger interface {
	// LogEvent logs an audit event
	LogEvent(ctx context.Context, event *AuditEvent) error

	// LogAuthFailure logs a rejected token
	LogAuthFailure(ctx context.Context, ipAddress, transID, reason string) error
}

// OutputFormat specifies the format for audit log output
type OutputFormat string

const (
	// FormatJSON outputs audit logs in JSON format
	FormatJSON OutputFormat = "json"

	// FormatText outputs audit logs in human-readable text format
	FormatText OutputFormat = "text"
)

// Config holds configuration for the audit logger
type Config struct {
	// Enabled determines if audit logging is active
	Enabled bool

	// Format specifies the output format (JSON or text)
	Format OutputFormat

	// Output specifies where to write logs (defaults to stdout)
	Output io.Writer
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Format:  FormatJSON,
		Output:  os.Stdout,
	}
}

// DefaultAuditLogger implements AuditLogger using slog
type DefaultAuditLogger struct {
	config *Config
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger with the specified configuration
func NewAuditLogger(config *Config) AuditLogger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	switch config.Format {
	case FormatText:
		handler = slog.NewTextHandler(config.Output, opts)
	default:
		handler = slog.NewJSONHandler(config.Output, opts)
	}

	return &DefaultAuditLogger{
		config: config,
		logger: slog.New(handler),
	}
}

// LogEvent logs an audit event
func (a *DefaultAuditLogger) LogEvent(ctx context.Context, event *AuditEvent) error {
	if !a.config.Enabled || event == nil {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []slog.Attr{
		slog.Time("timestamp", event.Timestamp),
		slog.String("event_type", string(event.EventType)),
		slog.String("action", event.Action),
		slog.String("result", string(event.Result)),
	}

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Principal != "" {
		attrs = append(attrs, slog.String("principal", event.Principal))
	}
	if event.Account != "" {
		attrs = append(attrs, slog.String("account", event.Account))
	}
	if event.Container != "" {
		attrs = append(attrs, slog.String("container", event.Container))
	}
	if event.Object != "" {
		attrs = append(attrs, slog.String("object", event.Object))
	}
	if event.ErrorMessage != "" {
		attrs = append(attrs, slog.String("error", event.ErrorMessage))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.TransID != "" {
		attrs = append(attrs, slog.String("trans_id", event.TransID))
	}
	if event.Method != "" {
		attrs = append(attrs, slog.String("method", event.Method))
	}
	if event.StatusCode > 0 {
		attrs = append(attrs, slog.Int("status_code", event.StatusCode))
	}
	if event.BytesTransferred > 0 {
		attrs = append(attrs, slog.Int64("bytes_transferred", event.BytesTransferred))
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}

	a.logger.LogAttrs(ctx, slog.LevelInfo, "Audit event: "+event.Action, attrs...)
	return nil
}

// LogAuthFailure logs a rejected token
func (a *DefaultAuditLogger) LogAuthFailure(ctx context.Context, ipAddress, transID, reason string) error {
	return a.LogEvent(ctx, &AuditEvent{
		Timestamp:    time.Now(),
		EventType:    EventAuthFailure,
		Action:       "authenticate",
		Result:       ResultFailure,
		ErrorMessage: reason,
		IPAddress:    ipAddress,
		TransID:      transID,
	})
}

// NoOpAuditLogger is an audit logger that discards all events
type NoOpAuditLogger struct{}

// NewNoOpAuditLogger creates a new no-op audit logger
func NewNoOpAuditLogger() AuditLogger {
	return &NoOpAuditLogger{}
}

func (n *NoOpAuditLogger) LogEvent(ctx context.Context, event *AuditEvent) error {
	return nil
}

func (n *NoOpAuditLogger) LogAuthFailure(ctx context.Context, ipAddress, transID, reason string) error {
	return nil
}

var (
	_ AuditLogger = (*DefaultAuditLogger)(nil)
	_ AuditLogger = (*NoOpAuditLogger)(nil)
)
