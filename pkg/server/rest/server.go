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

// Package rest is a development server speaking the container wire
// protocol over an in-memory account. It lets the client, the CLI and the
// tests run against a real peer.
package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/audit"
	"github.com/jeremyhahn/go-swiftstore/pkg/memory"
	"github.com/jeremyhahn/go-swiftstore/pkg/server/middleware"
)

// Server represents the storage server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	config     *ServerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	// Host is the hostname to bind to (default: "127.0.0.1")
	Host string

	// Port is the port to listen on (default: 8080)
	Port int

	// EnableLogging enables request logging middleware
	EnableLogging bool

	// EnableRateLimit enables rate limiting middleware
	EnableRateLimit bool

	// RateLimitConfig is the rate limiting configuration
	RateLimitConfig *middleware.RateLimitConfig

	// EnableRequestID enables the X-Trans-Id middleware
	EnableRequestID bool

	// DetectContentType sniffs the content type of uploads sent without one
	DetectContentType bool

	// MaxRequestSize is the maximum request body size in bytes (default: 100MB)
	MaxRequestSize int64

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// Mode sets the Gin mode: "debug", "release", or "test" (default: "release")
	Mode string

	// Logger is the pluggable logger adapter (default: DefaultLogger)
	Logger adapters.Logger

	// Authenticator checks X-Auth-Token (default: NoOpAuthenticator)
	Authenticator adapters.Authenticator

	// TLSConfig is the TLS/mTLS configuration (default: nil = no TLS)
	TLSConfig *adapters.TLSConfig

	// EnableAudit records one audit event per container or object request
	EnableAudit bool

	// AuditLogger receives audit events (default: JSON to stdout)
	AuditLogger audit.AuditLogger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:              "127.0.0.1",
		Port:              8080,
		EnableLogging:     true,
		EnableRateLimit:   false,
		RateLimitConfig:   middleware.DefaultRateLimitConfig(),
		EnableRequestID:   true,
		DetectContentType: true,
		MaxRequestSize:    100 * 1024 * 1024, // 100MB
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		Mode:              gin.ReleaseMode,
		Logger:            adapters.NewDefaultLogger(),
		Authenticator:     adapters.NewNoOpAuthenticator(),
	}
}

// NewServer creates a server backed by the given account.
func NewServer(account *memory.Account, config *ServerConfig) (*Server, error) {
	if account == nil {
		return nil, ErrAccountRequired
	}
	if config == nil {
		config = DefaultServerConfig()
	}

	// Set defaults for nil fields
	if config.Logger == nil {
		config.Logger = adapters.NewDefaultLogger()
	}
	if config.Authenticator == nil {
		config.Authenticator = adapters.NewNoOpAuthenticator()
	}
	if config.Mode == "" {
		config.Mode = gin.ReleaseMode
	}
	if config.EnableAudit && config.AuditLogger == nil {
		config.AuditLogger = audit.NewAuditLogger(audit.DefaultConfig())
	}

	gin.SetMode(config.Mode)
	router := gin.New()

	// Middleware order: recovery → request ID → audit → logging → rate limit → size limit.
	// Authentication is attached to the storage routes only.
	router.Use(ErrorHandlingMiddleware(config.Logger))

	if config.EnableRequestID {
		router.Use(middleware.RequestIDMiddleware())
	}

	if config.EnableAudit {
		router.Use(audit.AuditMiddleware(config.AuditLogger))
	}

	if config.EnableLogging {
		router.Use(LoggingMiddleware(config.Logger))
	}

	if config.EnableRateLimit {
		router.Use(middleware.RateLimitMiddleware(config.RateLimitConfig, config.Logger))
	}

	if config.MaxRequestSize > 0 {
		router.Use(RequestSizeLimitMiddleware(config.MaxRequestSize))
	}

	handler := NewHandler(account, config.Logger, config.DetectContentType)
	SetupRoutes(router, handler, AuthenticationMiddleware(config.Authenticator, config.Logger))

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(config.Host, fmt.Sprintf("%d", config.Port)),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		router:     router,
		httpServer: httpServer,
		handler:    handler,
		config:     config,
	}, nil
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	if s.config.TLSConfig != nil {
		tlsConfig, err := s.config.TLSConfig.BuildServer()
		if err != nil {
			return err
		}
		s.httpServer.TLSConfig = tlsConfig

		s.config.Logger.Info(context.Background(), "starting storage server with TLS",
			adapters.Field{Key: "address", Value: s.httpServer.Addr},
		)

		// ListenAndServeTLS requires empty cert/key params when using TLSConfig
		return s.httpServer.ListenAndServeTLS("", "")
	}

	s.config.Logger.Info(context.Background(), "starting storage server",
		adapters.Field{Key: "address", Value: s.httpServer.Addr},
	)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.config.Logger.Info(ctx, "shutting down storage server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the underlying Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the HTTP handler
func (s *Server) Handler() *Handler {
	return s.handler
}

// Address returns the server address
func (s *Server) Address() string {
	return s.httpServer.Addr
}
