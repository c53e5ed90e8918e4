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

// Package transport is the HTTP collaborator of the storage client. It builds
// requests from header lists and query parameters, streams bodies, and hands
// back the status, headers and body without interpreting them.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/version"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a whole request/response exchange.
const DefaultTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// Timeout bounds each exchange (default: 30s). Contexts passed to requests
	// may shorten it further.
	Timeout time.Duration

	// TLS configures HTTPS verification and client certificates.
	TLS *adapters.TLSConfig

	// RequestsPerSecond throttles outgoing requests when positive.
	RequestsPerSecond float64

	// Burst is the throttle burst size (default: 1 when throttling).
	Burst int

	// UserAgent is sent on every request (default: go-swiftstore/<version>).
	UserAgent string

	// Logger receives one debug entry per request (default: no-op).
	Logger adapters.Logger

	// HTTPClient replaces the client built from the settings above.
	HTTPClient *http.Client
}

// Client issues storage requests.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     adapters.Logger
	userAgent  string
}

// New creates a Client. A nil config yields the defaults.
func New(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			IdleConnTimeout: 90 * time.Second,
		}

		if config.TLS != nil {
			tlsConfig, err := config.TLS.BuildClient()
			if err != nil {
				return nil, fmt.Errorf("failed to build TLS config: %w", err)
			}
			transport.TLSClientConfig = tlsConfig
		}

		timeout := DefaultTimeout
		if config.Timeout > 0 {
			timeout = config.Timeout
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   timeout,
		}
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	logger := config.Logger
	if logger == nil {
		logger = adapters.NewNoOpLogger()
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	return &Client{
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// Init starts a request against the given absolute URL.
func (c *Client) Init(url string) *Request {
	return &Request{
		client: c,
		url:    url,
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
