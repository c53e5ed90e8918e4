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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/audit"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/memory"
	restserver "github.com/jeremyhahn/go-swiftstore/pkg/server/rest"
	"github.com/jeremyhahn/go-swiftstore/pkg/validation"
)

func main() {
	// Command line flags
	host := flag.String("host", "127.0.0.1", "server host")
	port := flag.Int("port", 8080, "server port")
	token := flag.String("token", "", "accepted X-Auth-Token (empty disables authentication)")
	account := flag.String("account", "AUTH_dev", "account name reported for the token")
	containers := flag.String("containers", "", "comma separated containers to create at startup")
	rateLimit := flag.Float64("rate-limit", 0, "requests per second (0 disables rate limiting)")
	burst := flag.Int("burst", 0, "rate limit burst (default: twice the rate)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "json", "log format (json, text)")
	certFile := flag.String("cert", "", "TLS certificate file")
	keyFile := flag.String("key", "", "TLS key file")
	auditEnabled := flag.Bool("audit", false, "write an audit event per storage request to stdout")
	auditFormat := flag.String("audit-format", "json", "audit log format (json, text)")

	flag.Parse()

	level, err := adapters.ParseLogLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger := adapters.NewLogger(&adapters.LoggerConfig{Level: level, Format: *logFormat})

	store := memory.New()
	for _, name := range strings.Split(*containers, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := validation.ValidateContainerName(name); err != nil {
			log.Fatalf("Invalid container %q: %v", name, err)
		}
		if _, err := store.CreateContainer(context.Background(), name, common.Metadata{}); err != nil {
			log.Fatalf("Failed to create container %q: %v", name, err)
		}
		log.Printf("Created container %s", name)
	}

	// Create server configuration
	config := restserver.DefaultServerConfig()
	config.Host = *host
	config.Port = *port
	config.Logger = logger
	if *auditEnabled {
		config.EnableAudit = true
		config.AuditLogger = audit.NewAuditLogger(&audit.Config{
			Enabled: true,
			Format:  audit.OutputFormat(*auditFormat),
			Output:  os.Stdout,
		})
	}

	if *token != "" {
		auth := adapters.NewTokenAuthenticator()
		auth.AddToken(*token, &adapters.Principal{ID: *account, Name: *account, Account: *account})
		config.Authenticator = auth
	} else {
		log.Println("Warning: no --token given, requests are not authenticated")
	}

	if *rateLimit > 0 {
		config.EnableRateLimit = true
		config.RateLimitConfig.RequestsPerSecond = *rateLimit
		config.RateLimitConfig.Burst = *burst
		if *burst <= 0 {
			config.RateLimitConfig.Burst = int(*rateLimit * 2)
		}
	}

	scheme := "http"
	if *certFile != "" || *keyFile != "" {
		config.TLSConfig = adapters.NewTLSConfig().WithCertFiles(*certFile, *keyFile)
		scheme = "https"
	}

	server, err := restserver.NewServer(store, config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	log.Printf("Starting storage server on %s://%s", scheme, server.Address())
	log.Println("")
	log.Println("API Endpoints:")
	log.Println("  GET    /healthcheck            - Health check")
	log.Println("  HEAD   /{container}            - Container metadata")
	log.Println("  GET    /{container}            - List objects (plain, json, xml)")
	log.Println("  PUT    /{container}            - Create a container")
	log.Println("  POST   /{container}            - Update container metadata")
	log.Println("  DELETE /{container}            - Delete an empty container")
	log.Println("  PUT    /{container}/{object}   - Upload an object")
	log.Println("  GET    /{container}/{object}   - Download an object")
	log.Println("  HEAD   /{container}/{object}   - Object metadata")
	log.Println("  POST   /{container}/{object}   - Replace object metadata")
	log.Println("  DELETE /{container}/{object}   - Delete an object")
	log.Println("")

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Printf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	fmt.Println("Server stopped")
}
