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

package adapters

import (
	"crypto/tls"
	"crypto/x509"
	"os"
)

// TLSConfig holds TLS settings for either side of a storage connection.
// The client side uses the CA and optional client certificate; the
// development server uses the certificate and key.
type TLSConfig struct {
	// CertFile is the path to a PEM certificate (server cert, or client cert for mTLS).
	CertFile string

	// KeyFile is the path to the PEM private key matching CertFile.
	KeyFile string

	// CertPEM and KeyPEM are alternatives to CertFile and KeyFile.
	CertPEM []byte
	KeyPEM  []byte

	// CAFile is the path to a PEM bundle used to verify the peer.
	CAFile string

	// CAPEM is an alternative to CAFile.
	CAPEM []byte

	// MinVersion specifies the minimum TLS version (default: TLS 1.2).
	MinVersion uint16

	// InsecureSkipVerify disables peer verification (development only).
	InsecureSkipVerify bool
}

// NewTLSConfig creates a TLS configuration with secure defaults.
func NewTLSConfig() *TLSConfig {
	return &TLSConfig{
		MinVersion: tls.VersionTLS12,
	}
}

// WithCertFiles sets the certificate and key from files.
func (c *TLSConfig) WithCertFiles(certFile, keyFile string) *TLSConfig {
	c.CertFile = certFile
	c.KeyFile = keyFile
	return c
}

// WithCAFile sets the CA bundle used to verify the peer.
func (c *TLSConfig) WithCAFile(caFile string) *TLSConfig {
	c.CAFile = caFile
	return c
}

// WithInsecureSkipVerify disables peer verification (use with caution).
func (c *TLSConfig) WithInsecureSkipVerify(skip bool) *TLSConfig {
	c.InsecureSkipVerify = skip
	return c
}

func (c *TLSConfig) loadCertificate() (*tls.Certificate, error) {
	switch {
	case len(c.CertPEM) > 0 && len(c.KeyPEM) > 0:
		cert, err := tls.X509KeyPair(c.CertPEM, c.KeyPEM)
		if err != nil {
			return nil, ErrInvalidCertificate
		}
		return &cert, nil
	case c.CertFile != "" && c.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, ErrInvalidCertificate
		}
		return &cert, nil
	default:
		return nil, nil
	}
}

func (c *TLSConfig) loadCAPool() (*x509.CertPool, error) {
	var data []byte
	switch {
	case len(c.CAPEM) > 0:
		data = c.CAPEM
	case c.CAFile != "":
		var err error
		data, err = os.ReadFile(c.CAFile)
		if err != nil {
			return nil, ErrInvalidCAPool
		}
	default:
		return nil, nil
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, ErrInvalidCAPool
	}
	return pool, nil
}

// BuildClient creates a *tls.Config for an HTTPS storage client. The system
// roots are used unless a CA bundle is configured.
func (c *TLSConfig) BuildClient() (*tls.Config, error) {
	config := &tls.Config{
		MinVersion:         c.MinVersion,
		InsecureSkipVerify: c.InsecureSkipVerify, // #nosec G402 -- opt-in for development endpoints
	}

	pool, err := c.loadCAPool()
	if err != nil {
		return nil, err
	}
	config.RootCAs = pool

	cert, err := c.loadCertificate()
	if err != nil {
		return nil, err
	}
	if cert != nil {
		config.Certificates = []tls.Certificate{*cert}
	}

	return config, nil
}

// BuildServer creates a *tls.Config for the development server. A
// certificate is required; a CA bundle turns on client certificate checks.
func (c *TLSConfig) BuildServer() (*tls.Config, error) {
	cert, err := c.loadCertificate()
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrInvalidCertificate
	}

	config := &tls.Config{
		MinVersion:   c.MinVersion,
		Certificates: []tls.Certificate{*cert},
	}

	pool, err := c.loadCAPool()
	if err != nil {
		return nil, err
	}
	if pool != nil {
		config.ClientCAs = pool
		config.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return config, nil
}
