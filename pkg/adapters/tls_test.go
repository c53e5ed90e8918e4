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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTLSConfig_Defaults(t *testing.T) {
	cfg := NewTLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestTLSConfig_BuildClient_SystemRoots(t *testing.T) {
	cfg, err := NewTLSConfig().WithInsecureSkipVerify(true).BuildClient()
	require.NoError(t, err)
	assert.Nil(t, cfg.RootCAs)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Empty(t, cfg.Certificates)
}

func TestTLSConfig_BuildClient_BadCA(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewTLSConfig().WithCAFile(filepath.Join(t.TempDir(), "nope.pem")).BuildClient()
		assert.ErrorIs(t, err, ErrInvalidCAPool)
	})

	t.Run("not PEM", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))
		_, err := NewTLSConfig().WithCAFile(path).BuildClient()
		assert.ErrorIs(t, err, ErrInvalidCAPool)
	})
}

func TestTLSConfig_BuildClient_BadCertificate(t *testing.T) {
	cfg := NewTLSConfig()
	cfg.CertPEM = []byte("bad")
	cfg.KeyPEM = []byte("bad")
	_, err := cfg.BuildClient()
	assert.ErrorIs(t, err, ErrInvalidCertificate)
}

func TestTLSConfig_BuildServer_RequiresCertificate(t *testing.T) {
	_, err := NewTLSConfig().BuildServer()
	assert.ErrorIs(t, err, ErrInvalidCertificate)

	_, err = NewTLSConfig().WithCertFiles("/nonexistent/cert.pem", "/nonexistent/key.pem").BuildServer()
	assert.ErrorIs(t, err, ErrInvalidCertificate)
}
