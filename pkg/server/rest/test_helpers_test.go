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
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/memory"
	"github.com/stretchr/testify/require"
)

const testToken = "secret-token"

// newTestServer builds a server in test mode, protected by testToken, with
// an account holding an empty "photos" container.
func newTestServer(t *testing.T, configure ...func(*ServerConfig)) (*Server, *memory.Account) {
	t.Helper()

	auth := adapters.NewTokenAuthenticator()
	auth.AddToken(testToken, &adapters.Principal{ID: "tester", Name: "tester", Account: "AUTH_test"})

	config := DefaultServerConfig()
	config.Mode = gin.TestMode
	config.Logger = adapters.NewNoOpLogger()
	config.Authenticator = auth
	for _, fn := range configure {
		fn(config)
	}

	account := memory.New()
	_, err := account.CreateContainer(context.Background(), "photos", nil)
	require.NoError(t, err)

	server, err := NewServer(account, config)
	require.NoError(t, err)
	return server, account
}

// serve runs one request through the router with the test token attached.
func serve(server *Server, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(adapters.AuthTokenHeader, testToken)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func mustPut(t *testing.T, server *Server, target, body string, headers ...string) {
	t.Helper()
	w := serve(server, http.MethodPut, target, body, headers...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
