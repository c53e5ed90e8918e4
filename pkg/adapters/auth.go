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
	"context"
	"crypto/subtle"
	"net/http"
	"sync"
)

// AuthTokenHeader carries the storage token on every request.
const AuthTokenHeader = "X-Auth-Token"

// PrincipalContextKey is the request-scoped key of the authenticated *Principal.
const PrincipalContextKey = "principal"

// Principal represents an authenticated account.
type Principal struct {
	// ID is the unique identifier for this principal.
	ID string

	// Name is the human-readable name.
	Name string

	// Account is the storage account the token grants access to.
	Account string
}

// Authenticator defines the interface for pluggable request authentication.
type Authenticator interface {
	// AuthenticateHTTP authenticates an HTTP request and returns the principal.
	// Returns ErrMissingCredentials or ErrUnauthorized on failure.
	AuthenticateHTTP(ctx context.Context, req *http.Request) (*Principal, error)
}

// NoOpAuthenticator is an authenticator that allows all requests.
type NoOpAuthenticator struct{}

// NewNoOpAuthenticator creates a new no-op authenticator.
func NewNoOpAuthenticator() *NoOpAuthenticator {
	return &NoOpAuthenticator{}
}

// AuthenticateHTTP allows all HTTP requests.
func (a *NoOpAuthenticator) AuthenticateHTTP(ctx context.Context, req *http.Request) (*Principal, error) {
	return &Principal{
		ID:   "anonymous",
		Name: "Anonymous",
	}, nil
}

// TokenAuthenticator checks X-Auth-Token against a fixed set of tokens.
type TokenAuthenticator struct {
	mu     sync.RWMutex
	tokens map[string]*Principal
}

// NewTokenAuthenticator creates an authenticator with no tokens registered.
func NewTokenAuthenticator() *TokenAuthenticator {
	return &TokenAuthenticator{tokens: make(map[string]*Principal)}
}

// AddToken registers a token for the given principal.
func (a *TokenAuthenticator) AddToken(token string, principal *Principal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = principal
}

// RevokeToken removes a token.
func (a *TokenAuthenticator) RevokeToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.tokens, token)
}

// AuthenticateHTTP validates the X-Auth-Token header.
func (a *TokenAuthenticator) AuthenticateHTTP(ctx context.Context, req *http.Request) (*Principal, error) {
	token := req.Header.Get(AuthTokenHeader)
	if token == "" {
		return nil, ErrMissingCredentials
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	var found *Principal
	for known, principal := range a.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			found = principal
		}
	}
	if found == nil {
		return nil, ErrUnauthorized
	}
	return found, nil
}
