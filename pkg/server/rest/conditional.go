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
	"net/http"
	"strings"
	"time"
)

// checkPreconditions evaluates the conditional request headers against the
// current object state. It returns 0 when the request may proceed, 412 for
// a failed If-Match or If-Unmodified-Since, and 304 for a matching
// If-None-Match or an unchanged If-Modified-Since on GET and HEAD.
//
// If-Match takes precedence over If-Unmodified-Since and If-None-Match over
// If-Modified-Since.
func checkPreconditions(r *http.Request, etag string, modified time.Time) int {
	modified = modified.Truncate(time.Second)

	if v := r.Header.Get("If-Match"); v != "" {
		if !etagListMatches(v, etag) {
			return http.StatusPreconditionFailed
		}
	} else if v := r.Header.Get("If-Unmodified-Since"); v != "" {
		if t, err := http.ParseTime(v); err == nil && modified.After(t) {
			return http.StatusPreconditionFailed
		}
	}

	safe := r.Method == http.MethodGet || r.Method == http.MethodHead

	if v := r.Header.Get("If-None-Match"); v != "" {
		if etagListMatches(v, etag) {
			if safe {
				return http.StatusNotModified
			}
			return http.StatusPreconditionFailed
		}
	} else if v := r.Header.Get("If-Modified-Since"); v != "" && safe {
		if t, err := http.ParseTime(v); err == nil && !modified.After(t) {
			return http.StatusNotModified
		}
	}

	return 0
}

// etagListMatches reports whether a comma separated ETag list (or "*")
// contains etag. Quotes and weak prefixes are ignored.
func etagListMatches(list, etag string) bool {
	for _, candidate := range strings.Split(list, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		if strings.Trim(candidate, `"`) == etag {
			return true
		}
	}
	return false
}
