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

package version

// Version is the application version, set at build time with:
//
//	go build -ldflags "-X github.com/jeremyhahn/go-swiftstore/pkg/version.Version=1.0.0"
var Version = "0.1.0-alpha"

// Get returns the application version string.
func Get() string {
	return Version
}

// UserAgent returns the User-Agent sent by the storage client.
func UserAgent() string {
	return "go-swiftstore/" + Version
}
