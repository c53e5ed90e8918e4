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

package swift

import (
	"sort"
	"strings"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// Metadata header prefixes.
const (
	ObjectMetaPrefix    = "X-Object-Meta-"
	ContainerMetaPrefix = "X-Container-Meta-"
	AccountMetaPrefix   = "X-Account-Meta-"
)

// DecodeMetadata collects the headers whose name starts with prefix, compared
// case-insensitively, keyed by the remainder of the name. Other headers are
// ignored.
func DecodeMetadata(headers common.Headers, prefix string) common.Metadata {
	meta := make(common.Metadata)
	for _, h := range headers {
		if len(h.Name) <= len(prefix) || !strings.EqualFold(h.Name[:len(prefix)], prefix) {
			continue
		}
		meta[h.Name[len(prefix):]] = h.Value
	}
	return meta
}

// EncodeMetadata turns each key into one header named prefix+key, in sorted
// key order. Keys and values are not escaped.
func EncodeMetadata(meta common.Metadata, prefix string) common.Headers {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make(common.Headers, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, common.Header{Name: prefix + k, Value: meta[k]})
	}
	return headers
}
