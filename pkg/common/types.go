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

package common

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Metadata is the logical key/value view of user metadata carried in
// prefixed HTTP headers (X-Object-Meta-*, X-Container-Meta-*).
type Metadata map[string]string

// Clone returns a shallow copy of the mapping. A nil receiver yields an
// empty, non-nil mapping.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Header is a single HTTP header line as a (name, value) pair.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// String renders the header in raw "Name: value" line syntax.
func (h Header) String() string {
	return h.Name + ": " + h.Value
}

// ParseHeaderLine parses a raw "Name: value" header line.
func ParseHeaderLine(line string) (Header, error) {
	name, value, ok := strings.Cut(line, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeaderLine, line)
	}
	return Header{Name: name, Value: strings.TrimSpace(value)}, nil
}

// Headers is an ordered list of header pairs. Order is preserved all the way
// to the wire; duplicate names are sent as repeated header lines.
type Headers []Header

// NewHeaders builds a header list from alternating name/value arguments.
// A trailing name without a value is ignored.
func NewHeaders(pairs ...string) Headers {
	h := make(Headers, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		h = append(h, Header{Name: pairs[i], Value: pairs[i+1]})
	}
	return h
}

// Get returns the value of the first header matching name case-insensitively.
func (h Headers) Get(name string) string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value
		}
	}
	return ""
}

// Has reports whether a header with the given name is present.
func (h Headers) Has(name string) bool {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return true
		}
	}
	return false
}

// Merge returns a new list holding h followed by other. Neither input is
// modified.
func (h Headers) Merge(other Headers) Headers {
	out := make(Headers, 0, len(h)+len(other))
	out = append(out, h...)
	return append(out, other...)
}

// Lines renders every header in raw line syntax.
func (h Headers) Lines() []string {
	lines := make([]string, len(h))
	for i, hdr := range h {
		lines[i] = hdr.String()
	}
	return lines
}

// Apply adds every header to dst, preserving repeated names.
func (h Headers) Apply(dst http.Header) {
	for _, hdr := range h {
		dst.Add(hdr.Name, hdr.Value)
	}
}

// Format is a listing response format accepted by the storage service.
type Format string

const (
	// FormatPlain is the newline-delimited name listing. It is never sent on
	// the wire; omitting the format parameter selects it.
	FormatPlain Format = "plain"

	// FormatJSON is the JSON array of object descriptors.
	FormatJSON Format = "json"

	// FormatXML is the XML document of object descriptors.
	FormatXML Format = "xml"
)

// Formats is the closed set of listing formats shared by every container
// and storage facade.
var Formats = []Format{FormatPlain, FormatJSON, FormatXML}

// Valid reports whether f belongs to Formats.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Structured reports whether the format carries full object descriptors.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatXML
}

// Param returns the value of the "format" query parameter for f, or an empty
// string when the parameter must be omitted.
func (f Format) Param() string {
	if f.Structured() {
		return string(f)
	}
	return ""
}

// ResolveFormat returns f when it belongs to Formats and fallback otherwise.
// Unknown values are not an error: they silently select the fallback.
func ResolveFormat(f, fallback Format) Format {
	if f.Valid() {
		return f
	}
	return fallback
}

// SwiftTimeLayout is the timestamp layout used by listing descriptors.
const SwiftTimeLayout = "2006-01-02T15:04:05.000000"

// ObjectDescriptor is the per-object record returned by structured listings.
// Pseudo-directory entries produced by delimiter listings only set Subdir.
type ObjectDescriptor struct {
	Name         string `json:"name,omitempty" xml:"name"`
	Hash         string `json:"hash,omitempty" xml:"hash"`
	Bytes        int64  `json:"bytes" xml:"bytes"`
	ContentType  string `json:"content_type,omitempty" xml:"content_type"`
	LastModified string `json:"last_modified,omitempty" xml:"last_modified"`
	Subdir       string `json:"subdir,omitempty" xml:"-"`
}

// IsSubdir reports whether the descriptor is a pseudo-directory entry.
func (d ObjectDescriptor) IsSubdir() bool {
	return d.Subdir != ""
}

// Modified parses LastModified. Both the listing layout and RFC 3339 are
// accepted.
func (d ObjectDescriptor) Modified() (time.Time, error) {
	if t, err := time.Parse(SwiftTimeLayout, d.LastModified); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.RFC3339Nano, d.LastModified)
}
