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
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

type xmlEntry struct {
	XMLName      xml.Name
	NameAttr     string `xml:"name,attr"`
	Name         string `xml:"name"`
	Hash         string `xml:"hash"`
	Bytes        int64  `xml:"bytes"`
	ContentType  string `xml:"content_type"`
	LastModified string `xml:"last_modified"`
}

type xmlListing struct {
	XMLName xml.Name   `xml:"container"`
	Name    string     `xml:"name,attr"`
	Entries []xmlEntry `xml:",any"`
}

type xmlObject struct {
	XMLName xml.Name `xml:"object"`
	ObjectDescriptor
}

type xmlSubdir struct {
	XMLName xml.Name `xml:"subdir"`
	Attr    string   `xml:"name,attr"`
	Name    string   `xml:"name"`
}

type jsonSubdir struct {
	Subdir string `json:"subdir"`
}

// DecodeDescriptors parses a structured listing body. Entry order is kept,
// including the position of pseudo-directory entries.
func DecodeDescriptors(format Format, body []byte) ([]ObjectDescriptor, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []ObjectDescriptor{}, nil
	}

	switch format {
	case FormatJSON:
		var out []ObjectDescriptor
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode json listing: %w", err)
		}
		if out == nil {
			out = []ObjectDescriptor{}
		}
		return out, nil

	case FormatXML:
		var doc xmlListing
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decode xml listing: %w", err)
		}
		out := make([]ObjectDescriptor, 0, len(doc.Entries))
		for _, e := range doc.Entries {
			switch e.XMLName.Local {
			case "object":
				out = append(out, ObjectDescriptor{
					Name:         e.Name,
					Hash:         e.Hash,
					Bytes:        e.Bytes,
					ContentType:  e.ContentType,
					LastModified: e.LastModified,
				})
			case "subdir":
				dir := e.NameAttr
				if dir == "" {
					dir = e.Name
				}
				out = append(out, ObjectDescriptor{Subdir: dir})
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeDescriptors renders descriptors in the given format. Plain output is
// one name (or subdir) per line with a trailing newline; container names the
// root element of XML output.
func EncodeDescriptors(format Format, container string, entries []ObjectDescriptor) ([]byte, error) {
	switch format {
	case FormatJSON:
		items := make([]any, len(entries))
		for i, e := range entries {
			if e.IsSubdir() {
				items[i] = jsonSubdir{Subdir: e.Subdir}
				continue
			}
			items[i] = e
		}
		return json.Marshal(items)

	case FormatXML:
		var buf bytes.Buffer
		buf.WriteString(xml.Header)
		buf.WriteString(`<container name="`)
		if err := xml.EscapeText(&buf, []byte(container)); err != nil {
			return nil, err
		}
		buf.WriteString(`">`)
		enc := xml.NewEncoder(&buf)
		for _, e := range entries {
			var v any = xmlObject{ObjectDescriptor: e}
			if e.IsSubdir() {
				v = xmlSubdir{Attr: e.Subdir, Name: e.Subdir}
			}
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
		}
		if err := enc.Flush(); err != nil {
			return nil, err
		}
		buf.WriteString("</container>")
		return buf.Bytes(), nil

	case FormatPlain:
		var sb strings.Builder
		for _, e := range entries {
			if e.IsSubdir() {
				sb.WriteString(e.Subdir)
			} else {
				sb.WriteString(e.Name)
			}
			sb.WriteByte('\n')
		}
		return []byte(sb.String()), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
