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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
)

// DefaultListLimit is the page size used when ListQuery.Limit is not positive.
const DefaultListLimit = 10000

// ListQuery controls one listing request. Empty fields are left out of the
// query string. A Format outside common.Formats, including the zero value,
// selects the container's preferred format.
type ListQuery struct {
	Limit     int
	Marker    string
	Prefix    string
	Path      string
	Delimiter string
	Format    common.Format
}

func (q ListQuery) params(format common.Format) url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if q.Marker != "" {
		params.Set("marker", q.Marker)
	}
	if q.Prefix != "" {
		params.Set("prefix", q.Prefix)
	}
	if q.Path != "" {
		params.Set("path", q.Path)
	}
	if q.Delimiter != "" {
		params.Set("delimiter", q.Delimiter)
	}
	if p := format.Param(); p != "" {
		params.Set("format", p)
	}
	return params
}

// Listing is the result of ListFiles. Plain listings fill Names; structured
// listings keep the trimmed body in Raw.
type Listing struct {
	Format     common.Format
	StatusCode int
	Names      []string
	Raw        string
}

// Descriptors parses a structured listing. Plain listings yield descriptors
// carrying only the name.
func (l *Listing) Descriptors() ([]common.ObjectDescriptor, error) {
	if !l.Format.Structured() {
		out := make([]common.ObjectDescriptor, len(l.Names))
		for i, n := range l.Names {
			out[i] = common.ObjectDescriptor{Name: n}
		}
		return out, nil
	}
	return common.DecodeDescriptors(l.Format, []byte(l.Raw))
}

// splitNames turns a plain listing body into names. An empty or
// whitespace-only body is an empty listing.
func splitNames(body string) []string {
	body = strings.TrimRight(body, " \t\r\n")
	if body == "" {
		return []string{}
	}
	return strings.Split(body, "\n")
}

// ListFiles lists objects in the container. The response status is not
// validated; it is reported in Listing.StatusCode.
func (c *Container) ListFiles(ctx context.Context, q ListQuery) (*Listing, error) {
	format := common.ResolveFormat(q.Format, c.format)

	resp, err := c.client.Init(c.url).
		SetHeaders(c.token).
		SetParams(q.params(format)).
		Do(ctx, http.MethodGet)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		Format:     format,
		StatusCode: resp.StatusCode(),
	}
	if format.Structured() {
		listing.Raw = strings.TrimSpace(resp.Content())
	} else {
		listing.Names = splitNames(resp.Content())
	}

	c.logger.Debug(ctx, "listed container",
		adapters.Field{Key: "format", Value: string(format)},
		adapters.Field{Key: "status", Value: listing.StatusCode},
		adapters.Field{Key: "names", Value: len(listing.Names)},
	)
	return listing, nil
}

// FileInfo is the descriptor of a single object. Encoded holds the
// descriptor re-serialized as JSON when the container prefers JSON.
type FileInfo struct {
	Descriptor common.ObjectDescriptor
	Encoded    []byte
}

// GetFileInfo looks an object up with a one-entry JSON listing starting at
// the beginning of the container (limit=1, no marker, prefix=name). A
// listing whose first entry is a different object is reported as
// common.ErrObjectNotFound.
func (c *Container) GetFileInfo(ctx context.Context, name string) (*FileInfo, error) {
	if name == "" {
		return nil, common.ErrNameRequired
	}

	listing, err := c.ListFiles(ctx, ListQuery{
		Limit:  1,
		Marker: "",
		Prefix: name,
		Format: common.FormatJSON,
	})
	if err != nil {
		return nil, err
	}
	if listing.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", common.ErrContainerNotFound, c.url)
	}

	descriptors, err := listing.Descriptors()
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 || descriptors[0].Name != name {
		return nil, fmt.Errorf("%w: %s", common.ErrObjectNotFound, name)
	}

	info := &FileInfo{Descriptor: descriptors[0]}
	if c.format == common.FormatJSON {
		encoded, err := json.Marshal(info.Descriptor)
		if err != nil {
			return nil, err
		}
		info.Encoded = encoded
	}
	return info, nil
}

// Walk pages through a plain listing, calling fn for every name in order.
// Each page starts after the last name of the previous one; a short page
// ends the walk. An error from fn stops the walk and is returned.
func (c *Container) Walk(ctx context.Context, q ListQuery, fn func(name string) error) error {
	q.Format = common.FormatPlain
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}

	for {
		listing, err := c.ListFiles(ctx, q)
		if err != nil {
			return err
		}
		if err := checkStatus(OpWalk, listing.StatusCode); err != nil {
			return err
		}

		for _, name := range listing.Names {
			if err := fn(name); err != nil {
				return err
			}
		}

		if len(listing.Names) < q.Limit {
			return nil
		}
		q.Marker = listing.Names[len(listing.Names)-1]
	}
}
