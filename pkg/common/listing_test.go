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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEntries = []ObjectDescriptor{
	{
		Name:         "a.txt",
		Hash:         "0cc175b9c0f1b6a831c399e269772661",
		Bytes:        1,
		ContentType:  "text/plain",
		LastModified: "2024-05-01T12:00:00.000000",
	},
	{Subdir: "photos/"},
}

func TestDecodeDescriptors_JSON(t *testing.T) {
	body := `[{"name":"a.txt","hash":"0cc175b9c0f1b6a831c399e269772661","bytes":1,` +
		`"content_type":"text/plain","last_modified":"2024-05-01T12:00:00.000000"},{"subdir":"photos/"}]`

	got, err := DecodeDescriptors(FormatJSON, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, sampleEntries, got)
}

func TestDecodeDescriptors_XML(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<container name="docs">
  <object><name>a.txt</name><hash>0cc175b9c0f1b6a831c399e269772661</hash><bytes>1</bytes>` +
		`<content_type>text/plain</content_type><last_modified>2024-05-01T12:00:00.000000</last_modified></object>
  <subdir name="photos/"><name>photos/</name></subdir>
</container>`

	got, err := DecodeDescriptors(FormatXML, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, sampleEntries, got)
}

func TestDecodeDescriptors_Edges(t *testing.T) {
	got, err := DecodeDescriptors(FormatJSON, []byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = DecodeDescriptors(FormatJSON, []byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, got)

	_, err = DecodeDescriptors(FormatJSON, []byte("{not json"))
	assert.Error(t, err)

	_, err = DecodeDescriptors(FormatPlain, []byte("a.txt\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeDescriptors(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		body, err := EncodeDescriptors(FormatPlain, "docs", sampleEntries)
		require.NoError(t, err)
		assert.Equal(t, "a.txt\nphotos/\n", string(body))
	})

	t.Run("json decodes back", func(t *testing.T) {
		body, err := EncodeDescriptors(FormatJSON, "docs", sampleEntries)
		require.NoError(t, err)
		assert.Contains(t, string(body), `{"subdir":"photos/"}`)

		got, err := DecodeDescriptors(FormatJSON, body)
		require.NoError(t, err)
		assert.Equal(t, sampleEntries, got)
	})

	t.Run("xml decodes back", func(t *testing.T) {
		body, err := EncodeDescriptors(FormatXML, "a&b", sampleEntries)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), `<?xml`))
		assert.Contains(t, string(body), `<container name="a&amp;b">`)

		got, err := DecodeDescriptors(FormatXML, body)
		require.NoError(t, err)
		assert.Equal(t, sampleEntries, got)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := EncodeDescriptors(Format("csv"), "docs", sampleEntries)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
