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

package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
)

// OutputFormat defines the output format type.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat validates an output format name. An empty name is text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOutputFormat, s)
	}
}

// OperationResult holds the result of an operation.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// FormatOperationResult formats an operation result in the specified format.
func FormatOperationResult(result *OperationResult, format OutputFormat) string {
	switch format {
	case FormatJSON:
		return formatJSON(result)
	case FormatTable:
		return formatResultTable(result)
	default:
		return formatResultText(result)
	}
}

// FormatError formats an error message in the specified format.
func FormatError(err error, format OutputFormat) string {
	result := &OperationResult{
		Success: false,
		Error:   err.Error(),
	}
	return FormatOperationResult(result, format)
}

// FormatTransfer reports an upload or download. The body is never printed.
func FormatTransfer(message string, info *transport.Info, format OutputFormat) string {
	result := &OperationResult{Success: true, Message: message}
	if info != nil {
		result.Data = map[string]any{
			"status":         info.StatusCode,
			"url":            info.URL,
			"etag":           info.Headers.Get("Etag"),
			"content_type":   info.ContentType,
			"content_length": info.ContentLength,
			"duration_ms":    info.Duration.Milliseconds(),
		}
	}
	return FormatOperationResult(result, format)
}

func formatResultText(result *OperationResult) string {
	if result.Success {
		if result.Message != "" {
			return result.Message + "\n"
		}
		return "Operation completed successfully\n"
	}
	return fmt.Sprintf("Error: %s\n", result.Error)
}

func formatResultTable(result *OperationResult) string {
	status, text := "SUCCESS", result.Message
	if !result.Success {
		status, text = "FAILED", result.Error
	}

	output := "┌────────────────────────────────────────────────────────┐\n"
	output += "│ Operation Result                                       │\n"
	output += "├────────────────────────────────────────────────────────┤\n"
	output += fmt.Sprintf("│ Status: %-46s │\n", status)
	if text != "" {
		for _, line := range wrapText(text, 54) {
			output += fmt.Sprintf("│ %-54s │\n", line)
		}
	}
	output += "└────────────────────────────────────────────────────────┘\n"
	return output
}

func formatJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": \"failed to marshal JSON: %s\"}\n", err)
	}
	return string(data) + "\n"
}

// FormatListing formats listing descriptors. Plain listings carry names
// only and print one name per line in text mode.
func FormatListing(objects []common.ObjectDescriptor, format OutputFormat) string {
	switch format {
	case FormatJSON:
		return formatJSON(map[string]any{
			"count":   len(objects),
			"objects": objects,
		})
	case FormatTable:
		return formatListingTable(objects)
	default:
		return formatListingText(objects)
	}
}

func entryName(d common.ObjectDescriptor) string {
	if d.IsSubdir() {
		return d.Subdir
	}
	return d.Name
}

func formatListingText(objects []common.ObjectDescriptor) string {
	if len(objects) == 0 {
		return "No objects found\n"
	}

	var b strings.Builder
	for _, obj := range objects {
		if obj.IsSubdir() || obj.LastModified == "" {
			b.WriteString(entryName(obj))
			b.WriteByte('\n')
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", obj.Name, formatSize(obj.Bytes), obj.LastModified)
	}
	return b.String()
}

func formatListingTable(objects []common.ObjectDescriptor) string {
	if len(objects) == 0 {
		return "No objects found\n"
	}

	var output string
	output += "┌────────────────────────────────────┬──────────────┬──────────────────────┐\n"
	output += "│ Name                               │ Size         │ Last Modified        │\n"
	output += "├────────────────────────────────────┼──────────────┼──────────────────────┤\n"

	for _, obj := range objects {
		name := truncate(entryName(obj), 34)
		size, modified := "-", "-"
		if !obj.IsSubdir() && obj.LastModified != "" {
			size = formatSize(obj.Bytes)
			modified = obj.LastModified
			if t, err := obj.Modified(); err == nil {
				modified = t.Format("2006-01-02 15:04:05")
			}
		}
		output += fmt.Sprintf("│ %-34s │ %-12s │ %-20s │\n", name, size, modified)
	}

	output += "└────────────────────────────────────┴──────────────┴──────────────────────┘\n"
	output += fmt.Sprintf("Total: %d object(s)\n", len(objects))
	return output
}

// FormatObject formats a single object descriptor, as returned by stat.
func FormatObject(obj common.ObjectDescriptor, format OutputFormat) string {
	switch format {
	case FormatJSON:
		return formatJSON(obj)
	case FormatTable:
		return formatPairsTable("Object", [][2]string{
			{"Name", obj.Name},
			{"Size", formatSize(obj.Bytes)},
			{"Content Type", obj.ContentType},
			{"Last Modified", obj.LastModified},
			{"ETag", obj.Hash},
		})
	default:
		var output string
		output += fmt.Sprintf("Name: %s\n", obj.Name)
		output += fmt.Sprintf("  Size: %s (%d bytes)\n", formatSize(obj.Bytes), obj.Bytes)
		output += fmt.Sprintf("  Content Type: %s\n", obj.ContentType)
		output += fmt.Sprintf("  Last Modified: %s\n", obj.LastModified)
		output += fmt.Sprintf("  ETag: %s\n", obj.Hash)
		return output
	}
}

// FormatMetadata formats a metadata mapping with sorted keys.
func FormatMetadata(title string, meta common.Metadata, format OutputFormat) string {
	if format == FormatJSON {
		return formatJSON(map[string]any{
			"name":     title,
			"metadata": meta.Clone(),
		})
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if format == FormatTable {
		pairs := make([][2]string, len(keys))
		for i, k := range keys {
			pairs[i] = [2]string{k, meta[k]}
		}
		return formatPairsTable(title, pairs)
	}

	if len(keys) == 0 {
		return fmt.Sprintf("%s: no metadata\n", title)
	}
	output := title + ":\n"
	for _, k := range keys {
		output += fmt.Sprintf("  %s: %s\n", k, meta[k])
	}
	return output
}

func formatPairsTable(title string, pairs [][2]string) string {
	var output string
	output += "┌──────────────────┬────────────────────────────────────────┐\n"
	output += fmt.Sprintf("│ %-57s │\n", truncate(title, 57))
	output += "├──────────────────┼────────────────────────────────────────┤\n"
	for _, p := range pairs {
		output += fmt.Sprintf("│ %-16s │ %-38s │\n", truncate(p[0], 16), truncate(p[1], 38))
	}
	output += "└──────────────────┴────────────────────────────────────────┘\n"
	return output
}

// formatSize formats a byte size into a human-readable string.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// wrapText wraps text to fit within maxWidth characters.
func wrapText(text string, maxWidth int) []string {
	if len(text) <= maxWidth {
		return []string{text}
	}

	if !strings.Contains(text, " ") {
		var lines []string
		for len(text) > maxWidth {
			lines = append(lines, text[:maxWidth])
			text = text[maxWidth:]
		}
		if len(text) > 0 {
			lines = append(lines, text)
		}
		return lines
	}

	var lines []string
	var currentLine string
	for _, word := range strings.Fields(text) {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}
	return lines
}
