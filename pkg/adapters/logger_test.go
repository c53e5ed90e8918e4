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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{" error ", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultLogger_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Writer: &buf, Level: DebugLevel, Format: "text"})
	ctx := context.Background()

	t.Run("Debug", func(t *testing.T) {
		buf.Reset()
		logger.Debug(ctx, "test debug message")
		output := buf.String()
		if !strings.Contains(output, "level=DEBUG") || !strings.Contains(output, "test debug message") {
			t.Errorf("Debug log missing expected content, got: %s", output)
		}
	})

	t.Run("Warn", func(t *testing.T) {
		buf.Reset()
		logger.Warn(ctx, "test warn message")
		if !strings.Contains(buf.String(), "level=WARN") {
			t.Errorf("Warn log missing level, got: %s", buf.String())
		}
	})

	t.Run("filtered below level", func(t *testing.T) {
		buf.Reset()
		logger.SetLevel(ErrorLevel)
		defer logger.SetLevel(DebugLevel)

		logger.Info(ctx, "should not appear")
		logger.Warn(ctx, "should not appear")
		if buf.Len() != 0 {
			t.Errorf("expected no output below level, got: %s", buf.String())
		}

		logger.Error(ctx, "boom")
		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("Error log missing, got: %s", buf.String())
		}
	})
}

func TestDefaultLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Writer: &buf, Level: InfoLevel})

	child := logger.WithFields(Field{Key: "container", Value: "photos"})
	child.Info(context.Background(), "listed", Field{Key: "count", Value: 3})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "listed" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["container"] != "photos" {
		t.Errorf("container = %v", entry["container"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("count = %v", entry["count"])
	}

	// Parent logger must not inherit child fields.
	buf.Reset()
	logger.Info(context.Background(), "parent")
	if strings.Contains(buf.String(), "photos") {
		t.Errorf("parent logger leaked child fields: %s", buf.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x")
	logger.Info(ctx, "x")
	logger.Warn(ctx, "x")
	logger.Error(ctx, "x")

	if logger.WithFields(Field{Key: "a", Value: 1}) != logger {
		t.Error("WithFields should return the same no-op logger")
	}
	logger.SetLevel(DebugLevel)
	if logger.GetLevel() != DebugLevel {
		t.Errorf("GetLevel() = %v, want DEBUG", logger.GetLevel())
	}
}
