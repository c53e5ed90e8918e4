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
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "SWIFTSTORE"

// Config holds the CLI configuration settings.
type Config struct {
	URL          string // Account storage URL, e.g. https://storage.example.com/v1/AUTH_acct
	Token        string // X-Auth-Token value
	Container    string
	Format       string // Listing format: plain, json or xml
	OutputFormat string // CLI output: text, json or table
	LogLevel     string
	LogFormat    string
	Timeout      time.Duration

	// TLS settings
	CAFile   string
	Insecure bool

	RateLimit         float64 // Requests per second, 0 disables throttling
	DetectContentType bool
}

// InitConfig initializes the configuration using Viper.
// Configuration priority: flags > env vars > config file > defaults.
func InitConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("format", string(common.FormatPlain))
	v.SetDefault("output-format", string(FormatText))
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "text")
	v.SetDefault("timeout", transport.DefaultTimeout)
	v.SetDefault("detect-content-type", true)

	// Set config file search paths
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".swiftstore")
		v.SetConfigType("yaml")
	}

	// SWIFTSTORE_OUTPUT_FORMAT maps to output-format
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return v, nil
}

// GetConfig extracts the configuration from Viper into a Config struct.
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		URL:               v.GetString("url"),
		Token:             v.GetString("token"),
		Container:         v.GetString("container"),
		Format:            v.GetString("format"),
		OutputFormat:      v.GetString("output-format"),
		LogLevel:          v.GetString("log-level"),
		LogFormat:         v.GetString("log-format"),
		Timeout:           v.GetDuration("timeout"),
		CAFile:            v.GetString("ca-file"),
		Insecure:          v.GetBool("insecure"),
		RateLimit:         v.GetFloat64("rate-limit"),
		DetectContentType: v.GetBool("detect-content-type"),
	}
}

// ValidateConfig checks that the settings needed to reach a container are
// present and well formed.
func ValidateConfig(cfg *Config) error {
	if cfg.URL == "" {
		return ErrURLRequired
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}
	if cfg.Token == "" {
		return ErrTokenRequired
	}
	if strings.Trim(cfg.Container, "/") == "" {
		return ErrContainerRequired
	}
	if cfg.Format != "" && !common.Format(cfg.Format).Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedListFormat, cfg.Format)
	}
	if _, err := ParseOutputFormat(cfg.OutputFormat); err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		if _, err := adapters.ParseLogLevel(cfg.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// DisplayConfig formats the current configuration. The token is masked.
func DisplayConfig(cfg *Config, format OutputFormat) string {
	switch format {
	case FormatJSON:
		return formatConfigJSON(cfg)
	case FormatTable:
		return formatConfigTable(cfg)
	default:
		return formatConfigText(cfg)
	}
}

func formatConfigText(cfg *Config) string {
	var result string
	result += fmt.Sprintf("URL: %s\n", cfg.URL)
	if cfg.Token != "" {
		result += fmt.Sprintf("Token: %s\n", maskSecret(cfg.Token))
	}
	result += fmt.Sprintf("Container: %s\n", cfg.Container)
	result += fmt.Sprintf("Listing Format: %s\n", cfg.Format)
	result += fmt.Sprintf("Timeout: %s\n", cfg.Timeout)
	if cfg.CAFile != "" {
		result += fmt.Sprintf("CA File: %s\n", cfg.CAFile)
	}
	if cfg.Insecure {
		result += "Insecure: true\n"
	}
	if cfg.RateLimit > 0 {
		result += fmt.Sprintf("Rate Limit: %g req/s\n", cfg.RateLimit)
	}
	result += fmt.Sprintf("Detect Content Type: %t\n", cfg.DetectContentType)
	result += fmt.Sprintf("Log Level: %s\n", cfg.LogLevel)
	result += fmt.Sprintf("Output Format: %s\n", cfg.OutputFormat)
	return result
}

func formatConfigTable(cfg *Config) string {
	var result string
	result += "┌──────────────────┬────────────────────────────────────────┐\n"
	result += "│ Setting          │ Value                                  │\n"
	result += "├──────────────────┼────────────────────────────────────────┤\n"
	result += fmt.Sprintf("│ %-16s │ %-38s │\n", "URL", truncate(cfg.URL, 38))
	if cfg.Token != "" {
		result += fmt.Sprintf("│ %-16s │ %-38s │\n", "Token", maskSecret(cfg.Token))
	}
	result += fmt.Sprintf("│ %-16s │ %-38s │\n", "Container", truncate(cfg.Container, 38))
	result += fmt.Sprintf("│ %-16s │ %-38s │\n", "Listing Format", cfg.Format)
	result += fmt.Sprintf("│ %-16s │ %-38s │\n", "Timeout", cfg.Timeout.String())
	if cfg.CAFile != "" {
		result += fmt.Sprintf("│ %-16s │ %-38s │\n", "CA File", truncate(cfg.CAFile, 38))
	}
	if cfg.RateLimit > 0 {
		result += fmt.Sprintf("│ %-16s │ %-38s │\n", "Rate Limit", fmt.Sprintf("%g req/s", cfg.RateLimit))
	}
	result += fmt.Sprintf("│ %-16s │ %-38s │\n", "Output Format", cfg.OutputFormat)
	result += "└──────────────────┴────────────────────────────────────────┘\n"
	return result
}

func formatConfigJSON(cfg *Config) string {
	view := struct {
		URL               string  `json:"url"`
		Token             string  `json:"token,omitempty"`
		Container         string  `json:"container"`
		Format            string  `json:"format"`
		OutputFormat      string  `json:"output_format"`
		LogLevel          string  `json:"log_level"`
		LogFormat         string  `json:"log_format"`
		Timeout           string  `json:"timeout"`
		CAFile            string  `json:"ca_file,omitempty"`
		Insecure          bool    `json:"insecure,omitempty"`
		RateLimit         float64 `json:"rate_limit,omitempty"`
		DetectContentType bool    `json:"detect_content_type"`
	}{
		URL:               cfg.URL,
		Container:         cfg.Container,
		Format:            cfg.Format,
		OutputFormat:      cfg.OutputFormat,
		LogLevel:          cfg.LogLevel,
		LogFormat:         cfg.LogFormat,
		Timeout:           cfg.Timeout.String(),
		CAFile:            cfg.CAFile,
		Insecure:          cfg.Insecure,
		RateLimit:         cfg.RateLimit,
		DetectContentType: cfg.DetectContentType,
	}
	if cfg.Token != "" {
		view.Token = maskSecret(cfg.Token)
	}
	return formatJSON(view)
}

// maskSecret masks sensitive information, showing only first 4 characters.
func maskSecret(s string) string {
	if len(s) < 5 {
		return "****"
	}
	return s[:4] + "****"
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
