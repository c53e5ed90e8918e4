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
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jeremyhahn/go-swiftstore/pkg/adapters"
	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/swift"
	"github.com/jeremyhahn/go-swiftstore/pkg/transport"
	"github.com/jeremyhahn/go-swiftstore/pkg/validation"
)

// CommandContext holds the context for executing commands.
type CommandContext struct {
	Config  *Config
	Logger  adapters.Logger
	Client  *transport.Client
	Storage *swift.Storage

	container *swift.Container
}

// NewCommandContext validates the configuration and builds the transport
// and storage facade. The container itself is opened on first use.
func NewCommandContext(cfg *Config) (*CommandContext, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	level, err := adapters.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := adapters.NewLogger(&adapters.LoggerConfig{
		Writer: os.Stderr,
		Level:  level,
		Format: cfg.LogFormat,
	})

	var tlsConfig *adapters.TLSConfig
	if cfg.CAFile != "" || cfg.Insecure {
		tlsConfig = adapters.NewTLSConfig().
			WithCAFile(cfg.CAFile).
			WithInsecureSkipVerify(cfg.Insecure)
	}

	client, err := transport.New(&transport.Config{
		Timeout:           cfg.Timeout,
		TLS:               tlsConfig,
		RequestsPerSecond: cfg.RateLimit,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	opts := []swift.Option{
		swift.WithFormat(common.Format(cfg.Format)),
		swift.WithLogger(logger),
	}
	if cfg.DetectContentType {
		opts = append(opts, swift.WithContentTypeDetection())
	}

	return &CommandContext{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Storage: swift.NewStorage(client, cfg.URL, swift.AuthToken(cfg.Token), opts...),
	}, nil
}

// Close releases idle connections held by the transport.
func (ctx *CommandContext) Close() error {
	if ctx.Client != nil {
		return ctx.Client.Close()
	}
	return nil
}

// Container opens the configured container, issuing the initial HEAD once.
func (ctx *CommandContext) Container(c context.Context) (*swift.Container, error) {
	if ctx.container != nil {
		return ctx.container, nil
	}
	container, err := ctx.Storage.Container(c, ctx.Config.Container)
	if err != nil {
		if swift.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrContainerNotFound, ctx.Config.Container)
		}
		return nil, err
	}
	ctx.container = container
	return container, nil
}

// InfoCommand returns the container metadata, optionally re-read from the
// service.
func (ctx *CommandContext) InfoCommand(c context.Context, refresh bool) (common.Metadata, error) {
	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}
	return container.GetInfo(c, refresh)
}

// ListCommand returns one listing page as descriptors.
func (ctx *CommandContext) ListCommand(c context.Context, q swift.ListQuery) ([]common.ObjectDescriptor, error) {
	if err := validation.ValidatePrefix(q.Prefix); err != nil {
		return nil, err
	}
	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}

	listing, err := container.ListFiles(c, q)
	if err != nil {
		return nil, err
	}
	switch {
	case listing.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", common.ErrContainerNotFound, ctx.Config.Container)
	case listing.StatusCode >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("%w: list returned %d", ErrUnexpectedStatus, listing.StatusCode)
	}
	return listing.Descriptors()
}

// ListAllCommand pages through the whole plain listing.
func (ctx *CommandContext) ListAllCommand(c context.Context, q swift.ListQuery) ([]common.ObjectDescriptor, error) {
	if err := validation.ValidatePrefix(q.Prefix); err != nil {
		return nil, err
	}
	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}

	objects := make([]common.ObjectDescriptor, 0)
	err = container.Walk(c, q, func(name string) error {
		objects = append(objects, common.ObjectDescriptor{Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

// StatCommand looks up a single object descriptor.
func (ctx *CommandContext) StatCommand(c context.Context, name string) (*swift.FileInfo, error) {
	if err := validation.ValidateObjectName(name); err != nil {
		return nil, err
	}
	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}
	return container.GetFileInfo(c, name)
}

// Conditions are the optional preconditions of a download.
type Conditions struct {
	IfMatch           string
	IfNoneMatch       string
	IfModifiedSince   time.Time
	IfUnmodifiedSince time.Time
}

// Headers renders the set conditions as request headers.
func (cond Conditions) Headers() common.Headers {
	var h common.Headers
	if cond.IfMatch != "" {
		h = append(h, swift.IfMatch(cond.IfMatch))
	}
	if cond.IfNoneMatch != "" {
		h = append(h, swift.IfNoneMatch(cond.IfNoneMatch))
	}
	if !cond.IfModifiedSince.IsZero() {
		h = append(h, swift.IfModifiedSince(cond.IfModifiedSince))
	}
	if !cond.IfUnmodifiedSince.IsZero() {
		h = append(h, swift.IfUnmodifiedSince(cond.IfUnmodifiedSince))
	}
	return h
}

// ParseTime accepts RFC 3339 and HTTP dates for the conditional flags.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return http.ParseTime(s)
}

// GetCommand downloads an object into w. A 304 writes nothing and is not
// an error; callers check Info.StatusCode.
func (ctx *CommandContext) GetCommand(c context.Context, name string, cond Conditions, w io.Writer) (*transport.Info, error) {
	if err := validation.ValidateObjectName(name); err != nil {
		return nil, err
	}
	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}

	result, err := container.GetFile(c, name, cond.Headers())
	if err != nil {
		return nil, err
	}

	switch code := result.Info.StatusCode; {
	case code == http.StatusNotModified:
		return result.Info, nil
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", common.ErrObjectNotFound, name)
	case code == http.StatusPreconditionFailed:
		return nil, fmt.Errorf("%w: %s", ErrPreconditionFailed, name)
	case code >= http.StatusMultipleChoices:
		return nil, fmt.Errorf("%w: get returned %d", ErrUnexpectedStatus, code)
	}

	if _, err := w.Write(result.Body); err != nil {
		return nil, err
	}
	return result.Info, nil
}

// PutCommand uploads a local file. A filePath of "-" streams r instead and
// then requires a name.
func (ctx *CommandContext) PutCommand(c context.Context, filePath, name string, r io.Reader, headers common.Headers) (*transport.Result, error) {
	streaming := filePath == "-"
	if streaming && name == "" {
		return nil, common.ErrNameRequired
	}
	if name != "" {
		if err := validation.ValidateObjectName(name); err != nil {
			return nil, err
		}
	}

	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}
	if streaming {
		return container.PutFileStream(c, r, name, headers)
	}
	return container.PutFile(c, filePath, name, headers)
}

// PutContentsCommand reads r fully and uploads it as one payload.
func (ctx *CommandContext) PutContentsCommand(c context.Context, name string, r io.Reader, headers common.Headers) (*transport.Result, error) {
	if err := validation.ValidateObjectName(name); err != nil {
		return nil, err
	}
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}
	return container.PutFileContents(c, contents, name, headers)
}

// MetaCommand replaces the metadata of an object.
func (ctx *CommandContext) MetaCommand(c context.Context, name string, meta common.Metadata) error {
	if err := validation.ValidateObjectName(name); err != nil {
		return err
	}
	container, err := ctx.Container(c)
	if err != nil {
		return err
	}

	code, err := container.SetFileHeaders(c, name, meta)
	if err != nil {
		return err
	}
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrObjectNotFound, name)
	case code >= http.StatusMultipleChoices:
		return fmt.Errorf("%w: meta returned %d", ErrUnexpectedStatus, code)
	}
	return nil
}

// MkdirCommand creates a pseudo-directory placeholder.
func (ctx *CommandContext) MkdirCommand(c context.Context, name string) (*transport.Info, error) {
	if err := validation.ValidateObjectName(name); err != nil {
		return nil, err
	}
	container, err := ctx.Container(c)
	if err != nil {
		return nil, err
	}

	info, err := container.CreateDirectory(c, name)
	if err != nil {
		return nil, err
	}
	if info.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: mkdir returned %d", ErrUnexpectedStatus, info.StatusCode)
	}
	return info, nil
}

// ParseMetadata turns key=value arguments into metadata.
func ParseMetadata(pairs []string) (common.Metadata, error) {
	meta := make(common.Metadata, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMetadata, pair)
		}
		meta[key] = value
	}
	return meta, nil
}

// ParseHeaders turns raw "Name: value" lines into headers.
func ParseHeaders(lines []string) (common.Headers, error) {
	headers := make(common.Headers, 0, len(lines))
	for _, line := range lines {
		h, err := common.ParseHeaderLine(line)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, nil
}
