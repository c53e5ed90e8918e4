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

// Package memory provides an in-memory storage account: containers holding
// objects with their content type, checksum and metadata. It backs the
// development server and the end-to-end tests of the client.
package memory

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // the ETag of a stored object is its MD5 digest
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeremyhahn/go-swiftstore/pkg/common"
	"github.com/jeremyhahn/go-swiftstore/pkg/validation"
)

const (
	// DefaultContentType is recorded when an object is stored without one.
	DefaultContentType = "application/octet-stream"

	// DefaultListLimit caps listings without an explicit limit.
	DefaultListLimit = 10000
)

// object represents a stored object with its data and metadata.
type object struct {
	data         []byte
	contentType  string
	etag         string
	lastModified time.Time
	metadata     common.Metadata
}

func (o *object) info(name string) *ObjectInfo {
	return &ObjectInfo{
		Name:         name,
		Bytes:        int64(len(o.data)),
		ETag:         o.etag,
		ContentType:  o.contentType,
		LastModified: o.lastModified,
		Metadata:     o.metadata.Clone(),
	}
}

type container struct {
	metadata common.Metadata
	objects  map[string]*object
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name         string
	Bytes        int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     common.Metadata
}

// Descriptor converts the info into a listing entry.
func (i *ObjectInfo) Descriptor() common.ObjectDescriptor {
	return common.ObjectDescriptor{
		Name:         i.Name,
		Hash:         i.ETag,
		Bytes:        i.Bytes,
		ContentType:  i.ContentType,
		LastModified: i.LastModified.UTC().Format(common.SwiftTimeLayout),
	}
}

// ContainerInfo summarizes a container.
type ContainerInfo struct {
	Name        string
	ObjectCount int
	BytesUsed   int64
	Metadata    common.Metadata
}

// ListOptions selects and pages a container listing. Path returns the
// direct children of a pseudo-directory and takes precedence over Prefix
// and Delimiter.
type ListOptions struct {
	Prefix    string
	Marker    string
	Delimiter string
	Path      string
	Limit     int
}

// Account is an in-memory storage account.
type Account struct {
	mu         sync.RWMutex
	containers map[string]*container
	now        func() time.Time
}

// New creates an empty account.
func New() *Account {
	return &Account{
		containers: make(map[string]*container),
		now:        time.Now,
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// lookup returns the named container. Callers hold the lock.
func (a *Account) lookup(name string) (*container, error) {
	c, ok := a.containers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrContainerNotFound, name)
	}
	return c, nil
}

// CreateContainer creates the container or, when it exists, merges meta
// into its metadata. It reports whether the container was created.
func (a *Account) CreateContainer(ctx context.Context, name string, meta common.Metadata) (bool, error) {
	if err := validation.ValidateContainerName(name); err != nil {
		return false, err
	}
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.containers[name]; ok {
		for k, v := range meta {
			c.metadata[k] = v
		}
		return false, nil
	}

	a.containers[name] = &container{
		metadata: meta.Clone(),
		objects:  make(map[string]*object),
	}
	return true, nil
}

// UpdateContainerMetadata merges meta into the container metadata. Keys
// with an empty value are removed.
func (a *Account) UpdateContainerMetadata(ctx context.Context, name string, meta common.Metadata) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	for k, v := range meta {
		if v == "" {
			delete(c.metadata, k)
			continue
		}
		c.metadata[k] = v
	}
	return nil
}

// ContainerInfo returns the container statistics and metadata.
func (a *Account) ContainerInfo(ctx context.Context, name string) (*ContainerInfo, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	c, err := a.lookup(name)
	if err != nil {
		return nil, err
	}

	info := &ContainerInfo{
		Name:        name,
		ObjectCount: len(c.objects),
		Metadata:    c.metadata.Clone(),
	}
	for _, obj := range c.objects {
		info.BytesUsed += int64(len(obj.data))
	}
	return info, nil
}

// DeleteContainer removes an empty container.
func (a *Account) DeleteContainer(ctx context.Context, name string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.lookup(name)
	if err != nil {
		return err
	}
	if len(c.objects) > 0 {
		return fmt.Errorf("%w: %s", ErrContainerNotEmpty, name)
	}
	delete(a.containers, name)
	return nil
}

// Containers returns the sorted container names.
func (a *Account) Containers() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.containers))
	for name := range a.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Put stores an object, replacing any previous version and its metadata.
func (a *Account) Put(ctx context.Context, containerName, name string, data io.Reader, contentType string, meta common.Metadata) (*ObjectInfo, error) {
	if err := validation.ValidateObjectName(name); err != nil {
		return nil, err
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	// Read all data from the reader
	dataBytes, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = DefaultContentType
	}

	sum := md5.Sum(dataBytes) //nolint:gosec // ETag
	obj := &object{
		data:         dataBytes,
		contentType:  contentType,
		etag:         hex.EncodeToString(sum[:]),
		lastModified: a.now().UTC().Truncate(time.Microsecond),
		metadata:     meta.Clone(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.lookup(containerName)
	if err != nil {
		return nil, err
	}
	c.objects[name] = obj
	return obj.info(name), nil
}

// Get returns a copy of the object data together with its info.
func (a *Account) Get(ctx context.Context, containerName, name string) ([]byte, *ObjectInfo, error) {
	if err := checkContext(ctx); err != nil {
		return nil, nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	obj, err := a.object(containerName, name)
	if err != nil {
		return nil, nil, err
	}

	// Return a copy of the data to prevent mutation
	return bytes.Clone(obj.data), obj.info(name), nil
}

// Head returns the object info.
func (a *Account) Head(ctx context.Context, containerName, name string) (*ObjectInfo, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	obj, err := a.object(containerName, name)
	if err != nil {
		return nil, err
	}
	return obj.info(name), nil
}

// SetMetadata replaces the object metadata. Data, checksum and content
// type are kept.
func (a *Account) SetMetadata(ctx context.Context, containerName, name string, meta common.Metadata) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	obj, err := a.object(containerName, name)
	if err != nil {
		return err
	}

	obj.metadata = meta.Clone()
	obj.lastModified = a.now().UTC().Truncate(time.Microsecond)
	return nil
}

// Delete removes an object.
func (a *Account) Delete(ctx context.Context, containerName, name string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.lookup(containerName)
	if err != nil {
		return err
	}
	if _, ok := c.objects[name]; !ok {
		return fmt.Errorf("%w: %s", common.ErrObjectNotFound, name)
	}
	delete(c.objects, name)
	return nil
}

// object returns the named object. Callers hold the lock.
func (a *Account) object(containerName, name string) (*object, error) {
	c, err := a.lookup(containerName)
	if err != nil {
		return nil, err
	}
	obj, ok := c.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrObjectNotFound, name)
	}
	return obj, nil
}

// List returns the sorted entries of a container that sort after the
// marker. With a delimiter, names sharing the part of the name up to the
// next delimiter collapse into one pseudo-directory entry.
func (a *Account) List(ctx context.Context, containerName string, opts ListOptions) ([]common.ObjectDescriptor, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	prefix, delimiter := opts.Prefix, opts.Delimiter
	if opts.Path != "" {
		prefix = strings.TrimSuffix(opts.Path, "/") + "/"
		delimiter = ""
	}

	limit := opts.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	c, err := a.lookup(containerName)
	if err != nil {
		return nil, err
	}

	// Get all matching keys and sort them
	names := make([]string, 0, len(c.objects))
	for name := range c.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	entries := make([]common.ObjectDescriptor, 0)
	seen := make(map[string]bool)
	for _, name := range names {
		if len(entries) == limit {
			break
		}
		remainder := strings.TrimPrefix(name, prefix)

		if opts.Path != "" && strings.Contains(strings.TrimSuffix(remainder, "/"), "/") {
			continue
		}

		// Handle delimiter
		if delimiter != "" {
			if idx := strings.Index(remainder, delimiter); idx >= 0 && idx+len(delimiter) < len(remainder) {
				dir := prefix + remainder[:idx+len(delimiter)]
				if dir > opts.Marker && !seen[dir] {
					seen[dir] = true
					entries = append(entries, common.ObjectDescriptor{Subdir: dir})
				}
				continue
			}
		}

		if name <= opts.Marker {
			continue
		}
		entries = append(entries, c.objects[name].info(name).Descriptor())
	}
	return entries, nil
}

// Clear removes all containers. This is useful for testing.
func (a *Account) Clear() {
	a.mu.Lock()
	a.containers = make(map[string]*container)
	a.mu.Unlock()
}

// Count returns the number of objects across all containers.
func (a *Account) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := 0
	for _, c := range a.containers {
		n += len(c.objects)
	}
	return n
}
