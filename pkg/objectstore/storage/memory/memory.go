// Package memory provides an in-memory store driver. It backs tests
// and development setups; nothing survives the process.
package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// Driver is an in-memory implementation of objectstore.StoreDriver.
type Driver struct {
	mu         sync.RWMutex
	containers map[string]struct{}
	objects    map[string][]byte
	checksums  map[string]string
	modified   map[string]time.Time
}

// New creates an empty in-memory store driver.
func New() *Driver {
	return &Driver{
		containers: make(map[string]struct{}),
		objects:    make(map[string][]byte),
		checksums:  make(map[string]string),
		modified:   make(map[string]time.Time),
	}
}

func (d *Driver) ContainerExists(ctx context.Context, container *objectstore.Container) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.containers[container.Name]
	return ok, nil
}

func (d *Driver) CreateContainer(ctx context.Context, container *objectstore.Container) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.containers[container.Name] = struct{}{}
	return nil
}

func (d *Driver) RemoveContainer(ctx context.Context, container *objectstore.Container) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.containers[container.Name]; !ok {
		return errors.New("container not found")
	}

	delete(d.containers, container.Name)
	for path := range d.objects {
		if strings.HasPrefix(path, container.Path()) {
			delete(d.objects, path)
			delete(d.checksums, path)
			delete(d.modified, path)
		}
	}
	return nil
}

// ListContainer returns object names in lexical order. With a
// delimiter, names are rolled up to the first delimiter after the
// prefix, Swift-style.
func (d *Driver) ListContainer(ctx context.Context, container *objectstore.Container, opts objectstore.ListOptions) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.containers[container.Name]; !ok {
		return nil, errors.New("container not found")
	}

	seen := make(map[string]struct{})
	var names []string
	for path := range d.objects {
		if !strings.HasPrefix(path, container.Path()) {
			continue
		}
		name := strings.TrimPrefix(path, container.Path())
		if opts.Prefix != "" && !strings.HasPrefix(name, opts.Prefix) {
			continue
		}
		if opts.Delimiter != "" {
			rest := name[len(opts.Prefix):]
			if i := strings.Index(rest, opts.Delimiter); i >= 0 {
				name = name[:len(opts.Prefix)+i+len(opts.Delimiter)]
			}
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		if opts.Marker != "" && name <= opts.Marker {
			continue
		}
		if opts.EndMarker != "" && name >= opts.EndMarker {
			break
		}
		out = append(out, name)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

func (d *Driver) ObjectExists(ctx context.Context, object *objectstore.Object) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.objects[object.Path()]
	return ok, nil
}

func (d *Driver) UpdateObject(ctx context.Context, object *objectstore.Object, content io.Reader, checksum string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}

	if checksum == "" {
		sum := md5.Sum(data)
		checksum = hex.EncodeToString(sum[:])
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := object.Path()
	d.objects[path] = data
	d.checksums[path] = checksum
	d.modified[path] = time.Now().UTC()
	return nil
}

func (d *Driver) CopyObject(ctx context.Context, src *objectstore.Object, dst *objectstore.Container, name string) (*objectstore.Object, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.objects[src.Path()]
	if !ok {
		return nil, errors.New("object not found")
	}

	object := objectstore.NewObject(dst, name)
	path := object.Path()
	d.objects[path] = append([]byte(nil), data...)
	d.checksums[path] = d.checksums[src.Path()]
	d.modified[path] = time.Now().UTC()
	return object, nil
}

func (d *Driver) RemoveObject(ctx context.Context, object *objectstore.Object) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := object.Path()
	if _, ok := d.objects[path]; !ok {
		return errors.New("object not found")
	}

	delete(d.objects, path)
	delete(d.checksums, path)
	delete(d.modified, path)
	return nil
}

func (d *Driver) TouchObject(ctx context.Context, object *objectstore.Object) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := object.Path()
	if _, ok := d.objects[path]; !ok {
		return errors.New("object not found")
	}

	d.modified[path] = time.Now().UTC()
	return nil
}

func (d *Driver) ObjectChecksum(ctx context.Context, object *objectstore.Object) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	checksum, ok := d.checksums[object.Path()]
	if !ok {
		return "", errors.New("object not found")
	}
	return checksum, nil
}

func (d *Driver) ObjectFile(ctx context.Context, object *objectstore.Object) (io.ReadCloser, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.objects[object.Path()]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Modified reports the recorded modification time for an object path.
// Test helper.
func (d *Driver) Modified(path string) (time.Time, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.modified[path]
	return t, ok
}
