// Package memory provides an in-memory metadata driver. It backs
// tests and development setups; nothing survives the process.
package memory

import (
	"context"
	"sync"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// Driver implements objectstore.MetadataDriver using in-memory maps.
type Driver struct {
	mu       sync.RWMutex
	metadata map[string]objectstore.Metadata
}

// New creates an empty in-memory metadata driver.
func New() *Driver {
	return &Driver{
		metadata: make(map[string]objectstore.Metadata),
	}
}

// Get returns the metadata for path. Unknown paths return an empty
// mapping.
func (d *Driver) Get(ctx context.Context, path string) (objectstore.Metadata, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	md, ok := d.metadata[path]
	if !ok {
		return objectstore.Metadata{}, nil
	}
	// Copy out to prevent external modification.
	return md.Copy(), nil
}

// Set stores a copy of the metadata under path.
func (d *Driver) Set(ctx context.Context, path string, md objectstore.Metadata) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.metadata[path] = md.Copy()
	return nil
}

// Remove deletes the mapping under path. Removing an unknown path is
// not an error.
func (d *Driver) Remove(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.metadata, path)
	return nil
}
