package objectstore

import (
	"context"
	"io"
)

// Store is the coordination facade over a store driver and a metadata
// driver. Every mutation re-checks existence against the store driver,
// applies the storage then the metadata change, and dispatches one
// event.
type Store interface {
	// GetContainer returns the container with its metadata loaded, or
	// nil without error when the backend does not have it.
	GetContainer(ctx context.Context, name string) (*Container, error)

	// ContainerExists reports backend existence for the referenced
	// container.
	ContainerExists(ctx context.Context, ref ContainerRef) (bool, error)

	// CreateContainer creates the container and persists its metadata.
	// Fails with ErrContainerExists when the backend already has it.
	CreateContainer(ctx context.Context, container *Container) error

	// UpdateContainer overwrites the container metadata. The storage
	// side of a container is never touched. Fails with
	// ErrContainerNotFound when absent.
	UpdateContainer(ctx context.Context, container *Container) error

	// RemoveContainer removes the container and its metadata. Fails
	// with ErrContainerNotFound when absent.
	RemoveContainer(ctx context.Context, container *Container) error

	// ListContainer returns the container's objects matching opts, in
	// backend order, each with metadata loaded. Fails with
	// ErrContainerNotFound when the container is absent.
	ListContainer(ctx context.Context, container *Container, opts ListOptions) ([]*Object, error)

	// ObjectExists reports backend existence for the named object.
	ObjectExists(ctx context.Context, ref ContainerRef, name string) (bool, error)

	// GetObject returns the object with its metadata loaded, or nil
	// without error when the backend does not have it.
	GetObject(ctx context.Context, ref ContainerRef, name string) (*Object, error)

	// UpdateObject writes content (when the reader is non-nil) and
	// always persists the object metadata. There is no existence
	// precheck; create-or-update behavior is whatever the store driver
	// does for a missing object.
	UpdateObject(ctx context.Context, object *Object, content io.Reader, checksum string) error

	// CopyObject copies src into dst under name, carrying over the
	// source's persisted metadata with extra merged on top (extra wins
	// on conflicts). Fails with ErrObjectNotFound when src is absent.
	CopyObject(ctx context.Context, src *Object, dst *Container, name string, extra Metadata) (*Object, error)

	// RemoveObject removes the object and its metadata. Fails with
	// ErrObjectNotFound when absent.
	RemoveObject(ctx context.Context, object *Object) error

	// TouchObject refreshes the object's backend timestamp. No
	// metadata write, no event. Fails with ErrObjectNotFound when
	// absent.
	TouchObject(ctx context.Context, object *Object) error

	// ObjectChecksum returns the driver checksum for the object.
	ObjectChecksum(ctx context.Context, object *Object) (string, error)

	// ObjectFile returns a reader over the object content. The caller
	// closes it.
	ObjectFile(ctx context.Context, object *Object) (io.ReadCloser, error)
}
