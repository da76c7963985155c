package objectstore

import (
	"context"
	"io"
)

// StoreDriver performs the physical storage operations. It is the
// source of truth for container and object existence.
type StoreDriver interface {
	// ContainerExists reports whether the container exists in the
	// backend.
	ContainerExists(ctx context.Context, container *Container) (bool, error)

	// CreateContainer creates the container in the backend.
	CreateContainer(ctx context.Context, container *Container) error

	// RemoveContainer removes the container from the backend.
	RemoveContainer(ctx context.Context, container *Container) error

	// ListContainer returns object names within the container matching
	// the options, in backend order.
	ListContainer(ctx context.Context, container *Container, opts ListOptions) ([]string, error)

	// ObjectExists reports whether the object exists in the backend.
	ObjectExists(ctx context.Context, object *Object) (bool, error)

	// UpdateObject writes the object content and records its checksum.
	// Whether a missing object is created or rejected is backend-defined.
	UpdateObject(ctx context.Context, object *Object, content io.Reader, checksum string) error

	// CopyObject copies src into the destination container under the
	// given name and returns the new object.
	CopyObject(ctx context.Context, src *Object, dst *Container, name string) (*Object, error)

	// RemoveObject removes the object from the backend.
	RemoveObject(ctx context.Context, object *Object) error

	// TouchObject refreshes the object's backend timestamp.
	TouchObject(ctx context.Context, object *Object) error

	// ObjectChecksum returns the backend checksum for the object.
	ObjectChecksum(ctx context.Context, object *Object) (string, error)

	// ObjectFile returns a reader over the object content. The caller
	// closes it.
	ObjectFile(ctx context.Context, object *Object) (io.ReadCloser, error)
}

// MetadataDriver persists metadata mappings keyed by container or
// object path.
type MetadataDriver interface {
	// Get returns the metadata stored under path. An unknown path
	// returns an empty mapping, not an error.
	Get(ctx context.Context, path string) (Metadata, error)

	// Set stores the metadata under path, replacing any previous
	// mapping.
	Set(ctx context.Context, path string, md Metadata) error

	// Remove deletes the mapping under path.
	Remove(ctx context.Context, path string) error
}

// EventDispatcher delivers lifecycle events synchronously to whatever
// listeners it manages. The facade never consumes a listener outcome:
// dispatch failures must not fail the triggering operation.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *Event)
}
