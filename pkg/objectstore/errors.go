package objectstore

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the facade. Driver and metadata-store
// failures are never translated; they propagate to the caller as-is.
var (
	// ErrInvalidContainerRef indicates a container parameter that is
	// neither a name nor a container value.
	ErrInvalidContainerRef = errors.New("invalid container reference")

	// ErrContainerExists indicates a create for a container the backend
	// already has.
	ErrContainerExists = errors.New("container already exists")

	// ErrContainerNotFound indicates a mutation against a container the
	// backend reports absent.
	ErrContainerNotFound = errors.New("container not found")

	// ErrObjectNotFound indicates a mutation against an object the
	// backend reports absent.
	ErrObjectNotFound = errors.New("object not found")
)

// ContainerError wraps a container operation failure with its context.
type ContainerError struct {
	Name string
	Op   string
	Err  error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("container operation %s failed for %q: %v", e.Op, e.Name, e.Err)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// ObjectError wraps an object operation failure with its context.
type ObjectError struct {
	Path string
	Op   string
	Err  error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("object operation %s failed for %q: %v", e.Op, e.Path, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}
