package objectstore

import (
	"context"
	"errors"
	"io"
)

// store implements the Store interface.
type store struct {
	driver   StoreDriver
	metadata MetadataDriver
	events   EventDispatcher
}

// Option represents a functional option for configuring the store.
type Option func(*store)

// WithStoreDriver sets the storage backend driver.
func WithStoreDriver(driver StoreDriver) Option {
	return func(s *store) {
		s.driver = driver
	}
}

// WithMetadataDriver sets the metadata persistence driver.
func WithMetadataDriver(md MetadataDriver) Option {
	return func(s *store) {
		s.metadata = md
	}
}

// WithEventDispatcher sets the event dispatcher. Without this option
// events are discarded.
func WithEventDispatcher(d EventDispatcher) Option {
	return func(s *store) {
		s.events = d
	}
}

// New creates a store instance with the given options. A store driver
// and a metadata driver are required.
func New(options ...Option) (Store, error) {
	s := &store{
		events: NewNoopDispatcher(),
	}

	for _, option := range options {
		option(s)
	}

	if s.driver == nil {
		return nil, errors.New("store driver is required")
	}
	if s.metadata == nil {
		return nil, errors.New("metadata driver is required")
	}

	return s, nil
}

// Container operations

func (s *store) GetContainer(ctx context.Context, name string) (*Container, error) {
	container := NewContainer(name)

	exists, err := s.driver.ContainerExists(ctx, container)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	md, err := s.metadata.Get(ctx, container.Path())
	if err != nil {
		return nil, err
	}
	container.Metadata = md

	return container, nil
}

func (s *store) ContainerExists(ctx context.Context, ref ContainerRef) (bool, error) {
	container, err := ref.resolve()
	if err != nil {
		return false, err
	}
	return s.driver.ContainerExists(ctx, container)
}

func (s *store) CreateContainer(ctx context.Context, container *Container) error {
	exists, err := s.driver.ContainerExists(ctx, container)
	if err != nil {
		return err
	}
	if exists {
		return &ContainerError{Name: container.Name, Op: "create", Err: ErrContainerExists}
	}

	if err := s.driver.CreateContainer(ctx, container); err != nil {
		return err
	}
	if err := s.metadata.Set(ctx, container.Path(), container.Metadata); err != nil {
		return err
	}

	s.events.Dispatch(ctx, newContainerEvent(EventCreateContainer, container))
	return nil
}

func (s *store) UpdateContainer(ctx context.Context, container *Container) error {
	exists, err := s.driver.ContainerExists(ctx, container)
	if err != nil {
		return err
	}
	if !exists {
		return &ContainerError{Name: container.Name, Op: "update", Err: ErrContainerNotFound}
	}

	if err := s.metadata.Set(ctx, container.Path(), container.Metadata); err != nil {
		return err
	}

	s.events.Dispatch(ctx, newContainerEvent(EventUpdateContainer, container))
	return nil
}

func (s *store) RemoveContainer(ctx context.Context, container *Container) error {
	exists, err := s.driver.ContainerExists(ctx, container)
	if err != nil {
		return err
	}
	if !exists {
		return &ContainerError{Name: container.Name, Op: "remove", Err: ErrContainerNotFound}
	}

	if err := s.driver.RemoveContainer(ctx, container); err != nil {
		return err
	}
	if err := s.metadata.Remove(ctx, container.Path()); err != nil {
		return err
	}

	s.events.Dispatch(ctx, newContainerEvent(EventRemoveContainer, container))
	return nil
}

func (s *store) ListContainer(ctx context.Context, container *Container, opts ListOptions) ([]*Object, error) {
	exists, err := s.driver.ContainerExists(ctx, container)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &ContainerError{Name: container.Name, Op: "list", Err: ErrContainerNotFound}
	}

	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}

	names, err := s.driver.ListContainer(ctx, container, opts)
	if err != nil {
		return nil, err
	}

	// One metadata fetch per listed name; backend ordering is kept.
	objects := make([]*Object, 0, len(names))
	for _, name := range names {
		object := NewObject(container, name)
		md, err := s.metadata.Get(ctx, object.Path())
		if err != nil {
			return nil, err
		}
		object.Metadata = md
		objects = append(objects, object)
	}

	return objects, nil
}

// Object operations

func (s *store) ObjectExists(ctx context.Context, ref ContainerRef, name string) (bool, error) {
	container, err := ref.resolve()
	if err != nil {
		return false, err
	}
	return s.driver.ObjectExists(ctx, NewObject(container, name))
}

func (s *store) GetObject(ctx context.Context, ref ContainerRef, name string) (*Object, error) {
	container, err := ref.resolve()
	if err != nil {
		return nil, err
	}

	object := NewObject(container, name)
	exists, err := s.driver.ObjectExists(ctx, object)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	md, err := s.metadata.Get(ctx, object.Path())
	if err != nil {
		return nil, err
	}
	object.Metadata = md

	return object, nil
}

func (s *store) UpdateObject(ctx context.Context, object *Object, content io.Reader, checksum string) error {
	if content != nil {
		if err := s.driver.UpdateObject(ctx, object, content, checksum); err != nil {
			return err
		}
	}

	// Metadata is persisted whether or not content was supplied.
	if err := s.metadata.Set(ctx, object.Path(), object.Metadata); err != nil {
		return err
	}

	s.events.Dispatch(ctx, newObjectEvent(EventUpdateObject, object))
	return nil
}

func (s *store) CopyObject(ctx context.Context, src *Object, dst *Container, name string, extra Metadata) (*Object, error) {
	exists, err := s.driver.ObjectExists(ctx, src)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &ObjectError{Path: src.Path(), Op: "copy", Err: ErrObjectNotFound}
	}

	object, err := s.driver.CopyObject(ctx, src, dst, name)
	if err != nil {
		return nil, err
	}

	srcMeta, err := s.metadata.Get(ctx, src.Path())
	if err != nil {
		return nil, err
	}
	md := srcMeta.Copy()
	md.Merge(extra)
	object.Metadata = md

	if err := s.metadata.Set(ctx, object.Path(), md); err != nil {
		return nil, err
	}

	s.events.Dispatch(ctx, newObjectEvent(EventCopyObject, object))
	return object, nil
}

func (s *store) RemoveObject(ctx context.Context, object *Object) error {
	exists, err := s.driver.ObjectExists(ctx, object)
	if err != nil {
		return err
	}
	if !exists {
		return &ObjectError{Path: object.Path(), Op: "remove", Err: ErrObjectNotFound}
	}

	if err := s.driver.RemoveObject(ctx, object); err != nil {
		return err
	}
	if err := s.metadata.Remove(ctx, object.Path()); err != nil {
		return err
	}

	s.events.Dispatch(ctx, newObjectEvent(EventRemoveObject, object))
	return nil
}

func (s *store) TouchObject(ctx context.Context, object *Object) error {
	exists, err := s.driver.ObjectExists(ctx, object)
	if err != nil {
		return err
	}
	if !exists {
		return &ObjectError{Path: object.Path(), Op: "touch", Err: ErrObjectNotFound}
	}

	return s.driver.TouchObject(ctx, object)
}

func (s *store) ObjectChecksum(ctx context.Context, object *Object) (string, error) {
	return s.driver.ObjectChecksum(ctx, object)
}

func (s *store) ObjectFile(ctx context.Context, object *Object) (io.ReadCloser, error) {
	return s.driver.ObjectFile(ctx, object)
}
