package objectstore

// Metadata is a key/value annotation map stored separately from object
// content.
type Metadata map[string]string

// Merge copies entries from other into m. Entries from other win on
// key conflicts.
func (m Metadata) Merge(other Metadata) {
	for k, v := range other {
		m[k] = v
	}
}

// Copy returns an independent copy of m. A nil map copies to an empty,
// writable map.
func (m Metadata) Copy() Metadata {
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Container identifies a logical bucket grouping objects. It is a
// transient value; persistence is delegated to the drivers.
type Container struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// NewContainer returns a container value for the given name.
func NewContainer(name string) *Container {
	return &Container{Name: name, Metadata: Metadata{}}
}

// Path returns the storage key prefix for the container.
func (c *Container) Path() string {
	return c.Name + "/"
}

// Object identifies a named item within a container.
type Object struct {
	Container *Container `json:"container"`
	Name      string     `json:"name"`
	Metadata  Metadata   `json:"metadata,omitempty"`
}

// NewObject returns an object value for the given container and name.
func NewObject(container *Container, name string) *Object {
	return &Object{Container: container, Name: name, Metadata: Metadata{}}
}

// Path returns the storage key for the object: the container path
// followed by the object name.
func (o *Object) Path() string {
	return o.Container.Path() + o.Name
}

// ContainerRef identifies a container either by name or by value. It is
// the boundary type for operations that accept both forms; the ref is
// resolved once at the top of each operation.
type ContainerRef struct {
	name      string
	container *Container
}

// ByName references a container by its name.
func ByName(name string) ContainerRef {
	return ContainerRef{name: name}
}

// ByContainer references a container by value.
func ByContainer(container *Container) ContainerRef {
	return ContainerRef{container: container}
}

// resolve normalizes the ref into a container value. A zero ref yields
// ErrInvalidContainerRef.
func (r ContainerRef) resolve() (*Container, error) {
	switch {
	case r.container != nil:
		return r.container, nil
	case r.name != "":
		return NewContainer(r.name), nil
	}
	return nil, ErrInvalidContainerRef
}

// DefaultListLimit caps ListContainer results when the caller does not
// set an explicit limit.
const DefaultListLimit = 10000

// ListOptions narrows and pages the results of ListContainer. Zero
// values mean no constraint; a zero Limit applies DefaultListLimit.
// Range and delimiter semantics are defined by the store driver.
type ListOptions struct {
	Prefix    string
	Delimiter string
	Marker    string
	EndMarker string
	Limit     int
}
