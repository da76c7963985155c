// Package objectstore coordinates a blob-storage backend and a separate
// metadata store behind a single facade, and emits lifecycle events for
// every mutation.
//
// The package itself stores nothing. All physical operations are
// delegated to a StoreDriver, all metadata persistence to a
// MetadataDriver, and event delivery to an EventDispatcher; each is
// injected at construction:
//
//	store, err := objectstore.New(
//	    objectstore.WithStoreDriver(memorystorage.New()),
//	    objectstore.WithMetadataDriver(memoryrepo.New()),
//	    objectstore.WithEventDispatcher(objectstore.NewLoggingDispatcher(slog.Default())),
//	)
//
// Every mutating operation follows the same sequence: existence check
// against the store driver, storage mutation, metadata mutation, event
// dispatch. The two drivers are independent; there is no transaction
// spanning them. If the metadata write fails after the storage write
// succeeded, the error is returned and the two stores are left
// diverged. Callers that need stronger guarantees must layer them on
// top (an outbox or compensation step around the facade).
//
// Container and Object values are views, not caches: holding one
// implies nothing about backend existence, which is re-checked on
// every call.
package objectstore
