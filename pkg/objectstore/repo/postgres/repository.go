// Package postgres provides a metadata driver backed by PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE object_metadata (
//	    path       TEXT PRIMARY KEY,
//	    metadata   JSONB NOT NULL DEFAULT '{}',
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// DBTX is satisfied by both a pgx pool and a transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Driver implements objectstore.MetadataDriver using PostgreSQL.
type Driver struct {
	db DBTX
}

// New creates a PostgreSQL metadata driver.
func New(db DBTX) *Driver {
	return &Driver{db: db}
}

// NewWithPool creates a PostgreSQL metadata driver from a connection
// pool.
func NewWithPool(pool *pgxpool.Pool) *Driver {
	return &Driver{db: pool}
}

// Get returns the metadata stored under path. Unknown paths return an
// empty mapping.
func (d *Driver) Get(ctx context.Context, path string) (objectstore.Metadata, error) {
	query := `SELECT metadata FROM object_metadata WHERE path = $1`

	var md objectstore.Metadata
	err := d.db.QueryRow(ctx, query, path).Scan(&md)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return objectstore.Metadata{}, nil
		}
		return nil, fmt.Errorf("failed to get metadata for %q: %w", path, err)
	}
	if md == nil {
		md = objectstore.Metadata{}
	}
	return md, nil
}

// Set upserts the metadata mapping under path.
func (d *Driver) Set(ctx context.Context, path string, md objectstore.Metadata) error {
	query := `
		INSERT INTO object_metadata (path, metadata, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (path) DO UPDATE SET metadata = $2, updated_at = $3`

	if md == nil {
		md = objectstore.Metadata{}
	}
	_, err := d.db.Exec(ctx, query, path, md, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set metadata for %q: %w", path, err)
	}
	return nil
}

// Remove deletes the mapping under path. Removing an unknown path is
// not an error.
func (d *Driver) Remove(ctx context.Context, path string) error {
	query := `DELETE FROM object_metadata WHERE path = $1`

	_, err := d.db.Exec(ctx, query, path)
	if err != nil {
		return fmt.Errorf("failed to remove metadata for %q: %w", path, err)
	}
	return nil
}
