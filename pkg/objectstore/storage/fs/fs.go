// Package fs provides a filesystem store driver. Containers are
// directories under a base directory; objects are files within them.
package fs

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

// Config options for the filesystem driver.
type Config struct {
	BaseDir string // Base directory for containers
}

// Driver is a filesystem implementation of objectstore.StoreDriver.
type Driver struct {
	baseDir string
}

// New creates a filesystem store driver rooted at the configured base
// directory, creating it when missing.
func New(config Config) (*Driver, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Driver{baseDir: config.BaseDir}, nil
}

func (d *Driver) containerDir(container *objectstore.Container) string {
	return filepath.Join(d.baseDir, container.Name)
}

func (d *Driver) objectFile(object *objectstore.Object) string {
	return filepath.Join(d.containerDir(object.Container), filepath.FromSlash(object.Name))
}

func (d *Driver) ContainerExists(ctx context.Context, container *objectstore.Container) (bool, error) {
	info, err := os.Stat(d.containerDir(container))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (d *Driver) CreateContainer(ctx context.Context, container *objectstore.Container) error {
	return os.MkdirAll(d.containerDir(container), 0755)
}

func (d *Driver) RemoveContainer(ctx context.Context, container *objectstore.Container) error {
	dir := d.containerDir(container)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return errors.New("container not found")
	}
	return os.RemoveAll(dir)
}

// ListContainer walks the container directory and returns the
// slash-separated object names in lexical order, filtered by the
// options. With a delimiter, names are rolled up to the first
// delimiter after the prefix.
func (d *Driver) ListContainer(ctx context.Context, container *objectstore.Container, opts objectstore.ListOptions) ([]string, error) {
	dir := d.containerDir(container)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, errors.New("container not found")
	}

	seen := make(map[string]struct{})
	var names []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if opts.Prefix != "" && !strings.HasPrefix(name, opts.Prefix) {
			return nil
		}
		if opts.Delimiter != "" {
			rest := name[len(opts.Prefix):]
			if i := strings.Index(rest, opts.Delimiter); i >= 0 {
				name = name[:len(opts.Prefix)+i+len(opts.Delimiter)]
			}
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
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
	info, err := os.Stat(d.objectFile(object))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// UpdateObject writes the content to disk. When a checksum is supplied
// it is verified against the written bytes; a mismatch removes the
// file and fails.
func (d *Driver) UpdateObject(ctx context.Context, object *objectstore.Object, content io.Reader, checksum string) error {
	path := d.objectFile(object)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	hash := md5.New()
	if _, err := io.Copy(io.MultiWriter(file, hash), content); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	if checksum != "" {
		if sum := hex.EncodeToString(hash.Sum(nil)); sum != checksum {
			os.Remove(path)
			return fmt.Errorf("checksum mismatch: got %s, want %s", sum, checksum)
		}
	}

	return nil
}

func (d *Driver) CopyObject(ctx context.Context, src *objectstore.Object, dst *objectstore.Container, name string) (*objectstore.Object, error) {
	in, err := os.Open(d.objectFile(src))
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	}
	if err != nil {
		return nil, err
	}
	defer in.Close()

	object := objectstore.NewObject(dst, name)
	path := d.objectFile(object)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}

	return object, nil
}

func (d *Driver) RemoveObject(ctx context.Context, object *objectstore.Object) error {
	path := d.objectFile(object)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.New("object not found")
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	// Keep the container directory itself, even when it ends up empty.
	d.cleanupEmptyDirectories(filepath.Dir(path), d.containerDir(object.Container))
	return nil
}

func (d *Driver) TouchObject(ctx context.Context, object *objectstore.Object) error {
	path := d.objectFile(object)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.New("object not found")
	}

	now := time.Now()
	return os.Chtimes(path, now, now)
}

// ObjectChecksum computes the MD5 of the file content.
func (d *Driver) ObjectChecksum(ctx context.Context, object *objectstore.Object) (string, error) {
	file, err := os.Open(d.objectFile(object))
	if os.IsNotExist(err) {
		return "", errors.New("object not found")
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func (d *Driver) ObjectFile(ctx context.Context, object *objectstore.Object) (io.ReadCloser, error) {
	file, err := os.Open(d.objectFile(object))
	if os.IsNotExist(err) {
		return nil, errors.New("object not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// cleanupEmptyDirectories removes empty directories up to, but not
// including, floor.
func (d *Driver) cleanupEmptyDirectories(dir, floor string) {
	if dir == floor || !strings.HasPrefix(dir, floor) {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			d.cleanupEmptyDirectories(filepath.Dir(dir), floor)
		}
	}
}
