package fs

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
)

func newTestDriver(t *testing.T) *Driver {
	t.Helper()

	driver, err := New(Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return driver
}

func TestNew(t *testing.T) {
	t.Run("MissingBaseDir", func(t *testing.T) {
		driver, err := New(Config{})
		assert.Error(t, err)
		assert.Nil(t, driver)
	})

	t.Run("CreatesBaseDir", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "nested", "store")
		_, err := New(Config{BaseDir: base})
		require.NoError(t, err)

		info, err := os.Stat(base)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestContainerLifecycle(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	container := objectstore.NewContainer("photos")

	exists, err := driver.ContainerExists(ctx, container)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, driver.CreateContainer(ctx, container))

	exists, err = driver.ContainerExists(ctx, container)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, driver.RemoveContainer(ctx, container))

	exists, err = driver.ContainerExists(ctx, container)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Error(t, driver.RemoveContainer(ctx, container))
}

func TestObjectLifecycle(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	container := objectstore.NewContainer("photos")
	require.NoError(t, driver.CreateContainer(ctx, container))

	object := objectstore.NewObject(container, "2024/a.jpg")
	content := "image-bytes"

	require.NoError(t, driver.UpdateObject(ctx, object, strings.NewReader(content), ""))

	exists, err := driver.ObjectExists(ctx, object)
	require.NoError(t, err)
	assert.True(t, exists)

	file, err := driver.ObjectFile(ctx, object)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, content, string(data))

	sum := md5.Sum([]byte(content))
	checksum, err := driver.ObjectChecksum(ctx, object)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), checksum)

	require.NoError(t, driver.RemoveObject(ctx, object))

	exists, err = driver.ObjectExists(ctx, object)
	require.NoError(t, err)
	assert.False(t, exists)

	// The intermediate 2024/ directory got cleaned up, the container
	// directory itself stays.
	exists, err = driver.ContainerExists(ctx, container)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Error(t, driver.RemoveObject(ctx, object))
}

func TestUpdateObjectChecksumVerification(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	container := objectstore.NewContainer("c")
	require.NoError(t, driver.CreateContainer(ctx, container))

	content := "payload"
	sum := md5.Sum([]byte(content))
	object := objectstore.NewObject(container, "o")

	t.Run("Match", func(t *testing.T) {
		err := driver.UpdateObject(ctx, object, strings.NewReader(content), hex.EncodeToString(sum[:]))
		assert.NoError(t, err)
	})

	t.Run("MismatchRemovesFile", func(t *testing.T) {
		bad := objectstore.NewObject(container, "bad")
		err := driver.UpdateObject(ctx, bad, strings.NewReader(content), "deadbeef")
		require.Error(t, err)

		exists, err := driver.ObjectExists(ctx, bad)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCopyObject(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	src := objectstore.NewContainer("src")
	dst := objectstore.NewContainer("dst")
	require.NoError(t, driver.CreateContainer(ctx, src))
	require.NoError(t, driver.CreateContainer(ctx, dst))

	source := objectstore.NewObject(src, "orig")
	require.NoError(t, driver.UpdateObject(ctx, source, strings.NewReader("body"), ""))

	copied, err := driver.CopyObject(ctx, source, dst, "nested/copy")
	require.NoError(t, err)
	assert.Equal(t, "dst/nested/copy", copied.Path())

	file, err := driver.ObjectFile(ctx, copied)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "body", string(data))

	_, err = driver.CopyObject(ctx, objectstore.NewObject(src, "missing"), dst, "copy")
	assert.Error(t, err)
}

func TestTouchObject(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	container := objectstore.NewContainer("c")
	require.NoError(t, driver.CreateContainer(ctx, container))

	object := objectstore.NewObject(container, "o")
	require.NoError(t, driver.UpdateObject(ctx, object, strings.NewReader("x"), ""))

	path := filepath.Join(driver.baseDir, "c", "o")
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, old, old))

	require.NoError(t, driver.TouchObject(ctx, object))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(old))

	assert.Error(t, driver.TouchObject(ctx, objectstore.NewObject(container, "missing")))
}

func TestListContainer(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)
	container := objectstore.NewContainer("c")
	require.NoError(t, driver.CreateContainer(ctx, container))

	for _, name := range []string{"a/1", "a/2", "b/1", "c"} {
		object := objectstore.NewObject(container, name)
		require.NoError(t, driver.UpdateObject(ctx, object, strings.NewReader(name), ""))
	}

	tests := []struct {
		name string
		opts objectstore.ListOptions
		want []string
	}{
		{
			name: "all sorted",
			opts: objectstore.ListOptions{},
			want: []string{"a/1", "a/2", "b/1", "c"},
		},
		{
			name: "prefix",
			opts: objectstore.ListOptions{Prefix: "a/"},
			want: []string{"a/1", "a/2"},
		},
		{
			name: "delimiter rolls up",
			opts: objectstore.ListOptions{Delimiter: "/"},
			want: []string{"a/", "b/", "c"},
		},
		{
			name: "marker and limit",
			opts: objectstore.ListOptions{Marker: "a/1", Limit: 2},
			want: []string{"a/2", "b/1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := driver.ListContainer(ctx, container, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}

	_, err := driver.ListContainer(ctx, objectstore.NewContainer("missing"), objectstore.ListOptions{})
	assert.Error(t, err)
}
