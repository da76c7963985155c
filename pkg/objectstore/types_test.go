package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	container := NewContainer("photos")
	assert.Equal(t, "photos/", container.Path())

	object := NewObject(container, "2024/a.jpg")
	assert.Equal(t, "photos/2024/a.jpg", object.Path())
}

func TestMetadataMerge(t *testing.T) {
	base := Metadata{"color": "red", "size": "small"}
	base.Merge(Metadata{"size": "large", "shape": "round"})

	assert.Equal(t, Metadata{
		"color": "red",
		"size":  "large",
		"shape": "round",
	}, base)
}

func TestMetadataCopy(t *testing.T) {
	t.Run("Independent", func(t *testing.T) {
		original := Metadata{"k": "v"}
		copied := original.Copy()
		copied["k"] = "changed"

		assert.Equal(t, "v", original["k"])
	})

	t.Run("NilCopiesToWritable", func(t *testing.T) {
		var original Metadata
		copied := original.Copy()
		require.NotNil(t, copied)
		copied["k"] = "v"

		assert.Equal(t, "v", copied["k"])
	})
}

func TestContainerRefResolve(t *testing.T) {
	t.Run("ByName", func(t *testing.T) {
		container, err := ByName("photos").resolve()
		require.NoError(t, err)
		assert.Equal(t, "photos", container.Name)
	})

	t.Run("ByContainer", func(t *testing.T) {
		original := NewContainer("photos")
		original.Metadata["owner"] = "alice"

		container, err := ByContainer(original).resolve()
		require.NoError(t, err)
		assert.Same(t, original, container)
	})

	t.Run("ZeroRef", func(t *testing.T) {
		container, err := ContainerRef{}.resolve()
		assert.ErrorIs(t, err, ErrInvalidContainerRef)
		assert.Nil(t, container)
	})
}
