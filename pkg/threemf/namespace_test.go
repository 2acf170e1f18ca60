package threemf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gostl3mf/pkg/errors"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"3D/3dmodel.model", "3D/3dmodel.model"},
		{"/3D/3dmodel.model", "3D/3dmodel.model"},
		{`Metadata\thumbnail.png`, "Metadata/thumbnail.png"},
		{"3D/./Textures//a.png", "3D/Textures/a.png"},
		{"[Content_Types].xml", "[Content_Types].xml"},
	}
	for _, tt := range tests {
		got, err := CleanPath(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "/", "3D/", "../evil", "3D/../../x", "."} {
		_, err := CleanPath(bad)
		assert.True(t, errors.Is(err, errors.ErrCodeValidation), "expected validation error for %q", bad)
	}
}

func TestNamespacePutGet(t *testing.T) {
	ns := NewNamespace()
	require.NoError(t, ns.Put("/3D/3dmodel.model", []byte("a")))
	require.NoError(t, ns.Put("Metadata/info.txt", []byte("b")))
	require.NoError(t, ns.Put("3D/3dmodel.model", []byte("c")))

	data, ok := ns.Get("3D/3dmodel.model")
	require.True(t, ok)
	assert.Equal(t, "c", string(data))
	assert.Equal(t, []string{"3D/3dmodel.model", "Metadata/info.txt"}, ns.Paths())
	assert.Equal(t, 2, ns.Len())

	assert.Error(t, ns.Put("../x", nil))
}

func TestNamespaceDelete(t *testing.T) {
	ns := NewNamespace()
	require.NoError(t, ns.Put("a.txt", nil))
	require.NoError(t, ns.Put("b.txt", nil))

	assert.True(t, ns.Delete("a.txt"))
	assert.False(t, ns.Delete("a.txt"))
	assert.False(t, ns.Has("a.txt"))
	assert.Equal(t, []string{"b.txt"}, ns.Paths())
}

func TestNamespaceListAndSubdirs(t *testing.T) {
	ns := NewNamespace()
	for _, p := range []string{
		ContentTypesPath,
		RelsPath,
		ModelPath(DefaultModelName),
		TexturePath("wood.png"),
		MetadataPath("conversion_info.txt"),
		ThumbnailPath,
		ModelRelsPath(DefaultModelName),
	} {
		require.NoError(t, ns.Put(p, nil))
	}

	assert.Equal(t, []string{ContentTypesPath}, ns.List(""))
	assert.Equal(t, []string{"3D/3dmodel.model"}, ns.List("3D"))
	assert.Equal(t, []string{"Metadata/conversion_info.txt", "Metadata/thumbnail.png"}, ns.List("/Metadata/"))
	assert.Equal(t, []string{"_rels/", "3D/", "Metadata/"}, ns.Subdirs(""))
	assert.Equal(t, []string{"3D/Textures/", "3D/_rels/"}, ns.Subdirs("3D/"))
	assert.Empty(t, ns.Subdirs("Metadata"))
}
