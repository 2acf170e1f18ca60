package threemf

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/gostl3mf/pkg/errors"
)

func TestParseProperty(t *testing.T) {
	p, err := ParseProperty("material=PETG")
	require.NoError(t, err)
	assert.Equal(t, Property{Name: "material", Value: "PETG"}, p)

	p, err = ParseProperty(" note =a=b")
	require.NoError(t, err)
	assert.Equal(t, Property{Name: "note", Value: "a=b"}, p)

	p, err = ParseProperty("empty=")
	require.NoError(t, err)
	assert.Equal(t, "", p.Value)

	for _, bad := range []string{"novalue", "=x", ""} {
		_, err := ParseProperty(bad)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "%q: %v", bad, err)
	}
}

func TestPropertiesRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "props.3mf")
	props := Properties{
		{Name: "material", Value: "PETG"},
		{Name: "infill", Value: "20%"},
		{Name: "note", Value: `a "quoted" <b> & c=d`},
	}

	w, err := Create(out)
	require.NoError(t, err)
	require.NoError(t, w.AddModel(cubeModel(t, "Part")))
	require.NoError(t, w.SetProperties(props))
	require.NoError(t, w.Close())

	doc := zipEntries(t, out)["Metadata/properties.xml"]
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `<property name="material" value="PETG"></property>`)
	assert.Contains(t, zipEntries(t, out)[ContentTypesPath], `Extension="xml"`)

	a, err := Open(out)
	require.NoError(t, err)
	defer a.Close()

	got, err := a.Properties()
	require.NoError(t, err)
	assert.Equal(t, props, got)

	v, ok := got.Get("infill")
	assert.True(t, ok)
	assert.Equal(t, "20%", v)
}

func TestWritePackageProperties(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pkg.3mf")
	pkg := &Package{
		Models:     []*Model{cubeModel(t, "Part")},
		Properties: Properties{{Name: "designer", Value: "me"}},
	}
	require.NoError(t, WritePackage(out, pkg))

	a, err := Open(out)
	require.NoError(t, err)
	defer a.Close()
	got, err := a.Properties()
	require.NoError(t, err)
	assert.Equal(t, pkg.Properties, got)
}

func TestSetPropertiesRejectsEmptyName(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "bad.3mf"))
	require.NoError(t, err)
	defer w.Abort()

	err = w.SetProperties(Properties{{Name: " ", Value: "x"}})
	assert.True(t, errors.Is(err, errors.ErrCodeValidation), "got %v", err)
}

func TestArchivePropertiesMissingOrInvalid(t *testing.T) {
	a := openTest(t,
		entry{ContentTypesPath, testContentTypes},
		entry{RelsPath, testRels},
		entry{"3D/3dmodel.model", modelDoc("<resources/><build/>")},
	)
	props, err := a.Properties()
	require.NoError(t, err)
	assert.Nil(t, props)

	a = openTest(t,
		entry{ContentTypesPath, testContentTypes},
		entry{RelsPath, testRels},
		entry{"Metadata/properties.xml", "<properties><property"},
	)
	_, err = a.Properties()
	assert.True(t, errors.Is(err, errors.ErrCodePackageRead), "got %v", err)
	assert.Contains(t, err.Error(), "Metadata/properties.xml")
}
