package threemf

import (
	"encoding/xml"
	"strings"

	"github.com/philipparndt/gostl3mf/pkg/errors"
)

// PropertiesName is the metadata key of the custom properties part
const PropertiesName = "properties.xml"

// Property is one custom name/value pair of a package
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Properties is an ordered list of custom properties
type Properties []Property

// Get returns the value of the first property called name
func (p Properties) Get(name string) (string, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return "", false
}

type xmlProperties struct {
	XMLName    xml.Name      `xml:"properties"`
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ParseProperty parses a "name=value" pair. The value may be empty and may
// contain further '=' characters.
func ParseProperty(s string) (Property, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Property{}, errors.New(errors.ErrCodeInvalidInput, "invalid property %q (expected name=value)", s)
	}
	return Property{Name: name, Value: value}, nil
}

// EncodeProperties renders props as a Metadata/properties.xml document in
// the given order
func EncodeProperties(props Properties) ([]byte, error) {
	doc := xmlProperties{Properties: make([]xmlProperty, 0, len(props))}
	for i, p := range props {
		if strings.TrimSpace(p.Name) == "" {
			return nil, errors.Validation("property %d has an empty name", i)
		}
		doc.Properties = append(doc.Properties, xmlProperty(p))
	}
	return marshalPart(doc)
}

// DecodeProperties parses a properties.xml document
func DecodeProperties(data []byte) (Properties, error) {
	var doc xmlProperties
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.PackageRead(MetadataPath(PropertiesName), err, "invalid properties document")
	}
	props := make(Properties, len(doc.Properties))
	for i, p := range doc.Properties {
		props[i] = Property(p)
	}
	return props, nil
}

// SetProperties stores props at Metadata/properties.xml
func (w *Writer) SetProperties(props Properties) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	data, err := EncodeProperties(props)
	if err != nil {
		return err
	}
	return w.SetMetadata(PropertiesName, data)
}

// Properties returns the custom properties of the package, or nil when it
// has no properties part
func (a *Archive) Properties() (Properties, error) {
	if err := a.checkOpen(); err != nil {
		return nil, err
	}
	data, ok := a.ns.Get(MetadataPath(PropertiesName))
	if !ok {
		return nil, nil
	}
	return DecodeProperties(data)
}
