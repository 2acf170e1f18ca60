package threemf

import (
	"encoding/xml"
)

// Content and relationship types of the package parts
const (
	ContentTypeRels     = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeModel    = "application/vnd.ms-package.3dmanufacturing-3dmodel+xml"
	ContentTypePNG      = "image/png"
	ContentTypeJPEG     = "image/jpeg"
	ContentTypeText     = "text/plain"
	ContentTypeXML      = "application/xml"
	ContentTypeFallback = "application/octet-stream"

	RelType3DModel   = "http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"
	RelTypeThumbnail = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/thumbnail"

	contentTypesNamespace  = "http://schemas.openxmlformats.org/package/2006/content-types"
	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// contentTypeFor maps a file extension (without dot) to its content type
func contentTypeFor(ext string) string {
	switch ext {
	case "rels":
		return ContentTypeRels
	case "model":
		return ContentTypeModel
	case "png":
		return ContentTypePNG
	case "jpg", "jpeg":
		return ContentTypeJPEG
	case "txt":
		return ContentTypeText
	case "xml", "config":
		return ContentTypeXML
	default:
		return ContentTypeFallback
	}
}

type xmlModel struct {
	XMLName            xml.Name      `xml:"model"`
	Xmlns              string        `xml:"xmlns,attr"`
	XmlnsP             string        `xml:"xmlns:p,attr,omitempty"`
	RequiredExtensions string        `xml:"requiredextensions,attr,omitempty"`
	Unit               string        `xml:"unit,attr"`
	Lang               string        `xml:"xml:lang,attr,omitempty"`
	Metadata           []xmlMetadata `xml:"metadata"`
	Resources          xmlResources  `xml:"resources"`
	Build              xmlBuild      `xml:"build"`
}

type xmlMetadata struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlResources struct {
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	ID         string         `xml:"id,attr"`
	Type       string         `xml:"type,attr,omitempty"`
	Name       string         `xml:"name,attr,omitempty"`
	UUID       string         `xml:"p:UUID,attr,omitempty"`
	Mesh       *xmlMesh       `xml:"mesh"`
	Components *xmlComponents `xml:"components"`
}

type xmlMesh struct {
	Vertices  xmlVertices  `xml:"vertices"`
	Triangles xmlTriangles `xml:"triangles"`
}

type xmlVertices struct {
	Vertex []xmlVertex `xml:"vertex"`
}

// Coordinates and indices stay strings so a single bad value is reported
// against its object instead of failing the whole part.
type xmlVertex struct {
	X string `xml:"x,attr"`
	Y string `xml:"y,attr"`
	Z string `xml:"z,attr"`
}

type xmlTriangles struct {
	Triangle []xmlTriangle `xml:"triangle"`
}

type xmlTriangle struct {
	V1 string `xml:"v1,attr"`
	V2 string `xml:"v2,attr"`
	V3 string `xml:"v3,attr"`
}

type xmlComponents struct {
	Component []xmlComponent `xml:"component"`
}

type xmlComponent struct {
	ObjectID  string `xml:"objectid,attr"`
	Path      string `xml:"http://schemas.microsoft.com/3dmanufacturing/production/2015/06 path,attr,omitempty"`
	Transform string `xml:"transform,attr,omitempty"`
}

type xmlBuild struct {
	UUID  string    `xml:"p:UUID,attr,omitempty"`
	Items []xmlItem `xml:"item"`
}

type xmlItem struct {
	ObjectID  string `xml:"objectid,attr"`
	UUID      string `xml:"p:UUID,attr,omitempty"`
	Path      string `xml:"http://schemas.microsoft.com/3dmanufacturing/production/2015/06 path,attr,omitempty"`
	Transform string `xml:"transform,attr,omitempty"`
}

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	Target string `xml:"Target,attr"`
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
}

// marshalPart encodes v as an indented XML document with declaration
func marshalPart(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body))
	out = append(out, xml.Header...)
	out = append(out, body...)
	return out, nil
}
