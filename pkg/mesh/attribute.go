package mesh

import "fmt"

// AttributeName is the semantic of a vertex attribute.
type AttributeName uint16

const (
	AttributePosition AttributeName = iota
	AttributeNormal
	AttributeTangent
	AttributeBitangent
	AttributeTextureCoordinates
	AttributeColor
	AttributeObjectID

	// AttributeCustom is the first name available for custom attributes.
	AttributeCustom AttributeName = 128
)

var attributeNames = map[AttributeName]string{
	AttributePosition:           "Position",
	AttributeNormal:             "Normal",
	AttributeTangent:            "Tangent",
	AttributeBitangent:          "Bitangent",
	AttributeTextureCoordinates: "TextureCoordinates",
	AttributeColor:              "Color",
	AttributeObjectID:           "ObjectId",
}

// String returns the attribute name.
func (n AttributeName) String() string {
	if s, ok := attributeNames[n]; ok {
		return s
	}
	if n >= AttributeCustom {
		return fmt.Sprintf("Custom(%d)", uint16(n-AttributeCustom))
	}
	return fmt.Sprintf("Unknown(%d)", uint16(n))
}

// Attribute describes one typed view into the vertex buffer. Element i
// starts at Offset + i*Stride.
type Attribute struct {
	Name   AttributeName
	Format VertexFormat
	Offset int
	Stride int
}

// String returns a short description used in diagnostics.
func (a Attribute) String() string {
	return fmt.Sprintf("%s @ %s, offset %d, stride %d", a.Name, a.Format, a.Offset, a.Stride)
}

// end returns one past the last byte the attribute addresses for n vertices.
func (a Attribute) end(n int) int {
	if n == 0 {
		return 0
	}
	return a.Offset + (n-1)*a.Stride + a.Format.Size()
}
