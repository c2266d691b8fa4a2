package mesh

import "fmt"

// VertexFormat describes the storage of a single attribute element.
type VertexFormat uint8

const (
	FormatFloat VertexFormat = iota
	FormatVector2
	FormatVector3
	FormatVector4
	FormatVector3ubNormalized
	FormatVector4ubNormalized
	FormatUnsignedInt
)

// ComponentType is the scalar type of a format's components.
type ComponentType uint8

const (
	ComponentFloat32 ComponentType = iota
	ComponentUint8Normalized
	ComponentUint32
)

type formatInfo struct {
	name       string
	components int
	component  ComponentType
}

var formats = [...]formatInfo{
	FormatFloat:               {"Float", 1, ComponentFloat32},
	FormatVector2:             {"Vector2", 2, ComponentFloat32},
	FormatVector3:             {"Vector3", 3, ComponentFloat32},
	FormatVector4:             {"Vector4", 4, ComponentFloat32},
	FormatVector3ubNormalized: {"Vector3ubNormalized", 3, ComponentUint8Normalized},
	FormatVector4ubNormalized: {"Vector4ubNormalized", 4, ComponentUint8Normalized},
	FormatUnsignedInt:         {"UnsignedInt", 1, ComponentUint32},
}

// Valid reports whether f is a known format.
func (f VertexFormat) Valid() bool {
	return int(f) < len(formats)
}

// String returns the format name.
func (f VertexFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
	return formats[f].name
}

// ComponentCount returns the number of scalar components.
func (f VertexFormat) ComponentCount() int {
	return formats[f].components
}

// ComponentType returns the scalar component type.
func (f VertexFormat) ComponentType() ComponentType {
	return formats[f].component
}

// ComponentSize returns the size of one component in bytes.
func (f VertexFormat) ComponentSize() int {
	if formats[f].component == ComponentUint8Normalized {
		return 1
	}
	return 4
}

// Size returns the size of one element in bytes.
func (f VertexFormat) Size() int {
	return f.ComponentCount() * f.ComponentSize()
}

// IsFloat reports whether components are stored as float32.
func (f VertexFormat) IsFloat() bool {
	return formats[f].component == ComponentFloat32
}
