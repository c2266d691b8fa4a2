package mesh

import "fmt"

// Primitive is the topology the vertices (or indices) describe.
type Primitive uint8

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveLineStrip
	PrimitiveLineLoop
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

var primitiveNames = [...]string{
	PrimitivePoints:        "Points",
	PrimitiveLines:         "Lines",
	PrimitiveLineStrip:     "LineStrip",
	PrimitiveLineLoop:      "LineLoop",
	PrimitiveTriangles:     "Triangles",
	PrimitiveTriangleStrip: "TriangleStrip",
	PrimitiveTriangleFan:   "TriangleFan",
}

// String returns the primitive name.
func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(p))
}

// Valid reports whether p is one of the known primitives.
func (p Primitive) Valid() bool {
	return int(p) < len(primitiveNames)
}

// IsStripLike reports whether adjacency is implicit in vertex order (strips,
// fans and loops). Such meshes cannot be joined by appending.
func (p Primitive) IsStripLike() bool {
	switch p {
	case PrimitiveLineStrip, PrimitiveLineLoop, PrimitiveTriangleStrip, PrimitiveTriangleFan:
		return true
	}
	return false
}
