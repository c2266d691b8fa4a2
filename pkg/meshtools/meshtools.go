// Package meshtools implements the mesh processing stages: baking a
// transform, concatenating, filtering attributes and removing duplicate
// vertices. Every stage consumes its input mesh.
package meshtools

import (
	"errors"

	"github.com/Faultbox/meshconv/pkg/mesh"
)

var (
	ErrNoMeshes                 = errors.New("no meshes to concatenate")
	ErrIncompatiblePrimitive    = errors.New("incompatible mesh primitive")
	ErrAttributeIndexOutOfRange = errors.New("attribute index out of range")
	ErrNegativeEpsilon          = errors.New("negative fuzzy epsilon")
)

// Stats reports vertex counts before and after deduplication.
type Stats struct {
	Before int
	After  int
}

// storage is the moved-out content of a mesh.
type storage struct {
	primitive   mesh.Primitive
	indices     []uint32
	data        []byte
	attributes  []mesh.Attribute
	vertexCount int
}

func take(m *mesh.Mesh) storage {
	s := storage{
		primitive:   m.Primitive(),
		attributes:  m.Attributes(),
		vertexCount: m.VertexCount(),
	}
	s.indices = m.ReleaseIndices()
	s.data = m.ReleaseVertexData()
	return s
}

func (s storage) build() *mesh.Mesh {
	m, err := mesh.New(s.primitive, s.indices, s.data, s.attributes, s.vertexCount)
	if err != nil {
		// Storage derived from a valid mesh is always valid.
		panic("meshtools: " + err.Error())
	}
	return m
}

// packedLayout returns the attributes laid out back to back in a single
// interleaved vertex and the resulting stride.
func packedLayout(attrs []mesh.Attribute) ([]mesh.Attribute, int) {
	stride := 0
	for _, a := range attrs {
		stride += a.Format.Size()
	}
	out := make([]mesh.Attribute, len(attrs))
	offset := 0
	for i, a := range attrs {
		out[i] = mesh.Attribute{Name: a.Name, Format: a.Format, Offset: offset, Stride: stride}
		offset += a.Format.Size()
	}
	return out, stride
}

// repack copies the given source vertices, in order, into a freshly packed
// buffer.
func repack(src []mesh.Attribute, data []byte, vertices []int) ([]mesh.Attribute, []byte) {
	attrs, stride := packedLayout(src)
	out := make([]byte, len(vertices)*stride)
	for dst, v := range vertices {
		for i, a := range src {
			size := a.Format.Size()
			from := a.Offset + v*a.Stride
			copy(out[dst*stride+attrs[i].Offset:], data[from:from+size])
		}
	}
	return attrs, out
}
