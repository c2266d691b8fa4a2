// Package mesh defines the in-memory mesh every pipeline stage consumes and
// produces: an optional index buffer, a vertex buffer, and an ordered list of
// typed attribute views into it.
//
// A Mesh has exactly one owner. Stages take ownership of their input, move
// its storage into their result and leave the input released; touching the
// data of a released mesh panics.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Mesh validation errors.
var (
	ErrInvalidPrimitive     = errors.New("invalid mesh primitive")
	ErrInvalidFormat        = errors.New("invalid vertex format")
	ErrAttributeOutOfBounds = errors.New("attribute range out of vertex buffer bounds")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrVertexCountMismatch  = errors.New("vertex count mismatch")
)

// Mesh is a move-only mesh buffer.
type Mesh struct {
	primitive   Primitive
	indices     []uint32
	vertexData  []byte
	attributes  []Attribute
	vertexCount int
	released    bool
}

// New validates and wraps the given storage. The mesh takes ownership of
// indices, vertexData and attributes. A nil indices slice means the mesh is
// not indexed.
func New(primitive Primitive, indices []uint32, vertexData []byte, attributes []Attribute, vertexCount int) (*Mesh, error) {
	if !primitive.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrimitive, primitive)
	}
	if vertexCount < 0 {
		return nil, fmt.Errorf("%w: negative vertex count %d", ErrVertexCountMismatch, vertexCount)
	}
	for i, a := range attributes {
		if !a.Format.Valid() {
			return nil, fmt.Errorf("%w: attribute %d", ErrInvalidFormat, i)
		}
		if a.Offset < 0 || a.Stride < 0 || a.end(vertexCount) > len(vertexData) {
			return nil, fmt.Errorf("%w: attribute %d (%s) needs %d bytes, buffer has %d",
				ErrAttributeOutOfBounds, i, a, a.end(vertexCount), len(vertexData))
		}
	}
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return nil, fmt.Errorf("%w: index %d at position %d, vertex count %d",
				ErrIndexOutOfRange, idx, i, vertexCount)
		}
	}

	return &Mesh{
		primitive:   primitive,
		indices:     indices,
		vertexData:  vertexData,
		attributes:  attributes,
		vertexCount: vertexCount,
	}, nil
}

func (m *Mesh) live() {
	if m.released {
		panic("mesh: use of released mesh")
	}
}

// Primitive returns the mesh topology.
func (m *Mesh) Primitive() Primitive { return m.primitive }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return m.vertexCount }

// IsIndexed reports whether the mesh has an index buffer.
func (m *Mesh) IsIndexed() bool { return m.indices != nil }

// IndexCount returns the number of indices, or 0 for non-indexed meshes.
func (m *Mesh) IndexCount() int { return len(m.indices) }

// Indices returns the index buffer. It is owned by the mesh; do not modify it.
func (m *Mesh) Indices() []uint32 {
	m.live()
	return m.indices
}

// VertexData returns the raw vertex buffer. It is owned by the mesh.
func (m *Mesh) VertexData() []byte {
	m.live()
	return m.vertexData
}

// AttributeCount returns the number of attributes.
func (m *Mesh) AttributeCount() int { return len(m.attributes) }

// Attribute returns the descriptor of attribute id.
func (m *Mesh) Attribute(id int) Attribute { return m.attributes[id] }

// Attributes returns a copy of all attribute descriptors in order.
func (m *Mesh) Attributes() []Attribute {
	return append([]Attribute(nil), m.attributes...)
}

// FindAttribute returns the ID of the n-th attribute with the given name.
func (m *Mesh) FindAttribute(name AttributeName, n int) (int, bool) {
	for i, a := range m.attributes {
		if a.Name != name {
			continue
		}
		if n == 0 {
			return i, true
		}
		n--
	}
	return -1, false
}

// HasAttribute reports whether at least one attribute has the given name.
func (m *Mesh) HasAttribute(name AttributeName) bool {
	_, ok := m.FindAttribute(name, 0)
	return ok
}

// Element returns the bytes of attribute id for one vertex. The slice
// aliases the vertex buffer.
func (m *Mesh) Element(id, vertex int) []byte {
	m.live()
	a := m.attributes[id]
	start := a.Offset + vertex*a.Stride
	return m.vertexData[start : start+a.Format.Size()]
}

// Component reads one scalar component of attribute id as float32.
// Normalized bytes map to [0, 1].
func (m *Mesh) Component(id, vertex, component int) float32 {
	a := m.attributes[id]
	b := m.Element(id, vertex)
	switch a.Format.ComponentType() {
	case ComponentUint8Normalized:
		return float32(b[component]) / 255
	case ComponentUint32:
		return float32(binary.LittleEndian.Uint32(b[component*4:]))
	default:
		return math.Float32frombits(binary.LittleEndian.Uint32(b[component*4:]))
	}
}

// SetComponent writes one float32 component of a float attribute.
func (m *Mesh) SetComponent(id, vertex, component int, v float32) {
	a := m.attributes[id]
	if !a.Format.IsFloat() {
		panic(fmt.Sprintf("mesh: SetComponent on %s attribute", a.Format))
	}
	b := m.Element(id, vertex)
	binary.LittleEndian.PutUint32(b[component*4:], math.Float32bits(v))
}

// Vector3 copies out a three-component float attribute.
func (m *Mesh) Vector3(id int) [][3]float32 {
	out := make([][3]float32, m.vertexCount)
	n := min(m.attributes[id].Format.ComponentCount(), 3)
	for v := range out {
		for c := 0; c < n; c++ {
			out[v][c] = m.Component(id, v, c)
		}
	}
	return out
}

// Vector2 copies out the first two components of an attribute.
func (m *Mesh) Vector2(id int) [][2]float32 {
	out := make([][2]float32, m.vertexCount)
	n := min(m.attributes[id].Format.ComponentCount(), 2)
	for v := range out {
		for c := 0; c < n; c++ {
			out[v][c] = m.Component(id, v, c)
		}
	}
	return out
}

// Color4ub copies out a normalized byte color attribute. Three-component
// colors get an opaque alpha.
func (m *Mesh) Color4ub(id int) [][4]uint8 {
	out := make([][4]uint8, m.vertexCount)
	a := m.attributes[id]
	for v := range out {
		out[v][3] = 255
		switch a.Format.ComponentType() {
		case ComponentUint8Normalized:
			copy(out[v][:], m.Element(id, v))
		default:
			for c := 0; c < min(a.Format.ComponentCount(), 4); c++ {
				out[v][c] = uint8(clamp01(m.Component(id, v, c))*255 + 0.5)
			}
		}
	}
	return out
}

// UnrolledIndices returns the indices, or 0..VertexCount-1 for a
// non-indexed mesh. The result is always a fresh slice.
func (m *Mesh) UnrolledIndices() []uint32 {
	m.live()
	if m.indices != nil {
		return append([]uint32(nil), m.indices...)
	}
	out := make([]uint32, m.vertexCount)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

// Clone returns a deep copy that owns its own storage.
func (m *Mesh) Clone() *Mesh {
	m.live()
	c := &Mesh{
		primitive:   m.primitive,
		vertexData:  append([]byte(nil), m.vertexData...),
		attributes:  m.Attributes(),
		vertexCount: m.vertexCount,
	}
	if m.indices != nil {
		c.indices = append(make([]uint32, 0, len(m.indices)), m.indices...)
	}
	return c
}

// ReleaseIndices hands the index buffer to the caller and marks the mesh
// released.
func (m *Mesh) ReleaseIndices() []uint32 {
	idx := m.indices
	m.indices = nil
	m.released = true
	return idx
}

// ReleaseVertexData hands the vertex buffer to the caller and marks the mesh
// released.
func (m *Mesh) ReleaseVertexData() []byte {
	data := m.vertexData
	m.vertexData = nil
	m.released = true
	return data
}

// Release drops the mesh storage without handing it anywhere.
func (m *Mesh) Release() {
	m.indices = nil
	m.vertexData = nil
	m.released = true
}

// Released reports whether the storage has been moved out.
func (m *Mesh) Released() bool { return m.released }

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
