package mesh

import (
	"encoding/binary"
	"fmt"
	"math"
)

type column struct {
	name   AttributeName
	format VertexFormat
	count  int
	data   []byte
}

// Builder assembles an interleaved mesh from per-attribute columns.
// Columns are laid out in the order they were added.
type Builder struct {
	primitive Primitive
	columns   []column
	indices   []uint32
}

// NewBuilder starts a mesh with the given primitive.
func NewBuilder(p Primitive) *Builder {
	return &Builder{primitive: p}
}

func (b *Builder) add(name AttributeName, format VertexFormat, count int, data []byte) *Builder {
	b.columns = append(b.columns, column{name: name, format: format, count: count, data: data})
	return b
}

func putFloats(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// AddFloat adds a scalar float attribute.
func (b *Builder) AddFloat(name AttributeName, data []float32) *Builder {
	buf := putFloats(make([]byte, 0, len(data)*4), data...)
	return b.add(name, FormatFloat, len(data), buf)
}

// AddVector2 adds a two-component float attribute.
func (b *Builder) AddVector2(name AttributeName, data [][2]float32) *Builder {
	buf := make([]byte, 0, len(data)*8)
	for _, v := range data {
		buf = putFloats(buf, v[0], v[1])
	}
	return b.add(name, FormatVector2, len(data), buf)
}

// AddVector3 adds a three-component float attribute.
func (b *Builder) AddVector3(name AttributeName, data [][3]float32) *Builder {
	buf := make([]byte, 0, len(data)*12)
	for _, v := range data {
		buf = putFloats(buf, v[0], v[1], v[2])
	}
	return b.add(name, FormatVector3, len(data), buf)
}

// AddVector4 adds a four-component float attribute.
func (b *Builder) AddVector4(name AttributeName, data [][4]float32) *Builder {
	buf := make([]byte, 0, len(data)*16)
	for _, v := range data {
		buf = putFloats(buf, v[0], v[1], v[2], v[3])
	}
	return b.add(name, FormatVector4, len(data), buf)
}

// AddColor4ub adds a normalized RGBA byte attribute.
func (b *Builder) AddColor4ub(name AttributeName, data [][4]uint8) *Builder {
	buf := make([]byte, 0, len(data)*4)
	for _, v := range data {
		buf = append(buf, v[:]...)
	}
	return b.add(name, FormatVector4ubNormalized, len(data), buf)
}

// AddUnsignedInt adds a scalar uint32 attribute.
func (b *Builder) AddUnsignedInt(name AttributeName, data []uint32) *Builder {
	buf := make([]byte, 0, len(data)*4)
	for _, v := range data {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return b.add(name, FormatUnsignedInt, len(data), buf)
}

// Indices makes the mesh indexed.
func (b *Builder) Indices(indices []uint32) *Builder {
	b.indices = append(make([]uint32, 0, len(indices)), indices...)
	return b
}

// Build interleaves the columns into one vertex buffer and validates the
// result.
func (b *Builder) Build() (*Mesh, error) {
	vertexCount := 0
	stride := 0
	for i, c := range b.columns {
		if i == 0 {
			vertexCount = c.count
		} else if c.count != vertexCount {
			return nil, fmt.Errorf("%w: attribute %d (%s) has %d elements, expected %d",
				ErrVertexCountMismatch, i, c.name, c.count, vertexCount)
		}
		stride += c.format.Size()
	}

	attrs := make([]Attribute, len(b.columns))
	offset := 0
	for i, c := range b.columns {
		attrs[i] = Attribute{Name: c.name, Format: c.format, Offset: offset, Stride: stride}
		offset += c.format.Size()
	}

	data := make([]byte, vertexCount*stride)
	for i, c := range b.columns {
		size := c.format.Size()
		for v := 0; v < vertexCount; v++ {
			copy(data[attrs[i].Offset+v*stride:], c.data[v*size:(v+1)*size])
		}
	}

	return New(b.primitive, b.indices, data, attrs, vertexCount)
}

// MustBuild is Build for fixtures and tests.
func (b *Builder) MustBuild() *Mesh {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
