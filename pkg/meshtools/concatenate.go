package meshtools

import (
	"fmt"

	"github.com/Faultbox/meshconv/pkg/mesh"
)

// Concatenate joins meshes into one. The first mesh defines the attribute
// layout; attributes of later meshes are matched by name, format and
// occurrence and zero-filled where missing. If any input is indexed the
// result is indexed.
//
// Strip, fan and loop primitives cannot be joined by appending and cause a
// panic. All inputs are consumed on success and left intact on error.
func Concatenate(meshes []*mesh.Mesh) (*mesh.Mesh, error) {
	if len(meshes) == 0 {
		return nil, ErrNoMeshes
	}

	primitive := meshes[0].Primitive()
	indexed := false
	total := 0
	for i, m := range meshes {
		if m.Primitive().IsStripLike() {
			panic(fmt.Sprintf("meshtools: cannot concatenate %s mesh %d", m.Primitive(), i))
		}
		if m.Primitive() != primitive {
			return nil, fmt.Errorf("%w: mesh %d is %s, expected %s",
				ErrIncompatiblePrimitive, i, m.Primitive(), primitive)
		}
		indexed = indexed || m.IsIndexed()
		total += m.VertexCount()
	}

	layout := meshes[0].Attributes()
	attrs, stride := packedLayout(layout)
	data := make([]byte, total*stride)

	var indices []uint32
	if indexed {
		indices = make([]uint32, 0, total)
	}

	base := 0
	for _, m := range meshes {
		sources := matchAttributes(layout, m)
		for dst, src := range sources {
			if src < 0 {
				continue
			}
			size := attrs[dst].Format.Size()
			for v := 0; v < m.VertexCount(); v++ {
				copy(data[(base+v)*stride+attrs[dst].Offset:][:size], m.Element(src, v))
			}
		}
		if indexed {
			for _, idx := range m.UnrolledIndices() {
				indices = append(indices, idx+uint32(base))
			}
		}
		base += m.VertexCount()
	}

	for _, m := range meshes {
		m.Release()
	}

	return storage{
		primitive:   primitive,
		indices:     indices,
		data:        data,
		attributes:  attrs,
		vertexCount: total,
	}.build(), nil
}

// matchAttributes maps each layout attribute to the attribute of m with the
// same name and format at the same occurrence, or -1.
func matchAttributes(layout []mesh.Attribute, m *mesh.Mesh) []int {
	type key struct {
		name   mesh.AttributeName
		format mesh.VertexFormat
	}
	seen := make(map[key]int)
	out := make([]int, len(layout))
	for i, a := range layout {
		k := key{a.Name, a.Format}
		occurrence := seen[k]
		seen[k]++

		out[i] = -1
		for j := 0; j < m.AttributeCount(); j++ {
			b := m.Attribute(j)
			if b.Name != a.Name || b.Format != a.Format {
				continue
			}
			if occurrence == 0 {
				out[i] = j
				break
			}
			occurrence--
		}
	}
	return out
}
