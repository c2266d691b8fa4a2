package meshtools

import (
	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
)

// Transform bakes t into the mesh. Positions get the full affine transform,
// normals, tangents and bitangents get the normal matrix and are
// re-normalized. An identity transform leaves the data untouched.
func Transform(m *mesh.Mesh, t math.Mat4) *mesh.Mesh {
	out := take(m).build()
	if t.IsIdentity() {
		return out
	}

	normal := t.NormalMatrix()
	for id := 0; id < out.AttributeCount(); id++ {
		a := out.Attribute(id)
		if !a.Format.IsFloat() {
			continue
		}
		n := a.Format.ComponentCount()

		switch a.Name {
		case mesh.AttributePosition:
			if n != 2 && n != 3 {
				continue
			}
			for v := 0; v < out.VertexCount(); v++ {
				p := readVec3(out, id, v, n)
				writeVec3(out, id, v, n, t.TransformPoint(p))
			}
		case mesh.AttributeNormal, mesh.AttributeTangent, mesh.AttributeBitangent:
			if n < 3 {
				continue
			}
			for v := 0; v < out.VertexCount(); v++ {
				d := readVec3(out, id, v, 3)
				writeVec3(out, id, v, 3, normal.MulVec3(d).Normalize())
			}
		}
	}
	return out
}

func readVec3(m *mesh.Mesh, id, v, n int) math.Vec3 {
	var c [3]float32
	for i := 0; i < n && i < 3; i++ {
		c[i] = m.Component(id, v, i)
	}
	return math.V3(c)
}

func writeVec3(m *mesh.Mesh, id, v, n int, p math.Vec3) {
	c := p.Array()
	for i := 0; i < n && i < 3; i++ {
		m.SetComponent(id, v, i, c[i])
	}
}
