package converter

import (
	"fmt"
	"io"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// ObjSceneConverter writes Wavefront OBJ files. Positions are required;
// texture coordinates and normals are written when present.
type ObjSceneConverter struct {
	fileOnly
	config *trade.Configuration
}

func NewObj() *ObjSceneConverter {
	return &ObjSceneConverter{config: trade.NewConfiguration()}
}

func (o *ObjSceneConverter) Name() string                        { return ObjName }
func (o *ObjSceneConverter) Configuration() *trade.Configuration { return o.config }

func (o *ObjSceneConverter) ConvertToFile(m *mesh.Mesh, filename string) error {
	var keyword string
	var arity int
	switch m.Primitive() {
	case mesh.PrimitiveTriangles:
		keyword, arity = "f", 3
	case mesh.PrimitiveLines:
		keyword, arity = "l", 2
	case mesh.PrimitivePoints:
		keyword, arity = "p", 1
	default:
		return fmt.Errorf("%w, lines or points, got %s", ErrExpectedTriangle, m.Primitive())
	}

	pos, err := attribute(m, mesh.AttributePosition, 2)
	if err != nil {
		return err
	}
	uv, hasUV := m.FindAttribute(mesh.AttributeTextureCoordinates, 0)
	normal, hasNormal := m.FindAttribute(mesh.AttributeNormal, 0)

	return writeFile(filename, func(w io.Writer) error {
		fmt.Fprintln(w, "# written by meshconv")
		for _, p := range m.Vector3(pos) {
			fmt.Fprintf(w, "v %g %g %g\n", p[0], p[1], p[2])
		}
		if hasUV {
			for _, t := range m.Vector2(uv) {
				fmt.Fprintf(w, "vt %g %g\n", t[0], t[1])
			}
		}
		if hasNormal {
			for _, n := range m.Vector3(normal) {
				fmt.Fprintf(w, "vn %g %g %g\n", n[0], n[1], n[2])
			}
		}

		indices := m.UnrolledIndices()
		for i := 0; i+arity <= len(indices); i += arity {
			if _, err := io.WriteString(w, keyword); err != nil {
				return err
			}
			for _, idx := range indices[i : i+arity] {
				fmt.Fprintf(w, " %s", objVertex(idx+1, hasUV, hasNormal))
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// objVertex formats one face corner. OBJ indices are 1-based.
func objVertex(i uint32, uv, normal bool) string {
	switch {
	case uv && normal:
		return fmt.Sprintf("%d/%d/%d", i, i, i)
	case normal:
		return fmt.Sprintf("%d//%d", i, i)
	case uv:
		return fmt.Sprintf("%d/%d", i, i)
	}
	return fmt.Sprint(i)
}
