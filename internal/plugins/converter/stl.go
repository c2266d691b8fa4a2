package converter

import (
	"github.com/hschendel/stl"

	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// StlSceneConverter writes STL. Facet normals come from the triangle
// winding; vertex normals are ignored.
//
// Options:
//   - ascii: write the text variant instead of binary
type StlSceneConverter struct {
	fileOnly
	config *trade.Configuration
}

func NewStl() *StlSceneConverter {
	return &StlSceneConverter{config: trade.NewConfiguration("ascii", "false")}
}

func (s *StlSceneConverter) Name() string                        { return StlName }
func (s *StlSceneConverter) Configuration() *trade.Configuration { return s.config }

func (s *StlSceneConverter) ConvertToFile(m *mesh.Mesh, filename string) error {
	solid, err := solidOf(m)
	if err != nil {
		return err
	}
	solid.IsAscii = s.config.Bool("ascii")
	return writeFile(filename, solid.WriteAll)
}

// solidOf builds one STL triangle per mesh triangle.
func solidOf(m *mesh.Mesh) (*stl.Solid, error) {
	if err := requireTriangles(m); err != nil {
		return nil, err
	}
	pos, err := attribute(m, mesh.AttributePosition, 3)
	if err != nil {
		return nil, err
	}
	positions := m.Vector3(pos)
	indices := m.UnrolledIndices()

	solid := &stl.Solid{
		Name:      "meshconv",
		Triangles: make([]stl.Triangle, 0, len(indices)/3),
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a := math.V3(positions[indices[i]])
		b := math.V3(positions[indices[i+1]])
		c := math.V3(positions[indices[i+2]])
		solid.Triangles = append(solid.Triangles, stl.Triangle{
			Normal:   stlVec(b.Sub(a).Cross(c.Sub(a)).Normalize()),
			Vertices: [3]stl.Vec3{stlVec(a), stlVec(b), stlVec(c)},
		})
	}
	return solid, nil
}

func stlVec(v math.Vec3) stl.Vec3 { return stl.Vec3{v.X, v.Y, v.Z} }
