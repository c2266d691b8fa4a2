package converter

import (
	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// DegenerateCleanupSceneConverter drops triangles whose area is below a
// threshold. The output is always indexed; vertices are kept as they are.
//
// Options:
//   - threshold: minimum length of the edge cross product
type DegenerateCleanupSceneConverter struct {
	memoryOnly
	config *trade.Configuration
}

func NewDegenerateCleanup() *DegenerateCleanupSceneConverter {
	return &DegenerateCleanupSceneConverter{config: trade.NewConfiguration("threshold", "1e-5")}
}

func (d *DegenerateCleanupSceneConverter) Name() string                        { return DegenerateName }
func (d *DegenerateCleanupSceneConverter) Configuration() *trade.Configuration { return d.config }

func (d *DegenerateCleanupSceneConverter) Convert(m *mesh.Mesh) (*mesh.Mesh, error) {
	if err := requireTriangles(m); err != nil {
		return nil, err
	}
	threshold, err := d.config.Float("threshold")
	if err != nil {
		return nil, err
	}
	pos, err := attribute(m, mesh.AttributePosition, 2)
	if err != nil {
		return nil, err
	}

	positions := m.Vector3(pos)
	indices := m.UnrolledIndices()
	kept := indices[:0]
	for i := 0; i+2 < len(indices); i += 3 {
		a := math.V3(positions[indices[i]])
		b := math.V3(positions[indices[i+1]])
		c := math.V3(positions[indices[i+2]])
		if float64(b.Sub(a).Cross(c.Sub(a)).Length()) < threshold {
			continue
		}
		kept = append(kept, indices[i], indices[i+1], indices[i+2])
	}

	attrs := m.Attributes()
	vertexCount := m.VertexCount()
	m.ReleaseIndices()
	return mesh.New(mesh.PrimitiveTriangles, kept, m.ReleaseVertexData(), attrs, vertexCount)
}
