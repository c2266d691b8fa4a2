package converter

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// CenterSceneConverter moves the mesh so its bounding box is centered on
// the origin along the chosen axes.
//
// Options:
//   - axes: any combination of x, y and z; the default keeps the height
type CenterSceneConverter struct {
	memoryOnly
	config *trade.Configuration
}

func NewCenter() *CenterSceneConverter {
	return &CenterSceneConverter{config: trade.NewConfiguration("axes", "xz")}
}

func (c *CenterSceneConverter) Name() string                        { return CenterName }
func (c *CenterSceneConverter) Configuration() *trade.Configuration { return c.config }

func (c *CenterSceneConverter) Convert(m *mesh.Mesh) (*mesh.Mesh, error) {
	var axes [3]bool
	for _, r := range strings.ToLower(c.config.Value("axes")) {
		switch r {
		case 'x':
			axes[0] = true
		case 'y':
			axes[1] = true
		case 'z':
			axes[2] = true
		default:
			return nil, fmt.Errorf("option axes: unknown axis %q", r)
		}
	}
	pos, err := attribute(m, mesh.AttributePosition, 2)
	if err != nil {
		return nil, err
	}
	Center(m, pos, axes)
	return m, nil
}

// Bounds returns the component-wise minimum and maximum of a position
// attribute. An empty mesh has zero bounds.
func Bounds(m *mesh.Mesh, pos int) (lo, hi math.Vec3) {
	positions := m.Vector3(pos)
	if len(positions) == 0 {
		return lo, hi
	}
	lo, hi = math.V3(positions[0]), math.V3(positions[0])
	for _, p := range positions[1:] {
		lo, hi = lo.Min(math.V3(p)), hi.Max(math.V3(p))
	}
	return lo, hi
}

// Center translates positions in place and returns the offset removed.
func Center(m *mesh.Mesh, pos int, axes [3]bool) math.Vec3 {
	lo, hi := Bounds(m, pos)
	center := lo.Add(hi).Scale(0.5).Array()
	n := min(m.Attribute(pos).Format.ComponentCount(), 3)

	var offset [3]float32
	for axis := 0; axis < n; axis++ {
		if !axes[axis] {
			continue
		}
		offset[axis] = center[axis]
		for v := 0; v < m.VertexCount(); v++ {
			m.SetComponent(pos, v, axis, m.Component(pos, v, axis)-offset[axis])
		}
	}
	return math.V3(offset)
}
