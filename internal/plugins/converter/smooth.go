package converter

import (
	"fmt"

	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// SmoothNormalsSceneConverter averages the normals of vertices that share a
// position, removing hard edges between faces.
//
// Options:
//   - epsilon: positions are compared after quantizing to this step
type SmoothNormalsSceneConverter struct {
	memoryOnly
	config *trade.Configuration
}

func NewSmoothNormals() *SmoothNormalsSceneConverter {
	return &SmoothNormalsSceneConverter{config: trade.NewConfiguration("epsilon", "0.001")}
}

func (s *SmoothNormalsSceneConverter) Name() string                        { return SmoothName }
func (s *SmoothNormalsSceneConverter) Configuration() *trade.Configuration { return s.config }

// Convert rewrites the normals in place and hands the mesh back.
func (s *SmoothNormalsSceneConverter) Convert(m *mesh.Mesh) (*mesh.Mesh, error) {
	eps, err := s.config.Float("epsilon")
	if err != nil {
		return nil, err
	}
	if eps <= 0 {
		return nil, fmt.Errorf("epsilon must be positive, got %g", eps)
	}
	pos, err := attribute(m, mesh.AttributePosition, 2)
	if err != nil {
		return nil, err
	}
	normal, err := attribute(m, mesh.AttributeNormal, 3)
	if err != nil {
		return nil, err
	}
	SmoothNormals(m, pos, normal, float32(eps))
	return m, nil
}

// SmoothNormals groups vertices by quantized position and gives every
// vertex of a group the normalized sum of the group's normals.
func SmoothNormals(m *mesh.Mesh, pos, normal int, eps float32) {
	positions := m.Vector3(pos)
	normals := m.Vector3(normal)

	groups := make(map[[3]int32][]int)
	for v, p := range positions {
		key := [3]int32{int32(p[0] / eps), int32(p[1] / eps), int32(p[2] / eps)}
		groups[key] = append(groups[key], v)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		var sum math.Vec3
		for _, v := range group {
			sum = sum.Add(math.V3(normals[v]))
		}
		if sum.Length() < 1e-6 {
			continue
		}
		avg := sum.Normalize()
		for _, v := range group {
			m.SetComponent(normal, v, 0, avg.X)
			m.SetComponent(normal, v, 1, avg.Y)
			m.SetComponent(normal, v, 2, avg.Z)
		}
	}
}
