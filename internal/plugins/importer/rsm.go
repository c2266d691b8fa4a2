package importer

import (
	"fmt"

	"github.com/Faultbox/meshconv/pkg/formats"
	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

const degenerateArea = 1e-5

// RsmImporter imports RSM models. Every node with faces becomes one mesh;
// the node hierarchy becomes the single scene.
//
// Options:
//   - animTimeMs: time at which keyframes are sampled
//   - flipY: mirror the scene on Y, converting to a Y-up frame
//   - forceTwoSided: emit back faces for every face, not only two-sided ones
type RsmImporter struct {
	config *trade.Configuration
	model  *formats.RSM

	// meshNodes maps mesh IDs to node indices.
	meshNodes []int
}

// NewRsm creates an RSM importer.
func NewRsm() *RsmImporter {
	return &RsmImporter{config: trade.NewConfiguration(
		"animTimeMs", "0",
		"flipY", "true",
		"forceTwoSided", "false",
	)}
}

func (r *RsmImporter) Name() string                        { return RsmName }
func (r *RsmImporter) Configuration() *trade.Configuration { return r.config }

// OpenFile reads and parses path.
func (r *RsmImporter) OpenFile(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return r.OpenData(path, data)
}

// OpenData parses an in-memory RSM file.
func (r *RsmImporter) OpenData(name string, data []byte) error {
	r.Close()
	model, err := formats.ParseRSM(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.model = model
	for i := range model.Nodes {
		if len(model.Nodes[i].Faces) > 0 {
			r.meshNodes = append(r.meshNodes, i)
		}
	}
	return nil
}

// Close drops the parsed model.
func (r *RsmImporter) Close() {
	r.model = nil
	r.meshNodes = nil
}

func (r *RsmImporter) MeshCount() int { return len(r.meshNodes) }

// MeshName returns the name of the node the mesh comes from.
func (r *RsmImporter) MeshName(id int) string {
	if id < 0 || id >= len(r.meshNodes) {
		return ""
	}
	return r.model.Nodes[r.meshNodes[id]].Name
}

func (r *RsmImporter) MeshLevelCount(id int) int {
	if id < 0 || id >= len(r.meshNodes) {
		return 0
	}
	return 1
}

// Mesh builds the triangles of one node, with the node's offset and vertex
// matrix applied. The node hierarchy transform is left to the scene.
func (r *RsmImporter) Mesh(id, level int) (*mesh.Mesh, error) {
	if r.model == nil {
		return nil, ErrNotOpened
	}
	if err := checkLevel(id, len(r.meshNodes), level); err != nil {
		return nil, err
	}
	return buildNodeMesh(&r.model.Nodes[r.meshNodes[id]], r.model.Version, r.config.Bool("forceTwoSided"))
}

func (r *RsmImporter) DefaultScene() (int, bool) { return 0, r.model != nil }

func (r *RsmImporter) SceneCount() int {
	if r.model == nil {
		return 0
	}
	return 1
}

// Scene returns the node hierarchy. With flipY a mirroring root is appended
// after the model's nodes, so node i is still RSM node i.
func (r *RsmImporter) Scene(id int) (*scene.Graph, error) {
	if r.model == nil {
		return nil, ErrNotOpened
	}
	if id != 0 {
		return nil, fmt.Errorf("scene %d %w, file has 1 scene", id, ErrOutOfRange)
	}
	timeMs, err := r.config.Float("animTimeMs")
	if err != nil {
		return nil, err
	}

	meshOf := make(map[int]int, len(r.meshNodes))
	for meshID, node := range r.meshNodes {
		meshOf[node] = meshID
	}

	parents := r.model.ParentIndices()
	g := &scene.Graph{Nodes: make([]scene.Node, len(r.model.Nodes))}
	for i := range r.model.Nodes {
		n := &r.model.Nodes[i]
		meshID, ok := meshOf[i]
		if !ok {
			meshID = -1
		}
		g.Nodes[i] = scene.Node{
			Name:      n.Name,
			Parent:    parents[i],
			Transform: nodeTransform(n, float32(timeMs)),
			Mesh:      meshID,
		}
	}

	if r.config.Bool("flipY") {
		root := len(g.Nodes)
		for i := range g.Nodes {
			if g.Nodes[i].Parent == -1 {
				g.Nodes[i].Parent = root
			}
		}
		g.Nodes = append(g.Nodes, scene.Node{
			Name:      "flipY",
			Parent:    -1,
			Transform: math.Scale(1, -1, 1),
			Mesh:      -1,
		})
	}
	return g, nil
}

// nodeTransform is the part of a node's matrix its children inherit:
// position, rotation and scale. Rotation comes from keyframes when there
// are any, otherwise from the static axis and angle.
func nodeTransform(n *formats.RSMNode, timeMs float32) math.Mat4 {
	pos := math.V3(n.Position)
	if p, ok := samplePosition(n.PosKeys, timeMs); ok {
		pos = p
	}
	local := math.Translate(pos.X, pos.Y, pos.Z)

	if len(n.RotKeys) > 0 {
		local = local.Mul(sampleRotation(n.RotKeys, timeMs).ToMat4())
	} else if axis := math.V3(n.RotAxis); n.RotAngle != 0 && axis.Length() > 1e-6 {
		local = local.Mul(math.RotateAxis(axis.Normalize(), n.RotAngle))
	}

	local = local.Mul(math.Scale(n.Scale[0], n.Scale[1], n.Scale[2]))
	if len(n.ScaleKeys) > 0 {
		s := sampleScale(n.ScaleKeys, timeMs)
		local = local.Mul(math.Scale(s.X, s.Y, s.Z))
	}
	return local
}

// buildNodeMesh emits three vertices per face with the flat face normal.
// Faces with out-of-range vertex IDs or zero area are skipped.
func buildNodeMesh(n *formats.RSMNode, v formats.RSMVersion, forceTwoSided bool) (*mesh.Mesh, error) {
	vertexMatrix := math.Translate(n.Offset[0], n.Offset[1], n.Offset[2]).
		Mul(math.FromMat3(math.Mat3(n.Matrix)))

	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		colors    [][4]uint8
	)
	emit := func(f *formats.RSMFace, order [3]int, normal math.Vec3, corners [3]math.Vec3) {
		for _, j := range order {
			uv := [2]float32{}
			color := [4]uint8{255, 255, 255, 255}
			if tc := int(f.TexCoordIDs[j]); tc < len(n.TexCoords) {
				uv = [2]float32{n.TexCoords[tc].U, n.TexCoords[tc].V}
				if v.AtLeast(1, 2) {
					color = n.TexCoords[tc].Color
				}
			}
			positions = append(positions, corners[j].Array())
			normals = append(normals, normal.Array())
			uvs = append(uvs, uv)
			colors = append(colors, color)
		}
	}

	for i := range n.Faces {
		f := &n.Faces[i]
		var corners [3]math.Vec3
		valid := true
		for j, vid := range f.VertexIDs {
			if int(vid) >= len(n.Vertices) {
				valid = false
				break
			}
			corners[j] = vertexMatrix.TransformPoint(math.V3(n.Vertices[vid]))
		}
		if !valid {
			continue
		}

		cross := corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0]))
		if cross.Length() < degenerateArea {
			continue
		}
		normal := cross.Normalize()

		emit(f, [3]int{0, 1, 2}, normal, corners)
		if f.TwoSide != 0 || forceTwoSided {
			emit(f, [3]int{2, 1, 0}, normal.Scale(-1), corners)
		}
	}

	indices := make([]uint32, len(positions))
	for i := range indices {
		indices[i] = uint32(i)
	}
	return mesh.NewBuilder(mesh.PrimitiveTriangles).
		AddVector3(mesh.AttributePosition, positions).
		AddVector3(mesh.AttributeNormal, normals).
		AddVector2(mesh.AttributeTextureCoordinates, uvs).
		AddColor4ub(mesh.AttributeColor, colors).
		Indices(indices).
		Build()
}
