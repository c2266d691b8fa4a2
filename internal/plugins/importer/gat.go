package importer

import (
	"fmt"

	"github.com/Faultbox/meshconv/pkg/formats"
	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// GatImporter imports a GAT altitude table as one indexed triangle mesh,
// a quad per cell. The cell type is stored per vertex as the object ID.
//
// Options:
//   - cellSize: world size of one cell, half a GND tile by default
//   - walkableOnly: skip cells characters cannot stand on
type GatImporter struct {
	config *trade.Configuration
	table  *formats.GAT
}

// NewGat creates a GAT importer.
func NewGat() *GatImporter {
	return &GatImporter{config: trade.NewConfiguration(
		"cellSize", "5",
		"walkableOnly", "false",
	)}
}

func (g *GatImporter) Name() string                        { return GatName }
func (g *GatImporter) Configuration() *trade.Configuration { return g.config }

func (g *GatImporter) OpenFile(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return g.OpenData(path, data)
}

func (g *GatImporter) OpenData(name string, data []byte) error {
	table, err := formats.ParseGAT(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	g.table = table
	return nil
}

func (g *GatImporter) Close() { g.table = nil }

func (g *GatImporter) MeshCount() int {
	if g.table == nil {
		return 0
	}
	return 1
}

func (g *GatImporter) MeshName(id int) string {
	if id != 0 || g.table == nil {
		return ""
	}
	return "altitude"
}

func (g *GatImporter) MeshLevelCount(id int) int {
	if id != 0 || g.table == nil {
		return 0
	}
	return 1
}

func (g *GatImporter) Mesh(id, level int) (*mesh.Mesh, error) {
	if g.table == nil {
		return nil, ErrNotOpened
	}
	if err := checkLevel(id, 1, level); err != nil {
		return nil, err
	}
	size, err := g.config.Float("cellSize")
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("option cellSize must be positive, got %g", size)
	}
	return buildAltitude(g.table, float32(size), g.config.Bool("walkableOnly"))
}

func (g *GatImporter) DefaultScene() (int, bool) { return -1, false }
func (g *GatImporter) SceneCount() int           { return 0 }

func (g *GatImporter) Scene(id int) (*scene.Graph, error) {
	return nil, fmt.Errorf("scene %d: %w", id, ErrNoScene)
}

func buildAltitude(gat *formats.GAT, size float32, walkableOnly bool) (*mesh.Mesh, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		types     []uint32
		indices   []uint32
	)

	for y := range int(gat.Height) {
		for x := range int(gat.Width) {
			c := gat.Cell(x, y)
			if walkableOnly && !c.Type.IsWalkable() {
				continue
			}
			x0, z0 := float32(x)*size, float32(y)*size
			corners := [4]math.Vec3{
				{X: x0, Y: -c.Heights[0], Z: z0 + size},
				{X: x0 + size, Y: -c.Heights[1], Z: z0 + size},
				{X: x0, Y: -c.Heights[2], Z: z0},
				{X: x0 + size, Y: -c.Heights[3], Z: z0},
			}
			normal := corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0])).Normalize()

			base := uint32(len(positions))
			for _, corner := range corners {
				positions = append(positions, corner.Array())
				normals = append(normals, normal.Array())
				types = append(types, uint32(c.Type))
			}
			indices = append(indices, base, base+1, base+2, base+2, base+1, base+3)
		}
	}

	return mesh.NewBuilder(mesh.PrimitiveTriangles).
		AddVector3(mesh.AttributePosition, positions).
		AddVector3(mesh.AttributeNormal, normals).
		AddUnsignedInt(mesh.AttributeObjectID, types).
		Indices(indices).
		Build()
}
