package importer

import (
	"fmt"

	"github.com/Faultbox/meshconv/pkg/formats"
	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// wallThreshold is the altitude difference below which neighboring tiles
// are considered flush and get no wall.
const wallThreshold = 0.001

// GndImporter imports the ground of a GND terrain file as one indexed
// triangle mesh. Terrain files carry no hierarchy, so there is no scene.
//
// Options:
//   - walls: build vertical quads between tiles of different height
type GndImporter struct {
	config *trade.Configuration
	ground *formats.GND
}

// NewGnd creates a GND importer.
func NewGnd() *GndImporter {
	return &GndImporter{config: trade.NewConfiguration("walls", "true")}
}

func (g *GndImporter) Name() string                        { return GndName }
func (g *GndImporter) Configuration() *trade.Configuration { return g.config }

func (g *GndImporter) OpenFile(path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return g.OpenData(path, data)
}

func (g *GndImporter) OpenData(name string, data []byte) error {
	ground, err := formats.ParseGND(data)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	g.ground = ground
	return nil
}

func (g *GndImporter) Close() { g.ground = nil }

func (g *GndImporter) MeshCount() int {
	if g.ground == nil {
		return 0
	}
	return 1
}

func (g *GndImporter) MeshName(id int) string {
	if id != 0 || g.ground == nil {
		return ""
	}
	return "ground"
}

func (g *GndImporter) MeshLevelCount(id int) int {
	if id != 0 || g.ground == nil {
		return 0
	}
	return 1
}

func (g *GndImporter) Mesh(id, level int) (*mesh.Mesh, error) {
	if g.ground == nil {
		return nil, ErrNotOpened
	}
	if err := checkLevel(id, 1, level); err != nil {
		return nil, err
	}
	return buildGround(g.ground, g.config.Bool("walls"))
}

func (g *GndImporter) DefaultScene() (int, bool) { return -1, false }
func (g *GndImporter) SceneCount() int           { return 0 }

func (g *GndImporter) Scene(id int) (*scene.Graph, error) {
	return nil, fmt.Errorf("scene %d: %w", id, ErrNoScene)
}

type groundBuilder struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	colors    [][4]uint8
	indices   []uint32
}

// quad appends four corners and two triangles. flip selects the wall
// winding (0,2,1 1,2,3) over the top one (0,1,2 2,1,3).
func (b *groundBuilder) quad(corners [4]math.Vec3, u, v [4]float32, normal math.Vec3, color [4]uint8, flip bool) {
	base := uint32(len(b.positions))
	for i, c := range corners {
		b.positions = append(b.positions, c.Array())
		b.normals = append(b.normals, normal.Array())
		b.uvs = append(b.uvs, [2]float32{u[i], v[i]})
		b.colors = append(b.colors, color)
	}
	if flip {
		b.indices = append(b.indices, base, base+2, base+1, base+1, base+2, base+3)
	} else {
		b.indices = append(b.indices, base, base+1, base+2, base+2, base+1, base+3)
	}
}

var (
	white       = [4]uint8{255, 255, 255, 255}
	fallbackU   = [4]float32{0, 1, 0, 1}
	fallbackV   = [4]float32{0, 0, 1, 1}
	frontNormal = math.Vec3{Z: -1}
	rightNormal = math.Vec3{X: 1}
)

// wallUV picks the wall's own surface, falling back to a unit mapping when
// only the top surface exists.
func wallUV(gnd *formats.GND, t *formats.GNDTile, wall int32) (u, v [4]float32, ok bool) {
	if s := gnd.Surface(wall); s != nil {
		return s.U, s.V, true
	}
	if gnd.Surface(t.TopSurface) != nil {
		return fallbackU, fallbackV, true
	}
	return u, v, false
}

func buildGround(gnd *formats.GND, walls bool) (*mesh.Mesh, error) {
	var b groundBuilder
	size := gnd.Zoom

	for y := range int(gnd.Height) {
		for x := range int(gnd.Width) {
			t := gnd.Tile(x, y)
			x0, z0 := float32(x)*size, float32(y)*size

			// Altitude grows downwards. Corners are BL, BR, TL, TR.
			corners := [4]math.Vec3{
				{X: x0, Y: -t.Altitude[0], Z: z0 + size},
				{X: x0 + size, Y: -t.Altitude[1], Z: z0 + size},
				{X: x0, Y: -t.Altitude[2], Z: z0},
				{X: x0 + size, Y: -t.Altitude[3], Z: z0},
			}

			if s := gnd.Surface(t.TopSurface); s != nil {
				normal := corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0])).Normalize()
				u := [4]float32{s.U[2], s.U[3], s.U[0], s.U[1]}
				v := [4]float32{s.V[2], s.V[3], s.V[0], s.V[1]}
				b.quad(corners, u, v, normal, s.RGBA(), false)
			}
			if !walls {
				continue
			}

			if next := gnd.Tile(x, y+1); next != nil && differs(t.Altitude[0], next.Altitude[2], t.Altitude[1], next.Altitude[3]) {
				if u, v, ok := wallUV(gnd, t, t.FrontSurface); ok {
					wall := [4]math.Vec3{
						corners[0],
						corners[1],
						{X: x0, Y: -next.Altitude[2], Z: z0 + size},
						{X: x0 + size, Y: -next.Altitude[3], Z: z0 + size},
					}
					b.quad(wall, u, v, frontNormal, white, true)
				}
			}
			if next := gnd.Tile(x+1, y); next != nil && differs(t.Altitude[1], next.Altitude[0], t.Altitude[3], next.Altitude[2]) {
				if u, v, ok := wallUV(gnd, t, t.RightSurface); ok {
					wall := [4]math.Vec3{
						corners[3],
						corners[1],
						{X: x0 + size, Y: -next.Altitude[2], Z: z0},
						{X: x0 + size, Y: -next.Altitude[0], Z: z0 + size},
					}
					b.quad(wall, u, v, rightNormal, white, true)
				}
			}
		}
	}

	return mesh.NewBuilder(mesh.PrimitiveTriangles).
		AddVector3(mesh.AttributePosition, b.positions).
		AddVector3(mesh.AttributeNormal, b.normals).
		AddVector2(mesh.AttributeTextureCoordinates, b.uvs).
		AddColor4ub(mesh.AttributeColor, b.colors).
		Indices(b.indices).
		Build()
}

func differs(a0, b0, a1, b1 float32) bool {
	return abs(a0-b0) > wallThreshold || abs(a1-b1) > wallThreshold
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
