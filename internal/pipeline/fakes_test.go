package pipeline

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// memImporter serves fixed meshes and an optional default scene. A nil
// entry comes back as a nil mesh with no error.
type memImporter struct {
	meshes  []*mesh.Mesh
	graph   *scene.Graph
	conf    *trade.Configuration
	opened  string
	openErr error
	closed  bool
}

func (m *memImporter) Name() string { return "MemImporter" }

func (m *memImporter) Configuration() *trade.Configuration {
	if m.conf == nil {
		m.conf = trade.NewConfiguration()
	}
	return m.conf
}

func (m *memImporter) OpenFile(path string) error {
	m.opened = path
	return m.openErr
}

func (m *memImporter) OpenData(name string, _ []byte) error {
	m.opened = name
	return m.openErr
}

func (m *memImporter) Close()                 { m.closed = true }
func (m *memImporter) MeshCount() int         { return len(m.meshes) }
func (m *memImporter) MeshName(int) string    { return "" }
func (m *memImporter) MeshLevelCount(int) int { return 1 }
func (m *memImporter) SceneCount() int {
	if m.graph == nil {
		return 0
	}
	return 1
}

func (m *memImporter) Mesh(id, level int) (*mesh.Mesh, error) {
	if id >= len(m.meshes) || level != 0 {
		return nil, fmt.Errorf("no mesh %d level %d", id, level)
	}
	if m.meshes[id] == nil {
		return nil, nil
	}
	return m.meshes[id].Clone(), nil
}

func (m *memImporter) DefaultScene() (int, bool) { return 0, m.graph != nil }

func (m *memImporter) Scene(id int) (*scene.Graph, error) {
	if m.graph == nil || id != 0 {
		return nil, errors.New("no such scene")
	}
	return m.graph, nil
}

// fakeConverter records what happens to it.
type fakeConverter struct {
	name     string
	features trade.Feature
	conf     *trade.Configuration
	convert  func(*mesh.Mesh) (*mesh.Mesh, error)
	saveErr  error

	converted int
	saved     []string
	last      *mesh.Mesh
}

func (c *fakeConverter) Name() string { return c.name }

func (c *fakeConverter) Configuration() *trade.Configuration {
	if c.conf == nil {
		c.conf = trade.NewConfiguration("flag", "")
	}
	return c.conf
}

func (c *fakeConverter) Features() trade.Feature { return c.features }

func (c *fakeConverter) Convert(m *mesh.Mesh) (*mesh.Mesh, error) {
	c.converted++
	if c.convert != nil {
		return c.convert(m)
	}
	return m, nil
}

func (c *fakeConverter) ConvertToFile(m *mesh.Mesh, filename string) error {
	c.saved = append(c.saved, filename)
	c.last = m
	return c.saveErr
}

// registryOf registers each converter under its name, handing out the same
// instance every time so tests can inspect it.
func registryOf(convs ...*fakeConverter) *trade.Registry[trade.SceneConverter] {
	r := trade.NewRegistry[trade.SceneConverter]()
	for _, c := range convs {
		r.Register(c.name, func() trade.SceneConverter { return c })
	}
	return r
}

func importerRegistry(imp *memImporter) *trade.Registry[trade.Importer] {
	r := trade.NewRegistry[trade.Importer]()
	r.Register(DefaultImporter, func() trade.Importer { return imp })
	return r
}

func quad() *mesh.Mesh {
	return mesh.NewBuilder(mesh.PrimitiveTriangles).
		AddVector3(mesh.AttributePosition, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}).
		Indices([]uint32{0, 1, 2, 2, 1, 3}).
		MustBuild()
}
