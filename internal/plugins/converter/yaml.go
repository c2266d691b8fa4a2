package converter

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// MeshDump is the document YamlSceneConverter writes.
type MeshDump struct {
	Primitive   string          `yaml:"primitive"`
	VertexCount int             `yaml:"vertex_count"`
	Indices     []uint32        `yaml:"indices,omitempty,flow"`
	Attributes  []AttributeDump `yaml:"attributes"`
}

// AttributeDump holds one attribute's values, one row per vertex.
// Normalized byte components are written in [0, 1].
type AttributeDump struct {
	Name   string      `yaml:"name"`
	Format string      `yaml:"format"`
	Data   [][]float32 `yaml:"data,flow"`
}

// YamlSceneConverter dumps a mesh as YAML, for inspection and diffing.
//
// Options:
//   - indices: include the index buffer
type YamlSceneConverter struct {
	fileOnly
	config *trade.Configuration
}

func NewYaml() *YamlSceneConverter {
	return &YamlSceneConverter{config: trade.NewConfiguration("indices", "true")}
}

func (y *YamlSceneConverter) Name() string                        { return YamlName }
func (y *YamlSceneConverter) Configuration() *trade.Configuration { return y.config }

// Dump builds the document for m.
func Dump(m *mesh.Mesh, withIndices bool) MeshDump {
	d := MeshDump{
		Primitive:   m.Primitive().String(),
		VertexCount: m.VertexCount(),
	}
	if withIndices && m.IsIndexed() {
		d.Indices = append([]uint32(nil), m.Indices()...)
	}
	for id, a := range m.Attributes() {
		ad := AttributeDump{
			Name:   a.Name.String(),
			Format: a.Format.String(),
			Data:   make([][]float32, m.VertexCount()),
		}
		for v := range ad.Data {
			row := make([]float32, a.Format.ComponentCount())
			for c := range row {
				row[c] = m.Component(id, v, c)
			}
			ad.Data[v] = row
		}
		d.Attributes = append(d.Attributes, ad)
	}
	return d
}

func (y *YamlSceneConverter) ConvertToFile(m *mesh.Mesh, filename string) error {
	doc := Dump(m, y.config.Bool("indices"))
	return writeFile(filename, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	})
}
