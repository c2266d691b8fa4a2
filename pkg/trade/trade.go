// Package trade declares the plugin contracts of the conversion tool:
// scene importers, scene converters, the registries they are looked up in
// and the string options they are configured with.
package trade

import (
	"strings"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/scene"
)

// Feature is a capability a scene converter declares.
type Feature uint8

const (
	// ConvertMesh converts a mesh to another mesh in memory.
	ConvertMesh Feature = 1 << iota
	// ConvertMeshToFile writes a mesh to a file.
	ConvertMeshToFile
)

// Has reports whether all features in other are present.
func (f Feature) Has(other Feature) bool {
	return f&other == other
}

func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(ConvertMesh) {
		parts = append(parts, "ConvertMesh")
	}
	if f.Has(ConvertMeshToFile) {
		parts = append(parts, "ConvertMeshToFile")
	}
	return strings.Join(parts, "|")
}

// Importer opens a scene file and exposes its meshes and hierarchy.
type Importer interface {
	Configurable

	OpenFile(path string) error
	// OpenData opens an in-memory file. name is used for format detection
	// and diagnostics.
	OpenData(name string, data []byte) error
	Close()

	MeshCount() int
	MeshName(id int) string
	MeshLevelCount(id int) int
	Mesh(id, level int) (*mesh.Mesh, error)

	DefaultScene() (int, bool)
	SceneCount() int
	Scene(id int) (*scene.Graph, error)
}

// SceneConverter converts meshes in memory or to files.
type SceneConverter interface {
	Configurable

	Features() Feature
	Convert(m *mesh.Mesh) (*mesh.Mesh, error)
	ConvertToFile(m *mesh.Mesh, filename string) error
}
