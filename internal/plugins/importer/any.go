package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// extensions maps lowercase file extensions to importer plugins.
var extensions = map[string]string{
	".rsm": RsmName,
	".gnd": GndName,
	".gat": GatName,
}

// ForExtension returns the importer plugin for a file name.
func ForExtension(name string) (string, bool) {
	plugin, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return plugin, ok
}

// AnySceneImporter picks the concrete importer from the file extension and
// forwards everything to it. Options set on the proxy are copied to the
// concrete importer when a file is opened.
type AnySceneImporter struct {
	registry *trade.Registry[trade.Importer]
	log      *zap.Logger
	config   *trade.Configuration
	impl     trade.Importer
}

// NewAny creates the proxy. registry is where the concrete importers are
// instantiated from.
func NewAny(registry *trade.Registry[trade.Importer], log *zap.Logger) *AnySceneImporter {
	if log == nil {
		log = zap.NewNop()
	}
	config := trade.NewConfiguration()
	config.Passthrough = true
	return &AnySceneImporter{registry: registry, log: log, config: config}
}

func (a *AnySceneImporter) Name() string                        { return AnyName }
func (a *AnySceneImporter) Configuration() *trade.Configuration { return a.config }

func (a *AnySceneImporter) delegate(name string) error {
	a.Close()
	plugin, ok := ForExtension(name)
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknownFormat, name)
	}
	impl, err := a.registry.Instantiate(plugin)
	if err != nil {
		return err
	}
	for _, key := range a.config.CopyTo(impl.Configuration()) {
		a.log.Warn(fmt.Sprintf("option %s not recognized by %s", key, plugin))
	}
	a.impl = impl
	return nil
}

func (a *AnySceneImporter) OpenFile(path string) error {
	if err := a.delegate(path); err != nil {
		return err
	}
	return a.impl.OpenFile(path)
}

func (a *AnySceneImporter) OpenData(name string, data []byte) error {
	if err := a.delegate(name); err != nil {
		return err
	}
	return a.impl.OpenData(name, data)
}

func (a *AnySceneImporter) Close() {
	if a.impl != nil {
		a.impl.Close()
		a.impl = nil
	}
}

func (a *AnySceneImporter) MeshCount() int {
	if a.impl == nil {
		return 0
	}
	return a.impl.MeshCount()
}

func (a *AnySceneImporter) MeshName(id int) string {
	if a.impl == nil {
		return ""
	}
	return a.impl.MeshName(id)
}

func (a *AnySceneImporter) MeshLevelCount(id int) int {
	if a.impl == nil {
		return 0
	}
	return a.impl.MeshLevelCount(id)
}

func (a *AnySceneImporter) Mesh(id, level int) (*mesh.Mesh, error) {
	if a.impl == nil {
		return nil, ErrNotOpened
	}
	return a.impl.Mesh(id, level)
}

func (a *AnySceneImporter) DefaultScene() (int, bool) {
	if a.impl == nil {
		return -1, false
	}
	return a.impl.DefaultScene()
}

func (a *AnySceneImporter) SceneCount() int {
	if a.impl == nil {
		return 0
	}
	return a.impl.SceneCount()
}

func (a *AnySceneImporter) Scene(id int) (*scene.Graph, error) {
	if a.impl == nil {
		return nil, ErrNotOpened
	}
	return a.impl.Scene(id)
}
