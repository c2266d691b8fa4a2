package converter

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

var extensions = map[string]string{
	".ply":  StanfordName,
	".obj":  ObjName,
	".stl":  StlName,
	".yaml": YamlName,
	".yml":  YamlName,
}

// ForExtension returns the writer plugin for an output file name.
func ForExtension(name string) (string, bool) {
	plugin, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return plugin, ok
}

// AnySceneConverter is the default last hop of every chain. It picks a
// writer from the output extension and hands it its own options.
type AnySceneConverter struct {
	fileOnly
	registry *trade.Registry[trade.SceneConverter]
	log      *zap.Logger
	config   *trade.Configuration
}

func NewAny(registry *trade.Registry[trade.SceneConverter], log *zap.Logger) *AnySceneConverter {
	config := trade.NewConfiguration()
	config.Passthrough = true
	return &AnySceneConverter{registry: registry, log: nopIfNil(log), config: config}
}

func (a *AnySceneConverter) Name() string                        { return AnyName }
func (a *AnySceneConverter) Configuration() *trade.Configuration { return a.config }

func (a *AnySceneConverter) ConvertToFile(m *mesh.Mesh, filename string) error {
	plugin, ok := ForExtension(filename)
	if !ok {
		return fmt.Errorf("%w %s", ErrUnknownFormat, filename)
	}
	impl, err := a.registry.Instantiate(plugin)
	if err != nil {
		return err
	}
	if !impl.Features().Has(trade.ConvertMeshToFile) {
		return fmt.Errorf("%w: %s cannot write files", ErrUnsupported, plugin)
	}
	for _, key := range a.config.CopyTo(impl.Configuration()) {
		a.log.Warn(fmt.Sprintf("option %s not recognized by %s", key, plugin))
	}
	return impl.ConvertToFile(m, filename)
}
