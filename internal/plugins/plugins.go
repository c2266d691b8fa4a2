// Package plugins builds the registries of every importer and scene
// converter the tool ships with.
package plugins

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/internal/plugins/converter"
	"github.com/Faultbox/meshconv/internal/plugins/importer"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// Importers returns a registry with all importers. log receives option
// warnings from the dispatching proxy.
func Importers(log *zap.Logger) *trade.Registry[trade.Importer] {
	reg := trade.NewRegistry[trade.Importer]()
	reg.Register(importer.AnyName, func() trade.Importer { return importer.NewAny(reg, log) })
	reg.Register(importer.RsmName, func() trade.Importer { return importer.NewRsm() })
	reg.Register(importer.GndName, func() trade.Importer { return importer.NewGnd() })
	reg.Register(importer.GatName, func() trade.Importer { return importer.NewGat() })
	return reg
}

// Converters returns a registry with all scene converters.
func Converters(log *zap.Logger) *trade.Registry[trade.SceneConverter] {
	reg := trade.NewRegistry[trade.SceneConverter]()
	reg.Register(converter.AnyName, func() trade.SceneConverter { return converter.NewAny(reg, log) })
	reg.Register(converter.StanfordName, func() trade.SceneConverter { return converter.NewStanford(log) })
	reg.Register(converter.ObjName, func() trade.SceneConverter { return converter.NewObj() })
	reg.Register(converter.StlName, func() trade.SceneConverter { return converter.NewStl() })
	reg.Register(converter.YamlName, func() trade.SceneConverter { return converter.NewYaml() })
	reg.Register(converter.SmoothName, func() trade.SceneConverter { return converter.NewSmoothNormals() })
	reg.Register(converter.CenterName, func() trade.SceneConverter { return converter.NewCenter() })
	reg.Register(converter.DegenerateName, func() trade.SceneConverter { return converter.NewDegenerateCleanup() })
	return reg
}
