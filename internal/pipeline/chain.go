package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// DefaultConverter is appended after the requested converters.
const DefaultConverter = "AnySceneConverter"

// Hop is one converter invocation in the chain.
type Hop struct {
	Name    string
	Options string
}

// BuildHops returns requested followed by def. options[i] configures hop i.
func BuildHops(requested, options []string, def string) []Hop {
	if def == "" {
		def = DefaultConverter
	}
	hops := make([]Hop, 0, len(requested)+1)
	for _, name := range requested {
		hops = append(hops, Hop{Name: name})
	}
	hops = append(hops, Hop{Name: def})
	for i := range hops {
		if i < len(options) {
			hops[i].Options = options[i]
		}
	}
	return hops
}

// IsTerminal reports whether hop i of a chain with n requested converters
// writes the output file: it is the last requested converter or the
// implicit default, and it can write files.
func IsTerminal(i, n int, features trade.Feature) bool {
	return i+1 >= n && features.Has(trade.ConvertMeshToFile)
}

// Chain pipes a mesh through converter backends and writes the result with
// the first terminal hop.
type Chain struct {
	Registry *trade.Registry[trade.SceneConverter]
	Hops     []Hop
	Log      *zap.Logger
	Verbose  bool
	Timer    *Stopwatch
}

// Run executes the hops in order. The mesh is consumed.
func (c *Chain) Run(m *mesh.Mesh, output string) error {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	n := len(c.Hops) - 1

	for i, hop := range c.Hops {
		conv, err := c.Registry.Instantiate(hop.Name)
		if err != nil {
			log.Info("Available converter plugins: " + strings.Join(c.Registry.KnownNames(), ", "))
			return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		for _, w := range trade.SetOptions(conv, hop.Options) {
			log.Warn(w)
		}

		features := conv.Features()
		if IsTerminal(i, n, features) {
			if n > 1 && c.Verbose {
				log.Info(fmt.Sprintf("Saving output (%d/%d) with %s...", i+1, n, hop.Name))
			}
			stop := c.Timer.Start(StageConversion)
			err := conv.ConvertToFile(m, output)
			stop()
			if err != nil {
				return fmt.Errorf("%w %s with %s: %w", ErrConversionToFileFailed, output, hop.Name, err)
			}
			return nil
		}

		if i >= n {
			return fmt.Errorf("%w: %s doesn't support mesh conversion to a file, only %s",
				ErrCapabilityMismatch, hop.Name, features)
		}
		if n > 1 && c.Verbose {
			log.Info(fmt.Sprintf("Processing (%d/%d) with %s...", i+1, n, hop.Name))
		}
		if !features.Has(trade.ConvertMesh) {
			return fmt.Errorf("%w: %s doesn't support mesh conversion, only %s",
				ErrCapabilityMismatch, hop.Name, features)
		}

		stop := c.Timer.Start(StageConversion)
		out, err := conv.Convert(m)
		stop()
		if err != nil {
			return fmt.Errorf("%w: %s cannot convert the mesh: %w", ErrConversionFailed, hop.Name, err)
		}
		if out == nil {
			return fmt.Errorf("%w: %s returned no mesh", ErrConversionFailed, hop.Name)
		}
		m = out
	}

	return fmt.Errorf("%w: empty converter chain", ErrCapabilityMismatch)
}
