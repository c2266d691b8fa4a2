// Package pipeline drives a conversion: open the source, import and
// optionally flatten and concatenate its meshes, filter and deduplicate,
// then hand the result to the converter chain.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/meshtools"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// DefaultImporter is used when no importer is requested.
const DefaultImporter = "AnySceneImporter"

// Options selects the stages of a run.
type Options struct {
	Importer         string
	ImporterOptions  string
	Converters       []string
	ConverterOptions []string
	DefaultConverter string

	Mesh        int
	Level       int
	Concatenate bool

	// OnlyAttributes is a number sequence of attribute IDs to keep, checked
	// against the imported mesh. Empty keeps all.
	OnlyAttributes   string
	RemoveDuplicates bool
	Fuzzy            bool
	FuzzyEpsilon     float64

	Verbose bool
	Profile bool
}

// Reader loads input files. It lets inputs come from archives as well as
// from disk.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// Pipeline runs one conversion.
type Pipeline struct {
	importers  *trade.Registry[trade.Importer]
	converters *trade.Registry[trade.SceneConverter]
	source     Reader
	log        *zap.Logger
	opts       Options
	timer      *Stopwatch
}

// New creates a pipeline. source may be nil, in which case importers open
// files themselves.
func New(importers *trade.Registry[trade.Importer], converters *trade.Registry[trade.SceneConverter],
	source Reader, log *zap.Logger, opts Options) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{
		importers:  importers,
		converters: converters,
		source:     source,
		log:        log.With(zap.String("run", uuid.NewString())),
		opts:       opts,
	}
	if opts.Profile {
		p.timer = NewStopwatch()
	}
	return p
}

// Timer returns the profiling stopwatch, nil unless profiling is enabled.
func (p *Pipeline) Timer() *Stopwatch { return p.timer }

// Open instantiates the importer and opens input with it. The caller must
// Close the importer.
func (p *Pipeline) Open(input string) (trade.Importer, error) {
	name := p.opts.Importer
	if name == "" {
		name = DefaultImporter
	}
	imp, err := p.importers.Instantiate(name)
	if err != nil {
		p.log.Info("Available importer plugins: " + strings.Join(p.importers.KnownNames(), ", "))
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	for _, w := range trade.SetOptions(imp, p.opts.ImporterOptions) {
		p.log.Warn(w)
	}

	stop := p.timer.Start(StageImport)
	defer stop()

	if p.source == nil {
		err = imp.OpenFile(input)
	} else {
		var data []byte
		if data, err = p.source.ReadFile(input); err == nil {
			err = imp.OpenData(input, data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSourceUnavailable, input, err)
	}
	return imp, nil
}

// Import produces the single mesh the rest of the pipeline works on.
func (p *Pipeline) Import(imp trade.Importer, input string) (*mesh.Mesh, error) {
	if imp.MeshCount() == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMeshes, input)
	}

	stop := p.timer.Start(StageImport)
	defer stop()

	if !p.opts.Concatenate {
		if p.opts.Mesh < 0 || p.opts.Mesh >= imp.MeshCount() {
			return nil, fmt.Errorf("%w: mesh %d out of range, file has %d meshes",
				ErrMeshImport, p.opts.Mesh, imp.MeshCount())
		}
		m, err := imp.Mesh(p.opts.Mesh, p.opts.Level)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrMeshImport, p.opts.Mesh, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w %d: importer returned no mesh", ErrMeshImport, p.opts.Mesh)
		}
		return m, nil
	}

	meshes, err := p.placeMeshes(imp)
	if err != nil {
		return nil, err
	}
	if err := checkConcatenable(meshes); err != nil {
		return nil, err
	}
	m, err := meshtools.Concatenate(meshes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMeshImport, err)
	}
	return m, nil
}

// placeMeshes imports every mesh and bakes the default scene's world
// transforms into them. Without a default scene all meshes stay where they
// are.
func (p *Pipeline) placeMeshes(imp trade.Importer) ([]*mesh.Mesh, error) {
	meshes := make([]*mesh.Mesh, imp.MeshCount())
	for i := range meshes {
		m, err := imp.Mesh(i, 0)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %w", ErrMeshImport, i, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%w %d: importer returned no mesh", ErrMeshImport, i)
		}
		meshes[i] = m
	}

	instances, err := scene.FlattenDefault(imp)
	if errors.Is(err, scene.ErrNoDefaultScene) {
		return meshes, nil
	}
	if err != nil {
		id, _ := imp.DefaultScene()
		return nil, fmt.Errorf("%w: cannot import scene %d for mesh concatenation: %w", ErrMeshImport, id, err)
	}
	if len(instances) == 0 {
		return nil, fmt.Errorf("%w: the default scene references no meshes", ErrNoMeshes)
	}

	uses := make([]int, len(meshes))
	for _, in := range instances {
		if in.Mesh >= len(meshes) {
			return nil, fmt.Errorf("%w: object %d references mesh %d, file has %d meshes",
				ErrMeshImport, in.Object, in.Mesh, len(meshes))
		}
		uses[in.Mesh]++
	}

	placed := make([]*mesh.Mesh, 0, len(instances))
	for _, in := range instances {
		src := meshes[in.Mesh]
		uses[in.Mesh]--
		if uses[in.Mesh] > 0 {
			src = src.Clone()
		}
		placed = append(placed, meshtools.Transform(src, in.Transform))
	}
	return placed, nil
}

func checkConcatenable(meshes []*mesh.Mesh) error {
	for i, m := range meshes {
		if m.Primitive().IsStripLike() {
			return fmt.Errorf("%w: mesh %d is %s, only non-strip primitives can be concatenated",
				meshtools.ErrIncompatiblePrimitive, i, m.Primitive())
		}
	}
	return nil
}

// Process applies attribute filtering and duplicate removal.
func (p *Pipeline) Process(m *mesh.Mesh) (*mesh.Mesh, error) {
	if p.opts.OnlyAttributes != "" {
		ids, err := trade.ParseNumberSequence(p.opts.OnlyAttributes, m.AttributeCount())
		if errors.Is(err, trade.ErrNumberOutOfRange) {
			return nil, fmt.Errorf("%w: %w", meshtools.ErrAttributeIndexOutOfRange, err)
		}
		if err != nil {
			return nil, err
		}
		out, err := meshtools.FilterAttributes(m, ids)
		if err != nil {
			return nil, err
		}
		m = out
	}

	if p.opts.RemoveDuplicates {
		stop := p.timer.Start(StageConversion)
		out, stats := meshtools.RemoveDuplicates(m)
		stop()
		p.log.Debug(fmt.Sprintf("Duplicate removal: %d -> %d vertices", stats.Before, stats.After))
		m = out
	}

	if p.opts.Fuzzy {
		stop := p.timer.Start(StageConversion)
		out, stats, err := meshtools.RemoveDuplicatesFuzzy(m, p.opts.FuzzyEpsilon)
		stop()
		if err != nil {
			return nil, err
		}
		p.log.Debug(fmt.Sprintf("Fuzzy duplicate removal: %d -> %d vertices", stats.Before, stats.After))
		m = out
	}

	return m, nil
}

// Chain returns the converter chain for this run.
func (p *Pipeline) Chain() *Chain {
	return &Chain{
		Registry: p.converters,
		Hops:     BuildHops(p.opts.Converters, p.opts.ConverterOptions, p.opts.DefaultConverter),
		Log:      p.log,
		Verbose:  p.opts.Verbose,
		Timer:    p.timer,
	}
}

// Run converts input to output.
func (p *Pipeline) Run(input, output string) error {
	imp, err := p.Open(input)
	if err != nil {
		return err
	}
	defer imp.Close()

	m, err := p.Import(imp, input)
	if err != nil {
		return err
	}
	if m, err = p.Process(m); err != nil {
		return err
	}
	if err := p.Chain().Run(m, output); err != nil {
		return err
	}

	p.LogProfile()
	return nil
}

// LogProfile logs the stage timings when profiling is enabled.
func (p *Pipeline) LogProfile() {
	if p.opts.Profile {
		p.log.Info(p.timer.Summary())
	}
}
