package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshconv/pkg/math"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/meshtools"
	"github.com/Faultbox/meshconv/pkg/scene"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// twoNodeImporter holds two quads, placed by an identity root with two
// translated children when withScene is set.
func twoNodeImporter(withScene bool) *memImporter {
	imp := &memImporter{meshes: []*mesh.Mesh{quad(), quad()}}
	if withScene {
		imp.graph = &scene.Graph{Nodes: []scene.Node{
			{Name: "root", Parent: -1, Transform: math.Identity(), Mesh: -1},
			{Name: "a", Parent: 0, Transform: math.Translate(1, 0, 0), Mesh: 0},
			{Name: "b", Parent: 0, Transform: math.Translate(0, 1, 0), Mesh: 1},
		}}
	}
	return imp
}

func run(t *testing.T, imp *memImporter, opts Options) (*fakeConverter, error) {
	t.Helper()
	def := &fakeConverter{name: DefaultConverter, features: trade.ConvertMeshToFile}
	p := New(importerRegistry(imp), registryOf(def), nil, zap.NewNop(), opts)
	return def, p.Run("in.rsm", "out.ply")
}

func TestRunConcatenatesWithDefaultScene(t *testing.T) {
	def, err := run(t, twoNodeImporter(true), Options{Concatenate: true})
	require.NoError(t, err)
	require.NotNil(t, def.last)

	out := def.last
	assert.Equal(t, 8, out.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 3, 4, 5, 6, 6, 5, 7}, out.Indices())
	assert.Equal(t, [][3]float32{
		{1, 0, 0}, {2, 0, 0}, {1, 1, 0}, {2, 1, 0},
		{0, 1, 0}, {1, 1, 0}, {0, 2, 0}, {1, 2, 0},
	}, out.Vector3(0))
}

func TestRunConcatenatesWithoutScene(t *testing.T) {
	def, err := run(t, twoNodeImporter(false), Options{Concatenate: true})
	require.NoError(t, err)

	out := def.last
	assert.Equal(t, 8, out.VertexCount())
	assert.Equal(t, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	}, out.Vector3(0))
}

func TestRunSharedMeshInstances(t *testing.T) {
	imp := &memImporter{
		meshes: []*mesh.Mesh{quad()},
		graph: &scene.Graph{Nodes: []scene.Node{
			{Name: "root", Parent: -1, Transform: math.Translate(0, 0, 1), Mesh: -1},
			{Name: "a", Parent: 0, Transform: math.Identity(), Mesh: 0},
			{Name: "b", Parent: 0, Transform: math.Translate(2, 0, 0), Mesh: 0},
		}},
	}
	def, err := run(t, imp, Options{Concatenate: true, RemoveDuplicates: true})
	require.NoError(t, err)

	pos := def.last.Vector3(0)
	require.Len(t, pos, 8)
	assert.Equal(t, [3]float32{0, 0, 1}, pos[0])
	assert.Equal(t, [3]float32{2, 0, 1}, pos[4])
}

func TestRunSingleMeshSelection(t *testing.T) {
	imp := twoNodeImporter(true)
	def, err := run(t, imp, Options{Mesh: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, def.last.VertexCount())
	assert.True(t, imp.closed)

	_, err = run(t, twoNodeImporter(true), Options{Mesh: 2})
	assert.ErrorIs(t, err, ErrMeshImport)

	_, err = run(t, twoNodeImporter(true), Options{Level: 1})
	assert.ErrorIs(t, err, ErrMeshImport)
}

func TestRunOnlyAttributesAfterConcatenation(t *testing.T) {
	withUV := func() *mesh.Mesh {
		return mesh.NewBuilder(mesh.PrimitiveTriangles).
			AddVector3(mesh.AttributePosition, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}).
			AddVector2(mesh.AttributeTextureCoordinates, [][2]float32{{0, 0}, {1, 0}, {0, 1}}).
			MustBuild()
	}
	imp := &memImporter{meshes: []*mesh.Mesh{withUV(), withUV()}}

	def, err := run(t, imp, Options{Concatenate: true, OnlyAttributes: "1"})
	require.NoError(t, err)
	require.Equal(t, 1, def.last.AttributeCount())
	assert.Equal(t, mesh.AttributeTextureCoordinates, def.last.Attribute(0).Name)
	assert.Equal(t, 6, def.last.VertexCount())

	def, err = run(t, &memImporter{meshes: []*mesh.Mesh{withUV()}}, Options{OnlyAttributes: "3-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, def.last.AttributeCount())

	_, err = run(t, &memImporter{meshes: []*mesh.Mesh{withUV()}}, Options{OnlyAttributes: "2"})
	assert.ErrorIs(t, err, meshtools.ErrAttributeIndexOutOfRange)

	def, err = run(t, &memImporter{meshes: []*mesh.Mesh{withUV()}}, Options{OnlyAttributes: "0-2147483647"})
	assert.ErrorIs(t, err, meshtools.ErrAttributeIndexOutOfRange)
	assert.ErrorIs(t, err, trade.ErrNumberOutOfRange)
	assert.Empty(t, def.saved)

	_, err = run(t, &memImporter{meshes: []*mesh.Mesh{withUV()}}, Options{OnlyAttributes: "1,x"})
	assert.ErrorIs(t, err, trade.ErrInvalidNumberSequence)
}

func TestRunErrors(t *testing.T) {
	t.Run("no meshes", func(t *testing.T) {
		_, err := run(t, &memImporter{}, Options{})
		assert.ErrorIs(t, err, ErrNoMeshes)
		assert.Contains(t, err.Error(), "no meshes found in in.rsm")
	})

	t.Run("open fails", func(t *testing.T) {
		_, err := run(t, &memImporter{openErr: errors.New("missing")}, Options{})
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})

	t.Run("unknown importer", func(t *testing.T) {
		_, err := run(t, twoNodeImporter(false), Options{Importer: "Nope"})
		assert.ErrorIs(t, err, ErrBackendUnavailable)
	})

	t.Run("strip concatenation", func(t *testing.T) {
		strip := mesh.NewBuilder(mesh.PrimitiveTriangleStrip).
			AddVector3(mesh.AttributePosition, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}).
			MustBuild()
		_, err := run(t, &memImporter{meshes: []*mesh.Mesh{strip}}, Options{Concatenate: true})
		assert.ErrorIs(t, err, meshtools.ErrIncompatiblePrimitive)
	})

	t.Run("mixed primitives", func(t *testing.T) {
		lines := mesh.NewBuilder(mesh.PrimitiveLines).
			AddVector3(mesh.AttributePosition, [][3]float32{{0, 0, 0}, {1, 0, 0}}).
			MustBuild()
		_, err := run(t, &memImporter{meshes: []*mesh.Mesh{quad(), lines}}, Options{Concatenate: true})
		assert.ErrorIs(t, err, meshtools.ErrIncompatiblePrimitive)
	})

	t.Run("importer returns no mesh", func(t *testing.T) {
		_, err := run(t, &memImporter{meshes: []*mesh.Mesh{nil}}, Options{})
		assert.ErrorIs(t, err, ErrMeshImport)
		assert.Contains(t, err.Error(), "importer returned no mesh")
	})

	t.Run("importer returns no mesh while concatenating", func(t *testing.T) {
		def, err := run(t, &memImporter{meshes: []*mesh.Mesh{quad(), nil}}, Options{Concatenate: true})
		assert.ErrorIs(t, err, ErrMeshImport)
		assert.Contains(t, err.Error(), "mesh 1: importer returned no mesh")
		assert.Empty(t, def.saved)
	})

	t.Run("negative fuzzy epsilon", func(t *testing.T) {
		_, err := run(t, twoNodeImporter(false), Options{Fuzzy: true, FuzzyEpsilon: -1})
		assert.ErrorIs(t, err, meshtools.ErrNegativeEpsilon)
	})
}

type mapReader map[string][]byte

func (m mapReader) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func TestOpenThroughReader(t *testing.T) {
	imp := twoNodeImporter(false)
	p := New(importerRegistry(imp), registryOf(), mapReader{"in.rsm": {1}}, nil, Options{})

	got, err := p.Open("in.rsm")
	require.NoError(t, err)
	assert.Equal(t, "in.rsm", imp.opened)
	got.Close()

	_, err = p.Open("missing.rsm")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestRunLogsWithRunID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	def := &fakeConverter{name: DefaultConverter, features: trade.ConvertMeshToFile}
	p := New(importerRegistry(twoNodeImporter(false)), registryOf(def), nil, zap.New(core),
		Options{RemoveDuplicates: true, Profile: true})

	require.NoError(t, p.Run("in.rsm", "out.ply"))

	entries := logs.All()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Contains(t, e.ContextMap(), "run")
	}
	assert.Equal(t, 1, logs.FilterMessage("Duplicate removal: 4 -> 4 vertices").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("Import took").Len())
}

func TestStopwatch(t *testing.T) {
	var nilWatch *Stopwatch
	nilWatch.Start(StageImport)()
	assert.Zero(t, nilWatch.Total(StageImport))

	now := time.Unix(0, 0)
	s := NewStopwatch()
	s.now = func() time.Time { return now }

	stop := s.Start(StageConversion)
	now = now.Add(1500 * time.Millisecond)
	stop()

	assert.Equal(t, 1500*time.Millisecond, s.Total(StageConversion))
	assert.Equal(t, "Import took 0.000 seconds, conversion 1.500 seconds", s.Summary())
}
