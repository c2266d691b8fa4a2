package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshconv/internal/pipeline"
	"github.com/Faultbox/meshconv/internal/plugins"
	"github.com/Faultbox/meshconv/pkg/formats"
	"github.com/Faultbox/meshconv/pkg/meshtools"
	"github.com/Faultbox/meshconv/pkg/trade"
)

type memSource map[string][]byte

func (s memSource) ReadFile(path string) ([]byte, error) {
	if data, ok := s[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("boom"), exitFailure},
		{fmt.Errorf("%w in x.rsm", pipeline.ErrNoMeshes), exitFailure},
		{fmt.Errorf("%w: %w", pipeline.ErrBackendUnavailable, trade.ErrPluginNotFound), exitBadOptions},
		{fmt.Errorf("parse: %w", trade.ErrInvalidNumberSequence), exitBadOptions},
		{meshtools.ErrAttributeIndexOutOfRange, exitBadOptions},
		{meshtools.ErrNegativeEpsilon, exitBadOptions},
		{fmt.Errorf("%w x.rsm: %w", pipeline.ErrSourceUnavailable, os.ErrNotExist), exitSourceUnavailable},
		{fmt.Errorf("%w 2: bad", pipeline.ErrMeshImport), exitMeshImport},
		{meshtools.ErrIncompatiblePrimitive, exitMeshImport},
		{pipeline.ErrConversionToFileFailed, exitSaveFailed},
		{pipeline.ErrCapabilityMismatch, exitCapabilityMismatch},
		{pipeline.ErrConversionFailed, exitConversionFailed},
		// The hop error wins over what the converter reported.
		{fmt.Errorf("%w: %w", pipeline.ErrConversionFailed, meshtools.ErrIncompatiblePrimitive), exitConversionFailed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}

func model() []byte {
	node := func(name, parent string) formats.RSMNode {
		return formats.RSMNode{
			Name:     name,
			Parent:   parent,
			Matrix:   [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
			Scale:    [3]float32{1, 1, 1},
			Vertices: [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 0, 4}},
			Faces:    []formats.RSMFace{{VertexIDs: [3]uint16{0, 1, 2}}},
		}
	}
	return formats.EncodeRSM(&formats.RSM{
		Version: formats.RSMVersion{Major: 1, Minor: 5},
		Alpha:   1,
		Nodes:   []formats.RSMNode{node("base", ""), node("top", "base")},
	})
}

func newPipeline(src memSource, opts pipeline.Options) *pipeline.Pipeline {
	return pipeline.New(plugins.Importers(nil), plugins.Converters(nil), src, nil, opts)
}

func TestInfo(t *testing.T) {
	src := memSource{"tower.rsm": model()}

	var buf bytes.Buffer
	require.NoError(t, info(&buf, newPipeline(src, pipeline.Options{}), "tower.rsm", true))

	out := buf.String()
	assert.Contains(t, out, "Mesh 0: \"base\", 1 level(s)\n")
	assert.Contains(t, out, "Mesh 1: \"top\", 1 level(s)\n")
	assert.Contains(t, out, "  Level 0: Triangles, 3 vertices, 3 indices\n")
	assert.Contains(t, out, "    Attribute 0: Position @ Vector3")
	assert.Contains(t, out, "    Bounds: (0, 0, 0) - (2, 0, 4)\n")
	assert.Contains(t, out, "Scene 0 (default): 3 node(s)\n")
	assert.Contains(t, out, "  Node 1: \"top\", parent 0, mesh 1\n")
}

func TestInfoWithoutBounds(t *testing.T) {
	src := memSource{"tower.rsm": model()}

	var buf bytes.Buffer
	require.NoError(t, info(&buf, newPipeline(src, pipeline.Options{}), "tower.rsm", false))
	assert.NotContains(t, buf.String(), "Bounds")
}

func TestInfoProfile(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	src := memSource{"tower.rsm": model()}
	p := pipeline.New(plugins.Importers(nil), plugins.Converters(nil), src, zap.New(core), pipeline.Options{Profile: true})

	var buf bytes.Buffer
	require.NoError(t, info(&buf, p, "tower.rsm", false))

	entries := logs.FilterMessageSnippet("Import took").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "conversion 0.000 seconds")

	core, logs = observer.New(zap.InfoLevel)
	p = pipeline.New(plugins.Importers(nil), plugins.Converters(nil), src, zap.New(core), pipeline.Options{})
	require.NoError(t, info(&buf, p, "tower.rsm", false))
	assert.Zero(t, logs.FilterMessageSnippet("Import took").Len())
}

func TestInfoErrors(t *testing.T) {
	var buf bytes.Buffer
	err := info(&buf, newPipeline(memSource{}, pipeline.Options{}), "missing.rsm", false)
	assert.ErrorIs(t, err, pipeline.ErrSourceUnavailable)
	assert.Equal(t, exitSourceUnavailable, exitCode(err))

	empty := formats.EncodeRSM(&formats.RSM{Version: formats.RSMVersion{Major: 1, Minor: 5}})
	err = info(&buf, newPipeline(memSource{"empty.rsm": empty}, pipeline.Options{}), "empty.rsm", false)
	assert.ErrorIs(t, err, pipeline.ErrNoMeshes)

	err = info(&buf, newPipeline(memSource{"tower.rsm": model()}, pipeline.Options{Importer: "FbxImporter"}), "tower.rsm", false)
	assert.Equal(t, exitBadOptions, exitCode(err))
}
