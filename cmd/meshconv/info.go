package main

import (
	"fmt"
	"io"

	"github.com/Faultbox/meshconv/internal/pipeline"
	"github.com/Faultbox/meshconv/internal/plugins/converter"
	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// info opens input and describes its meshes and scenes instead of
// converting it. Importing for the description counts as import time.
func info(w io.Writer, p *pipeline.Pipeline, input string, bounds bool) error {
	imp, err := p.Open(input)
	if err != nil {
		return err
	}
	defer imp.Close()
	defer p.LogProfile()

	if imp.MeshCount() == 0 {
		return fmt.Errorf("%w in %s", pipeline.ErrNoMeshes, input)
	}
	stop := p.Timer().Start(pipeline.StageImport)
	defer stop()
	return describe(w, imp, bounds)
}

func describe(w io.Writer, imp trade.Importer, bounds bool) error {
	for id := range imp.MeshCount() {
		levels := imp.MeshLevelCount(id)
		fmt.Fprintf(w, "Mesh %d: %q, %d level(s)\n", id, imp.MeshName(id), levels)

		for level := range levels {
			m, err := imp.Mesh(id, level)
			if err != nil {
				return fmt.Errorf("%w %d: %w", pipeline.ErrMeshImport, id, err)
			}
			describeMesh(w, m, level, bounds)
		}
	}

	def, hasDefault := imp.DefaultScene()
	for id := range imp.SceneCount() {
		g, err := imp.Scene(id)
		if err != nil {
			return fmt.Errorf("%w: scene %d: %w", pipeline.ErrMeshImport, id, err)
		}
		marker := ""
		if hasDefault && id == def {
			marker = " (default)"
		}
		fmt.Fprintf(w, "Scene %d%s: %d node(s)\n", id, marker, len(g.Nodes))
		for i, n := range g.Nodes {
			fmt.Fprintf(w, "  Node %d: %q, parent %d, mesh %d\n", i, n.Name, n.Parent, n.Mesh)
		}
	}
	return nil
}

func describeMesh(w io.Writer, m *mesh.Mesh, level int, bounds bool) {
	fmt.Fprintf(w, "  Level %d: %s, %d vertices", level, m.Primitive(), m.VertexCount())
	if m.IsIndexed() {
		fmt.Fprintf(w, ", %d indices", m.IndexCount())
	}
	fmt.Fprintln(w)

	for i, a := range m.Attributes() {
		fmt.Fprintf(w, "    Attribute %d: %s\n", i, a)
	}

	if !bounds {
		return
	}
	pos, ok := m.FindAttribute(mesh.AttributePosition, 0)
	if !ok || !m.Attribute(pos).Format.IsFloat() {
		return
	}
	lo, hi := converter.Bounds(m, pos)
	fmt.Fprintf(w, "    Bounds: (%g, %g, %g) - (%g, %g, %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
}
