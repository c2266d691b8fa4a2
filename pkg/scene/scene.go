// Package scene holds the object hierarchy an importer exposes and flattens
// it into per-mesh world transforms.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshconv/pkg/math"
)

var (
	// ErrNoDefaultScene is returned when the source declares no default scene.
	ErrNoDefaultScene = errors.New("no default scene")
	// ErrInvalidParent is returned for a parent index outside the node list.
	ErrInvalidParent = errors.New("invalid parent index")
)

// Node is one object in the hierarchy. Its index in Graph.Nodes is its
// object ID.
type Node struct {
	Name      string
	Parent    int // -1 for a root
	Transform math.Mat4
	Mesh      int // -1 when the node carries no mesh
}

// Graph is a read-only object hierarchy.
type Graph struct {
	Nodes []Node
}

// Instance places one mesh in world space.
type Instance struct {
	Mesh      int
	Object    int
	Transform math.Mat4
}

// Source is the part of an importer FlattenDefault needs.
type Source interface {
	DefaultScene() (int, bool)
	Scene(id int) (*Graph, error)
}

// Validate checks parent indices.
func (g *Graph) Validate() error {
	for i, n := range g.Nodes {
		if n.Parent < -1 || n.Parent >= len(g.Nodes) || n.Parent == i {
			return fmt.Errorf("%w: node %d (%q) has parent %d, graph has %d nodes",
				ErrInvalidParent, i, n.Name, n.Parent, len(g.Nodes))
		}
	}
	return nil
}

// Children returns child indices per node, in node order.
func (g *Graph) Children() [][]int {
	children := make([][]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.Parent >= 0 {
			children[n.Parent] = append(children[n.Parent], i)
		}
	}
	return children
}

// Flatten walks the hierarchy depth-first from each root and emits one
// instance per mesh-bearing node with world = parentWorld * local. Nodes
// that sit on a parent cycle are never reached and emit nothing.
func Flatten(g *Graph) ([]Instance, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	children := g.Children()
	var out []Instance

	type frame struct {
		node  int
		world math.Mat4
	}
	var stack []frame

	for root, n := range g.Nodes {
		if n.Parent != -1 {
			continue
		}
		stack = append(stack[:0], frame{node: root, world: n.Transform})
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if m := g.Nodes[f.node].Mesh; m >= 0 {
				out = append(out, Instance{Mesh: m, Object: f.node, Transform: f.world})
			}

			// Push in reverse so children pop in node order.
			kids := children[f.node]
			for i := len(kids) - 1; i >= 0; i-- {
				c := kids[i]
				stack = append(stack, frame{node: c, world: f.world.Mul(g.Nodes[c].Transform)})
			}
		}
	}

	return out, nil
}

// FlattenDefault flattens the source's default scene.
func FlattenDefault(src Source) ([]Instance, error) {
	id, ok := src.DefaultScene()
	if !ok {
		return nil, ErrNoDefaultScene
	}
	g, err := src.Scene(id)
	if err != nil {
		return nil, fmt.Errorf("scene %d: %w", id, err)
	}
	return Flatten(g)
}
