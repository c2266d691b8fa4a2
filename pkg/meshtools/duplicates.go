package meshtools

import (
	stdmath "math"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/Faultbox/meshconv/pkg/mesh"
)

// RemoveDuplicates merges bit-identical vertices. The first occurrence of
// each distinct vertex survives and unreferenced vertices are kept. The
// result is always indexed.
func RemoveDuplicates(m *mesh.Mesh) (*mesh.Mesh, Stats) {
	first := make(map[string]uint32, m.VertexCount())
	remap := make([]uint32, m.VertexCount())
	var kept []int

	for v := 0; v < m.VertexCount(); v++ {
		k := vertexKey(m, v)
		if id, ok := first[k]; ok {
			remap[v] = id
			continue
		}
		id := uint32(len(kept))
		first[k] = id
		remap[v] = id
		kept = append(kept, v)
	}

	return rebuild(m, remap, kept)
}

// RemoveDuplicatesFuzzy merges vertices whose float components differ by at
// most epsilon. Non-float components must match exactly. Vertices are
// scanned in ascending order and each maps to the earliest surviving vertex
// within tolerance. A zero epsilon is equivalent to RemoveDuplicates.
func RemoveDuplicatesFuzzy(m *mesh.Mesh, epsilon float64) (*mesh.Mesh, Stats, error) {
	if epsilon < 0 || stdmath.IsNaN(epsilon) {
		return nil, Stats{}, ErrNegativeEpsilon
	}
	if epsilon == 0 {
		out, stats := RemoveDuplicates(m)
		return out, stats, nil
	}

	bucketAttr := -1
	for id := 0; id < m.AttributeCount(); id++ {
		if m.Attribute(id).Format.IsFloat() {
			bucketAttr = id
			break
		}
	}
	if bucketAttr < 0 {
		out, stats := RemoveDuplicates(m)
		return out, stats, nil
	}

	// Survivors are bucketed on the first float component so only
	// neighbouring cells need comparing.
	cells := make(map[int64][]int)
	survivor := make(map[int]uint32)
	remap := make([]uint32, m.VertexCount())
	var kept []int

	for v := 0; v < m.VertexCount(); v++ {
		c := cell(m.Component(bucketAttr, v, 0), epsilon)

		match := -1
		for _, nc := range [3]int64{c - 1, c, c + 1} {
			for _, s := range cells[nc] {
				if match >= 0 && s > match {
					break
				}
				if fuzzyEqual(m, v, s, epsilon) {
					match = s
					break
				}
			}
		}
		if match >= 0 {
			remap[v] = survivor[match]
			continue
		}

		id := uint32(len(kept))
		survivor[v] = id
		remap[v] = id
		kept = append(kept, v)
		cells[c] = append(cells[c], v)
	}

	out, stats := rebuild(m, remap, kept)
	return out, stats, nil
}

func cell(x float32, epsilon float64) int64 {
	f := stdmath.Floor(float64(x) / epsilon)
	if stdmath.IsNaN(f) || f >= stdmath.MaxInt64 || f <= stdmath.MinInt64 {
		return stdmath.MinInt64
	}
	return int64(f)
}

func fuzzyEqual(m *mesh.Mesh, a, b int, epsilon float64) bool {
	for id := 0; id < m.AttributeCount(); id++ {
		attr := m.Attribute(id)
		if !attr.Format.IsFloat() {
			if string(m.Element(id, a)) != string(m.Element(id, b)) {
				return false
			}
			continue
		}
		for c := 0; c < attr.Format.ComponentCount(); c++ {
			x := float64(m.Component(id, a, c))
			y := float64(m.Component(id, b, c))
			if !scalar.EqualWithinAbs(x, y, epsilon) {
				return false
			}
		}
	}
	return true
}

func vertexKey(m *mesh.Mesh, v int) string {
	var k []byte
	for id := 0; id < m.AttributeCount(); id++ {
		k = append(k, m.Element(id, v)...)
	}
	return string(k)
}

// rebuild packs the kept vertices and rewrites the indices through remap.
func rebuild(m *mesh.Mesh, remap []uint32, kept []int) (*mesh.Mesh, Stats) {
	stats := Stats{Before: m.VertexCount(), After: len(kept)}

	src := m.UnrolledIndices()
	indices := make([]uint32, len(src))
	for i, idx := range src {
		indices[i] = remap[idx]
	}

	s := take(m)
	s.attributes, s.data = repack(s.attributes, s.data, kept)
	s.indices = indices
	s.vertexCount = len(kept)
	return s.build(), stats
}
