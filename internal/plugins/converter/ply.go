package converter

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshconv/pkg/mesh"
	"github.com/Faultbox/meshconv/pkg/trade"
)

// plyProperties names the PLY vertex properties of each attribute.
var plyProperties = map[mesh.AttributeName][]string{
	mesh.AttributePosition:           {"x", "y", "z"},
	mesh.AttributeNormal:             {"nx", "ny", "nz"},
	mesh.AttributeTextureCoordinates: {"s", "t"},
	mesh.AttributeColor:              {"red", "green", "blue", "alpha"},
	mesh.AttributeObjectID:           {"object_id"},
}

var plyTypes = map[mesh.ComponentType]string{
	mesh.ComponentFloat32:         "float",
	mesh.ComponentUint8Normalized: "uchar",
	mesh.ComponentUint32:          "uint",
}

// StanfordSceneConverter writes PLY files. Triangle meshes get a face
// element, point meshes only vertices.
//
// Options:
//   - binary: write binary_little_endian instead of ascii
type StanfordSceneConverter struct {
	fileOnly
	config *trade.Configuration
	log    *zap.Logger
}

// NewStanford creates a PLY writer.
func NewStanford(log *zap.Logger) *StanfordSceneConverter {
	return &StanfordSceneConverter{config: trade.NewConfiguration("binary", "true"), log: nopIfNil(log)}
}

func (s *StanfordSceneConverter) Name() string                        { return StanfordName }
func (s *StanfordSceneConverter) Configuration() *trade.Configuration { return s.config }

type plyAttribute struct {
	id         int
	components int
	format     mesh.VertexFormat
}

func (s *StanfordSceneConverter) ConvertToFile(m *mesh.Mesh, filename string) error {
	if p := m.Primitive(); p != mesh.PrimitiveTriangles && p != mesh.PrimitivePoints {
		return fmt.Errorf("%w or points, got %s", ErrExpectedTriangle, p)
	}

	var attrs []plyAttribute
	var header strings.Builder
	seen := make(map[mesh.AttributeName]bool)
	binaryOut := s.config.Bool("binary")
	if binaryOut {
		header.WriteString("ply\nformat binary_little_endian 1.0\n")
	} else {
		header.WriteString("ply\nformat ascii 1.0\n")
	}
	header.WriteString("comment written by meshconv\n")
	fmt.Fprintf(&header, "element vertex %d\n", m.VertexCount())
	for id, a := range m.Attributes() {
		names, ok := plyProperties[a.Name]
		if !ok {
			s.log.Warn("Stanford writer ignoring attribute " + a.Name.String())
			continue
		}
		if seen[a.Name] {
			s.log.Warn("Stanford writer ignoring duplicate attribute " + a.Name.String())
			continue
		}
		seen[a.Name] = true
		n := min(a.Format.ComponentCount(), len(names))
		attrs = append(attrs, plyAttribute{id: id, components: n, format: a.Format})
		for _, name := range names[:n] {
			fmt.Fprintf(&header, "property %s %s\n", plyTypes[a.Format.ComponentType()], name)
		}
	}

	var indices []uint32
	if m.Primitive() == mesh.PrimitiveTriangles {
		indices = m.UnrolledIndices()
		fmt.Fprintf(&header, "element face %d\n", len(indices)/3)
		header.WriteString("property list uchar uint vertex_indices\n")
	}
	header.WriteString("end_header\n")

	return writeFile(filename, func(w io.Writer) error {
		if _, err := io.WriteString(w, header.String()); err != nil {
			return err
		}
		if binaryOut {
			return writePLYBinary(w, m, attrs, indices)
		}
		return writePLYASCII(w, m, attrs, indices)
	})
}

func writePLYBinary(w io.Writer, m *mesh.Mesh, attrs []plyAttribute, indices []uint32) error {
	for v := 0; v < m.VertexCount(); v++ {
		for _, a := range attrs {
			// Vertex data is already little endian.
			if _, err := w.Write(m.Element(a.id, v)[:a.components*a.format.ComponentSize()]); err != nil {
				return err
			}
		}
	}
	face := make([]byte, 13)
	face[0] = 3
	for i := 0; i+2 < len(indices); i += 3 {
		binary.LittleEndian.PutUint32(face[1:], indices[i])
		binary.LittleEndian.PutUint32(face[5:], indices[i+1])
		binary.LittleEndian.PutUint32(face[9:], indices[i+2])
		if _, err := w.Write(face); err != nil {
			return err
		}
	}
	return nil
}

func writePLYASCII(w io.Writer, m *mesh.Mesh, attrs []plyAttribute, indices []uint32) error {
	var line []byte
	for v := 0; v < m.VertexCount(); v++ {
		line = line[:0]
		for _, a := range attrs {
			e := m.Element(a.id, v)
			for c := 0; c < a.components; c++ {
				if len(line) > 0 {
					line = append(line, ' ')
				}
				switch a.format.ComponentType() {
				case mesh.ComponentUint8Normalized:
					line = strconv.AppendUint(line, uint64(e[c]), 10)
				case mesh.ComponentUint32:
					line = strconv.AppendUint(line, uint64(binary.LittleEndian.Uint32(e[c*4:])), 10)
				default:
					line = strconv.AppendFloat(line, float64(m.Component(a.id, v, c)), 'g', -1, 32)
				}
			}
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		if _, err := fmt.Fprintf(w, "3 %d %d %d\n", indices[i], indices[i+1], indices[i+2]); err != nil {
			return err
		}
	}
	return nil
}
