package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
)

const (
	rsmNameSize = 40
	maxRSMNodes = 10000
)

// RSMVersion is the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// RSMShadingType is the model's shading mode.
type RSMShadingType int32

const (
	RSMShadingNone   RSMShadingType = 0
	RSMShadingFlat   RSMShadingType = 1
	RSMShadingSmooth RSMShadingType = 2
)

func (s RSMShadingType) String() string {
	switch s {
	case RSMShadingNone:
		return "None"
	case RSMShadingFlat:
		return "Flat"
	case RSMShadingSmooth:
		return "Smooth"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(s))
	}
}

// RSMTexCoord is a texture coordinate with its vertex color.
type RSMTexCoord struct {
	Color [4]uint8 // RGBA, v1.2+
	U, V  float32
}

// RSMFace is a triangle of one node.
type RSMFace struct {
	VertexIDs   [3]uint16
	TexCoordIDs [3]uint16
	TextureID   uint16
	Padding     uint16
	TwoSide     int32
	SmoothGroup int32 // v1.2+
}

// RSMPosKeyframe is a position keyframe (v < 1.5).
type RSMPosKeyframe struct {
	Frame    int32
	Position [3]float32
}

// RSMRotKeyframe is a rotation keyframe, quaternion stored as X, Y, Z, W.
type RSMRotKeyframe struct {
	Frame      int32
	Quaternion [4]float32
}

// RSMScaleKeyframe is a scale keyframe (v >= 1.5).
type RSMScaleKeyframe struct {
	Frame int32
	Scale [3]float32
}

// RSMNode is one node of the model hierarchy. Parent refers to another
// node by name.
type RSMNode struct {
	Name       string
	Parent     string
	TextureIDs []int32

	// Matrix and Offset apply to this node's vertices only; Position,
	// rotation and Scale are inherited by children.
	Matrix   [9]float32
	Offset   [3]float32
	Position [3]float32
	RotAngle float32
	RotAxis  [3]float32
	Scale    [3]float32

	Vertices  [][3]float32
	TexCoords []RSMTexCoord
	Faces     []RSMFace

	PosKeys   []RSMPosKeyframe
	RotKeys   []RSMRotKeyframe
	ScaleKeys []RSMScaleKeyframe
}

// RSMVolumeBox is a collision volume.
type RSMVolumeBox struct {
	Size     [3]float32
	Position [3]float32
	Rotation [3]float32
	Flag     int32 // v1.3+
}

// RSM is a parsed model.
type RSM struct {
	Version     RSMVersion
	AnimLength  int32 // milliseconds
	Shading     RSMShadingType
	Alpha       float32
	Textures    []string
	RootNode    string
	Nodes       []RSMNode
	VolumeBoxes []RSMVolumeBox
}

// ParseRSM parses an RSM 1.x model.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedRSMData
	}
	r := newBinReader(data)
	if string(r.next(4)) != "GRSM" {
		return nil, ErrInvalidRSMMagic
	}

	rsm := &RSM{Version: RSMVersion{Major: r.u8(), Minor: r.u8()}}
	if rsm.Version.Major != 1 || rsm.Version.Minor < 1 || rsm.Version.Minor > 5 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	rsm.AnimLength = r.i32()
	rsm.Shading = RSMShadingType(r.i32())
	rsm.Alpha = 1
	if rsm.Version.AtLeast(1, 4) {
		rsm.Alpha = float32(r.u8()) / 255
	}
	r.skip(16)

	n, ok := r.count(rsmNameSize)
	if !ok {
		return nil, truncated("texture list")
	}
	if n > 0 {
		rsm.Textures = make([]string, n)
	}
	for i := range rsm.Textures {
		rsm.Textures[i] = r.fixedString(rsmNameSize)
	}
	rsm.RootNode = r.fixedString(rsmNameSize)

	nodeCount := r.i32()
	if r.err != nil {
		return nil, truncated("node count")
	}
	if nodeCount < 0 || nodeCount > maxRSMNodes {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNodeCount, nodeCount)
	}
	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		if err := parseRSMNode(r, rsm.Version, &rsm.Nodes[i]); err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, err)
		}
	}

	if r.remaining() >= 4 {
		boxSize := 36
		if rsm.Version.AtLeast(1, 3) {
			boxSize += 4
		}
		if n, ok := r.count(boxSize); ok && n > 0 {
			rsm.VolumeBoxes = make([]RSMVolumeBox, n)
			for i := range rsm.VolumeBoxes {
				b := &rsm.VolumeBoxes[i]
				b.Size, b.Position, b.Rotation = r.vec3(), r.vec3(), r.vec3()
				if rsm.Version.AtLeast(1, 3) {
					b.Flag = r.i32()
				}
			}
		}
	}

	return rsm, nil
}

func truncated(what string) error {
	return fmt.Errorf("%w: %s", ErrTruncatedRSMData, what)
}

func parseRSMNode(r *binReader, v RSMVersion, node *RSMNode) error {
	node.Name = r.fixedString(rsmNameSize)
	node.Parent = r.fixedString(rsmNameSize)

	n, ok := r.count(4)
	if !ok {
		return truncated("texture ids")
	}
	if n > 0 {
		node.TextureIDs = make([]int32, n)
	}
	for i := range node.TextureIDs {
		node.TextureIDs[i] = r.i32()
	}

	for i := range node.Matrix {
		node.Matrix[i] = r.f32()
	}
	node.Offset = r.vec3()
	node.Position = r.vec3()
	node.RotAngle = r.f32()
	node.RotAxis = r.vec3()
	node.Scale = r.vec3()

	if n, ok = r.count(12); !ok {
		return truncated("vertices")
	}
	if n > 0 {
		node.Vertices = make([][3]float32, n)
	}
	for i := range node.Vertices {
		node.Vertices[i] = r.vec3()
	}

	tcSize := 8
	if v.AtLeast(1, 2) {
		tcSize += 4
	}
	if n, ok = r.count(tcSize); !ok {
		return truncated("texture coordinates")
	}
	if n > 0 {
		node.TexCoords = make([]RSMTexCoord, n)
	}
	for i := range node.TexCoords {
		tc := &node.TexCoords[i]
		tc.Color = [4]uint8{255, 255, 255, 255}
		if v.AtLeast(1, 2) {
			tc.Color = r.bytes4()
		}
		tc.U, tc.V = r.f32(), r.f32()
	}

	faceSize := 20
	if v.AtLeast(1, 2) {
		faceSize += 4
	}
	if n, ok = r.count(faceSize); !ok {
		return truncated("faces")
	}
	if n > 0 {
		node.Faces = make([]RSMFace, n)
	}
	for i := range node.Faces {
		f := &node.Faces[i]
		f.VertexIDs = [3]uint16{r.u16(), r.u16(), r.u16()}
		f.TexCoordIDs = [3]uint16{r.u16(), r.u16(), r.u16()}
		f.TextureID = r.u16()
		f.Padding = r.u16()
		f.TwoSide = r.i32()
		if v.AtLeast(1, 2) {
			f.SmoothGroup = r.i32()
		}
	}

	if !v.AtLeast(1, 5) {
		if n, ok = r.count(16); !ok {
			return truncated("position keyframes")
		}
		if n > 0 {
			node.PosKeys = make([]RSMPosKeyframe, n)
		}
		for i := range node.PosKeys {
			node.PosKeys[i] = RSMPosKeyframe{Frame: r.i32(), Position: r.vec3()}
		}
	}

	if n, ok = r.count(20); !ok {
		return truncated("rotation keyframes")
	}
	if n > 0 {
		node.RotKeys = make([]RSMRotKeyframe, n)
	}
	for i := range node.RotKeys {
		node.RotKeys[i] = RSMRotKeyframe{Frame: r.i32(), Quaternion: r.vec4()}
	}

	if v.AtLeast(1, 5) {
		if n, ok = r.count(16); !ok {
			return truncated("scale keyframes")
		}
		if n > 0 {
			node.ScaleKeys = make([]RSMScaleKeyframe, n)
		}
		for i := range node.ScaleKeys {
			node.ScaleKeys[i] = RSMScaleKeyframe{Frame: r.i32(), Scale: r.vec3()}
		}
	}

	if r.err != nil {
		return truncated("node "+node.Name)
	}
	return nil
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// EncodeRSM serializes rsm in the layout of its Version.
func EncodeRSM(rsm *RSM) []byte {
	var w binWriter
	v := rsm.Version
	w.WriteString("GRSM")
	w.u8(v.Major)
	w.u8(v.Minor)
	w.i32(rsm.AnimLength)
	w.i32(int32(rsm.Shading))
	if v.AtLeast(1, 4) {
		w.u8(uint8(rsm.Alpha*255 + 0.5))
	}
	w.Write(make([]byte, 16))

	w.i32(int32(len(rsm.Textures)))
	for _, t := range rsm.Textures {
		w.fixedString(t, rsmNameSize)
	}
	w.fixedString(rsm.RootNode, rsmNameSize)

	w.i32(int32(len(rsm.Nodes)))
	for i := range rsm.Nodes {
		encodeRSMNode(&w, v, &rsm.Nodes[i])
	}

	w.i32(int32(len(rsm.VolumeBoxes)))
	for _, b := range rsm.VolumeBoxes {
		w.f32s(b.Size[:]...)
		w.f32s(b.Position[:]...)
		w.f32s(b.Rotation[:]...)
		if v.AtLeast(1, 3) {
			w.i32(b.Flag)
		}
	}
	return w.Bytes()
}

func encodeRSMNode(w *binWriter, v RSMVersion, n *RSMNode) {
	w.fixedString(n.Name, rsmNameSize)
	w.fixedString(n.Parent, rsmNameSize)
	w.i32(int32(len(n.TextureIDs)))
	for _, id := range n.TextureIDs {
		w.i32(id)
	}
	w.f32s(n.Matrix[:]...)
	w.f32s(n.Offset[:]...)
	w.f32s(n.Position[:]...)
	w.f32(n.RotAngle)
	w.f32s(n.RotAxis[:]...)
	w.f32s(n.Scale[:]...)

	w.i32(int32(len(n.Vertices)))
	for _, p := range n.Vertices {
		w.f32s(p[:]...)
	}
	w.i32(int32(len(n.TexCoords)))
	for _, tc := range n.TexCoords {
		if v.AtLeast(1, 2) {
			w.Write(tc.Color[:])
		}
		w.f32s(tc.U, tc.V)
	}
	w.i32(int32(len(n.Faces)))
	for _, f := range n.Faces {
		for _, id := range f.VertexIDs {
			w.u16(id)
		}
		for _, id := range f.TexCoordIDs {
			w.u16(id)
		}
		w.u16(f.TextureID)
		w.u16(f.Padding)
		w.i32(f.TwoSide)
		if v.AtLeast(1, 2) {
			w.i32(f.SmoothGroup)
		}
	}
	if !v.AtLeast(1, 5) {
		w.i32(int32(len(n.PosKeys)))
		for _, k := range n.PosKeys {
			w.i32(k.Frame)
			w.f32s(k.Position[:]...)
		}
	}
	w.i32(int32(len(n.RotKeys)))
	for _, k := range n.RotKeys {
		w.i32(k.Frame)
		w.f32s(k.Quaternion[:]...)
	}
	if v.AtLeast(1, 5) {
		w.i32(int32(len(n.ScaleKeys)))
		for _, k := range n.ScaleKeys {
			w.i32(k.Frame)
			w.f32s(k.Scale[:]...)
		}
	}
}

// NodeIndex returns the index of the node called name, or -1.
func (rsm *RSM) NodeIndex(name string) int {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return i
		}
	}
	return -1
}

// ParentIndices resolves each node's parent name to an index. Roots, nodes
// naming themselves and nodes with unknown parents get -1.
func (rsm *RSM) ParentIndices() []int {
	out := make([]int, len(rsm.Nodes))
	for i := range rsm.Nodes {
		p := rsm.Nodes[i].Parent
		out[i] = -1
		if p != "" && p != rsm.Nodes[i].Name {
			out[i] = rsm.NodeIndex(p)
		}
	}
	return out
}

// FaceCount returns the number of faces across all nodes.
func (rsm *RSM) FaceCount() int {
	total := 0
	for i := range rsm.Nodes {
		total += len(rsm.Nodes[i].Faces)
	}
	return total
}

// HasAnimation reports whether any node has more than one keyframe on a
// channel. A single keyframe is a static pose.
func (rsm *RSM) HasAnimation() bool {
	if rsm.AnimLength <= 0 {
		return false
	}
	for i := range rsm.Nodes {
		n := &rsm.Nodes[i]
		if len(n.RotKeys) > 1 || len(n.PosKeys) > 1 || len(n.ScaleKeys) > 1 {
			return true
		}
	}
	return false
}
