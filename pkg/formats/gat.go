package formats

import (
	"errors"
	"fmt"
	"os"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
	ErrInvalidGATDimensions  = errors.New("invalid GAT dimensions")
)

const maxGATSize = 4096

// GATVersion is the GAT file version.
type GATVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GATVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GATCellType is the walkability class of a cell.
type GATCellType uint32

const (
	GATWalkable      GATCellType = 0
	GATBlocked       GATCellType = 1
	GATWater         GATCellType = 2
	GATWalkableWater GATCellType = 3
	GATSnipeable     GATCellType = 4 // Cliffs: blocks walking, not projectiles
	GATBlockedSnipe  GATCellType = 5
)

var gatCellNames = [...]string{
	GATWalkable:      "Walkable",
	GATBlocked:       "Blocked",
	GATWater:         "Water",
	GATWalkableWater: "Walkable+Water",
	GATSnipeable:     "Snipeable",
	GATBlockedSnipe:  "Blocked+Snipe",
}

func (t GATCellType) String() string {
	if int(t) < len(gatCellNames) {
		return gatCellNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", uint32(t))
}

// IsWalkable reports whether characters can stand on the cell.
func (t GATCellType) IsWalkable() bool {
	return t == GATWalkable || t == GATWalkableWater
}

// GATCell is one altitude cell. Heights are ordered like GND altitudes:
// bottom-left, bottom-right, top-left, top-right.
type GATCell struct {
	Heights [4]float32
	Type    GATCellType
}

// GAT is a parsed ground altitude table. Cells are half the size of GND
// tiles.
type GAT struct {
	Version GATVersion
	Width   uint32
	Height  uint32
	Cells   []GATCell
}

// Cell returns the cell at x, y, or nil when out of bounds.
func (g *GAT) Cell(x, y int) *GATCell {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Cells[y*int(g.Width)+x]
}

// CountByType returns the number of cells of each type.
func (g *GAT) CountByType() map[GATCellType]int {
	counts := make(map[GATCellType]int)
	for _, c := range g.Cells {
		counts[c.Type]++
	}
	return counts
}

// ParseGAT parses a GAT 1.x-3.x file. The cell layout is the same in all of
// them.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedGATData
	}
	r := newBinReader(data)
	if string(r.next(4)) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}

	g := &GAT{Version: GATVersion{Major: r.u8(), Minor: r.u8()}}
	if g.Version.Major < 1 || g.Version.Major > 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGATVersion, g.Version)
	}

	g.Width, g.Height = r.u32(), r.u32()
	if g.Width == 0 || g.Height == 0 || g.Width > maxGATSize || g.Height > maxGATSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGATDimensions, g.Width, g.Height)
	}

	const cellSize = 20
	if uint64(g.Width)*uint64(g.Height)*cellSize > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: cells", ErrTruncatedGATData)
	}
	g.Cells = make([]GATCell, g.Width*g.Height)
	for i := range g.Cells {
		g.Cells[i] = GATCell{Heights: r.vec4(), Type: GATCellType(r.u32())}
	}
	return g, nil
}

// ParseGATFile parses a GAT file from disk.
func ParseGATFile(path string) (*GAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GAT file: %w", err)
	}
	return ParseGAT(data)
}

// EncodeGAT serializes g.
func EncodeGAT(g *GAT) []byte {
	var w binWriter
	w.WriteString("GRAT")
	w.u8(g.Version.Major)
	w.u8(g.Version.Minor)
	w.u32(g.Width)
	w.u32(g.Height)
	for _, c := range g.Cells {
		w.f32s(c.Heights[:]...)
		w.u32(uint32(c.Type))
	}
	return w.Bytes()
}
