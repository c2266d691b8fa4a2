package formats

import (
	"errors"
	"fmt"
	"os"
)

// GND format errors.
var (
	ErrInvalidGNDMagic       = errors.New("invalid GND magic: expected 'GRGN'")
	ErrUnsupportedGNDVersion = errors.New("unsupported GND version")
	ErrTruncatedGNDData      = errors.New("truncated GND data")
	ErrInvalidGNDDimensions  = errors.New("invalid GND dimensions")
)

const maxGNDSize = 1024

// GNDVersion is the GND file version.
type GNDVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GNDVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GNDSurface is a textured tile face.
type GNDSurface struct {
	U          [4]float32
	V          [4]float32
	TextureID  int16 // -1 for none
	LightmapID int16
	Color      [4]uint8 // BGRA
}

// RGBA returns the surface color reordered to RGBA.
func (s GNDSurface) RGBA() [4]uint8 {
	return [4]uint8{s.Color[2], s.Color[1], s.Color[0], s.Color[3]}
}

// GNDTile is one ground cell. Altitudes are ordered bottom-left,
// bottom-right, top-left, top-right; positive altitude is below ground.
type GNDTile struct {
	Altitude     [4]float32
	TopSurface   int32 // -1 for none
	FrontSurface int32
	RightSurface int32
}

// GND is a parsed ground mesh.
type GND struct {
	Version       GNDVersion
	Width         uint32
	Height        uint32
	Zoom          float32
	Textures      []string
	LightmapCount uint32
	Surfaces      []GNDSurface
	Tiles         []GNDTile
}

// Tile returns the tile at x, y, or nil when out of bounds.
func (g *GND) Tile(x, y int) *GNDTile {
	if x < 0 || y < 0 || x >= int(g.Width) || y >= int(g.Height) {
		return nil
	}
	return &g.Tiles[y*int(g.Width)+x]
}

// Surface returns surface id, or nil when id is out of range.
func (g *GND) Surface(id int32) *GNDSurface {
	if id < 0 || int(id) >= len(g.Surfaces) {
		return nil
	}
	return &g.Surfaces[id]
}

// AltitudeRange returns the lowest and highest corner altitude.
func (g *GND) AltitudeRange() (lo, hi float32) {
	if len(g.Tiles) == 0 {
		return 0, 0
	}
	lo, hi = g.Tiles[0].Altitude[0], g.Tiles[0].Altitude[0]
	for _, t := range g.Tiles {
		for _, h := range t.Altitude {
			lo, hi = min(lo, h), max(hi, h)
		}
	}
	return lo, hi
}

// ParseGND parses a GND 1.5-1.9 file.
func ParseGND(data []byte) (*GND, error) {
	if len(data) < 18 {
		return nil, ErrTruncatedGNDData
	}
	r := newBinReader(data)
	if string(r.next(4)) != "GRGN" {
		return nil, ErrInvalidGNDMagic
	}

	g := &GND{Version: GNDVersion{Major: r.u8(), Minor: r.u8()}}
	if g.Version.Major != 1 || g.Version.Minor < 5 || g.Version.Minor > 9 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGNDVersion, g.Version)
	}

	g.Width, g.Height, g.Zoom = r.u32(), r.u32(), r.f32()
	if g.Width == 0 || g.Height == 0 || g.Width > maxGNDSize || g.Height > maxGNDSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGNDDimensions, g.Width, g.Height)
	}

	textureCount, nameLen := r.u32(), r.u32()
	if r.err != nil || uint64(textureCount)*uint64(nameLen) > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: textures", ErrTruncatedGNDData)
	}
	g.Textures = make([]string, textureCount)
	for i := range g.Textures {
		g.Textures[i] = r.fixedString(int(nameLen))
	}

	g.LightmapCount = r.u32()
	lmWidth, lmHeight, lmCells := r.u32(), r.u32(), r.u32()
	pixels := uint64(lmWidth) * uint64(lmHeight) * uint64(lmCells)
	lightmapBytes := uint64(g.LightmapCount) * pixels * 4
	if r.err != nil || lightmapBytes > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: lightmaps", ErrTruncatedGNDData)
	}
	r.skip(int(lightmapBytes))

	surfaceCount := r.u32()
	if r.err != nil || uint64(surfaceCount)*40 > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: surfaces", ErrTruncatedGNDData)
	}
	g.Surfaces = make([]GNDSurface, surfaceCount)
	for i := range g.Surfaces {
		s := &g.Surfaces[i]
		s.U, s.V = r.vec4(), r.vec4()
		s.TextureID, s.LightmapID = r.i16(), r.i16()
		s.Color = r.bytes4()
	}

	g.Tiles = make([]GNDTile, g.Width*g.Height)
	for i := range g.Tiles {
		t := &g.Tiles[i]
		t.Altitude = r.vec4()
		t.TopSurface, t.FrontSurface, t.RightSurface = r.i32(), r.i32(), r.i32()
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: tiles", ErrTruncatedGNDData)
	}

	return g, nil
}

// ParseGNDFile parses a GND file from disk.
func ParseGNDFile(path string) (*GND, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GND file: %w", err)
	}
	return ParseGND(data)
}

// EncodeGND serializes g. Lightmaps are written empty.
func EncodeGND(g *GND) []byte {
	const nameLen = 80
	var w binWriter
	w.WriteString("GRGN")
	w.u8(g.Version.Major)
	w.u8(g.Version.Minor)
	w.u32(g.Width)
	w.u32(g.Height)
	w.f32(g.Zoom)

	w.u32(uint32(len(g.Textures)))
	w.u32(nameLen)
	for _, t := range g.Textures {
		w.fixedString(t, nameLen)
	}

	w.u32(0) // lightmaps
	w.u32(8)
	w.u32(8)
	w.u32(1)

	w.u32(uint32(len(g.Surfaces)))
	for _, s := range g.Surfaces {
		w.f32s(s.U[:]...)
		w.f32s(s.V[:]...)
		w.i16(s.TextureID)
		w.i16(s.LightmapID)
		w.Write(s.Color[:])
	}

	for _, t := range g.Tiles {
		w.f32s(t.Altitude[:]...)
		w.i32(t.TopSurface)
		w.i32(t.FrontSurface)
		w.i32(t.RightSurface)
	}
	return w.Bytes()
}
