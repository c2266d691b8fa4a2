package formats

import (
	"errors"
	"reflect"
	"testing"
)

func testGND(width, height uint32) *GND {
	g := &GND{
		Version:  GNDVersion{Major: 1, Minor: 7},
		Width:    width,
		Height:   height,
		Zoom:     10,
		Textures: []string{"texture1.bmp", "texture2.bmp"},
		Surfaces: []GNDSurface{{
			U:         [4]float32{0, 1, 0, 1},
			V:         [4]float32{0, 0, 1, 1},
			TextureID: 1,
			Color:     [4]uint8{10, 20, 30, 255},
		}},
		Tiles: make([]GNDTile, width*height),
	}
	for i := range g.Tiles {
		g.Tiles[i] = GNDTile{TopSurface: 0, FrontSurface: -1, RightSurface: -1}
	}
	return g
}

func TestParseGND_RoundTrip(t *testing.T) {
	want := testGND(4, 3)
	want.Tiles[5].Altitude = [4]float32{-5, -5, 3, 3}

	got, err := ParseGND(EncodeGND(want))
	if err != nil {
		t.Fatalf("ParseGND failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParseGND_Errors(t *testing.T) {
	valid := EncodeGND(testGND(2, 2))

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "XXXX")

	badVersion := append([]byte(nil), valid...)
	badVersion[5] = 4

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"too short", valid[:10], ErrTruncatedGNDData},
		{"bad magic", badMagic, ErrInvalidGNDMagic},
		{"bad version", badVersion, ErrUnsupportedGNDVersion},
		{"zero size", EncodeGND(&GND{Version: GNDVersion{1, 7}}), ErrInvalidGNDDimensions},
		{"missing tiles", valid[:len(valid)-8], ErrTruncatedGNDData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGND(tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGND_Accessors(t *testing.T) {
	g := testGND(3, 2)
	g.Tiles[4].Altitude = [4]float32{-7, 1, 2, 12}

	if g.Tile(1, 1) != &g.Tiles[4] {
		t.Error("Tile(1, 1) should address tile 4")
	}
	if g.Tile(3, 0) != nil || g.Tile(0, -1) != nil {
		t.Error("out-of-bounds tiles must be nil")
	}
	if g.Surface(0) == nil || g.Surface(1) != nil || g.Surface(-1) != nil {
		t.Error("Surface bounds check failed")
	}
	lo, hi := g.AltitudeRange()
	if lo != -7 || hi != 12 {
		t.Errorf("AltitudeRange() = %v, %v", lo, hi)
	}
	if c := g.Surfaces[0].RGBA(); c != [4]uint8{30, 20, 10, 255} {
		t.Errorf("RGBA() = %v", c)
	}
}
