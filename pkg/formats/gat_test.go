package formats

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testGAT(width, height uint32) *GAT {
	g := &GAT{
		Version: GATVersion{Major: 1, Minor: 2},
		Width:   width,
		Height:  height,
		Cells:   make([]GATCell, width*height),
	}
	for i := range g.Cells {
		g.Cells[i].Heights = [4]float32{float32(i), float32(i), 0, 0}
		g.Cells[i].Type = GATCellType(i % 6)
	}
	return g
}

func TestParseGAT_RoundTrip(t *testing.T) {
	want := testGAT(3, 4)

	got, err := ParseGAT(EncodeGAT(want))
	if err != nil {
		t.Fatalf("ParseGAT failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParseGAT_Errors(t *testing.T) {
	valid := EncodeGAT(testGAT(2, 2))

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "XXXX")

	badVersion := append([]byte(nil), valid...)
	badVersion[4] = 4

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"too short", valid[:10], ErrTruncatedGATData},
		{"bad magic", badMagic, ErrInvalidGATMagic},
		{"bad version", badVersion, ErrUnsupportedGATVersion},
		{"zero size", EncodeGAT(&GAT{Version: GATVersion{1, 2}}), ErrInvalidGATDimensions},
		{"too large", EncodeGAT(&GAT{Version: GATVersion{1, 2}, Width: 5000, Height: 1}), ErrInvalidGATDimensions},
		{"missing cells", valid[:len(valid)-4], ErrTruncatedGATData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGAT(tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseGATFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gat")
	if err := os.WriteFile(path, EncodeGAT(testGAT(1, 1)), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := ParseGATFile(path)
	if err != nil {
		t.Fatalf("ParseGATFile failed: %v", err)
	}
	if g.Width != 1 || len(g.Cells) != 1 {
		t.Errorf("unexpected GAT %+v", g)
	}

	if _, err := ParseGATFile(filepath.Join(t.TempDir(), "missing.gat")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestGATCellType(t *testing.T) {
	tests := []struct {
		cell     GATCellType
		name     string
		walkable bool
	}{
		{GATWalkable, "Walkable", true},
		{GATBlocked, "Blocked", false},
		{GATWater, "Water", false},
		{GATWalkableWater, "Walkable+Water", true},
		{GATSnipeable, "Snipeable", false},
		{GATBlockedSnipe, "Blocked+Snipe", false},
		{GATCellType(9), "Unknown(9)", false},
	}
	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.cell.IsWalkable(); got != tt.walkable {
			t.Errorf("%s.IsWalkable() = %v", tt.name, got)
		}
	}
}

func TestGAT_Accessors(t *testing.T) {
	g := testGAT(3, 2)
	if g.Cell(2, 1) != &g.Cells[5] {
		t.Error("Cell(2, 1) should address cell 5")
	}
	if g.Cell(3, 0) != nil || g.Cell(0, 2) != nil || g.Cell(-1, 0) != nil {
		t.Error("out-of-bounds cells must be nil")
	}
	counts := g.CountByType()
	if counts[GATWalkable] != 1 || counts[GATBlockedSnipe] != 1 || len(counts) != 6 {
		t.Errorf("CountByType() = %v", counts)
	}
}
