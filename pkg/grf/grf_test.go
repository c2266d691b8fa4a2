package grf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testFiles() []File {
	return []File{
		{"data/test.txt", []byte("Hello, GRF!")},
		{"data/model/tree.rsm", append([]byte("GRSM"), make([]byte, 32)...)},
		{"data/model/한글.rsm", []byte("korean name")},
		{"data/subfolder/nested/file.txt", []byte("Nested file content")},
	}
}

// writeTestGRF writes the test archive into a temp dir and returns its path.
func writeTestGRF(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, testFiles()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.grf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAndList(t *testing.T) {
	archive, err := Open(writeTestGRF(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer archive.Close()

	want := []string{
		"data/model/tree.rsm",
		"data/model/한글.rsm",
		"data/subfolder/nested/file.txt",
		"data/test.txt",
	}
	got := archive.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	archive, err := Open(writeTestGRF(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer archive.Close()

	tests := []struct {
		path string
		want bool
	}{
		{"data/test.txt", true},
		{`DATA\TEST.TXT`, true},
		{"data/model/한글.rsm", true},
		{"data/missing.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := archive.Contains(tt.path); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRead(t *testing.T) {
	archive, err := Open(writeTestGRF(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer archive.Close()

	for _, f := range testFiles() {
		t.Run(f.Name, func(t *testing.T) {
			data, err := archive.Read(f.Name)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !bytes.Equal(data, f.Data) {
				t.Errorf("Read(%q) = %q, want %q", f.Name, data, f.Data)
			}
		})
	}

	if _, err := archive.Read("data/missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewReaderRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testFiles()); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	badMagic := append([]byte(nil), good...)
	badMagic[0] = 'X'

	badVersion := append([]byte(nil), good...)
	badVersion[42] = 0x03

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"short header", good[:10], ErrCorrupt},
		{"bad magic", badMagic, ErrInvalidMagic},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"truncated table", good[:len(good)-4], ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.grf")); err == nil {
		t.Error("expected error")
	}
}
