// Package grf reads and writes GRF 0x200 archives, the zlib-compressed
// containers game assets ship in.
package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Faultbox/meshconv/pkg/encoding"
)

const (
	grfMagic   = "Master of Magic"
	headerSize = 46
	version200 = 0x200

	flagFile      = 0x01
	flagEncrypted = 0x02
	flagHeader    = 0x04
)

// Archive errors.
var (
	ErrInvalidMagic       = errors.New("invalid GRF magic")
	ErrUnsupportedVersion = errors.New("unsupported GRF version")
	ErrNotFound           = errors.New("file not found in archive")
	ErrEncrypted          = errors.New("encrypted entries are not supported")
	ErrCorrupt            = errors.New("corrupt GRF archive")
)

// Archive is an opened GRF archive.
type Archive struct {
	r       io.ReaderAt
	closer  io.Closer
	header  Header
	entries map[string]*Entry
}

// Header is the fixed 46-byte archive header.
type Header struct {
	Magic         [15]byte
	EncryptionKey [15]byte
	TableOffset   uint32
	Seed          uint32
	FileCount     uint32
	Version       uint32
}

// Entry describes one stored file.
type Entry struct {
	Name             string
	CompressedSize   uint32
	AlignedSize      uint32
	UncompressedSize uint32
	Flags            uint8
	Offset           uint32
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.closer = f
	return a, nil
}

// NewReader reads the archive header and file table from r.
func NewReader(r io.ReaderAt) (*Archive, error) {
	a := &Archive{r: r, entries: make(map[string]*Entry)}
	if err := a.readHeader(); err != nil {
		return nil, err
	}
	if err := a.readFileTable(); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	buf := make([]byte, headerSize)
	if _, err := a.r.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrCorrupt, err)
	}
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &a.header); err != nil {
		return fmt.Errorf("%w: decoding header: %v", ErrCorrupt, err)
	}
	if string(a.header.Magic[:]) != grfMagic {
		return ErrInvalidMagic
	}
	if a.header.Version != version200 {
		return fmt.Errorf("%w: 0x%x", ErrUnsupportedVersion, a.header.Version)
	}
	return nil
}

func (a *Archive) readFileTable() error {
	offset := int64(a.header.TableOffset) + headerSize

	var sizes [8]byte
	if _, err := a.r.ReadAt(sizes[:], offset); err != nil {
		return fmt.Errorf("%w: reading table sizes: %v", ErrCorrupt, err)
	}
	compressedSize := binary.LittleEndian.Uint32(sizes[0:])
	uncompressedSize := binary.LittleEndian.Uint32(sizes[4:])

	compressed := make([]byte, compressedSize)
	if _, err := a.r.ReadAt(compressed, offset+8); err != nil {
		return fmt.Errorf("%w: reading table: %v", ErrCorrupt, err)
	}
	table, err := inflate(compressed, uncompressedSize)
	if err != nil {
		return fmt.Errorf("%w: table: %v", ErrCorrupt, err)
	}

	count := int64(a.header.FileCount) - int64(a.header.Seed) - 7
	pos := 0
	for i := int64(0); i < count; i++ {
		nameEnd := bytes.IndexByte(table[pos:], 0)
		if nameEnd < 0 || pos+nameEnd+1+17 > len(table) {
			return fmt.Errorf("%w: entry %d truncated", ErrCorrupt, i)
		}
		name := encoding.EUCKRToUTF8(table[pos : pos+nameEnd])
		pos += nameEnd + 1

		e := &Entry{
			Name:             encoding.NormalizePath(name),
			CompressedSize:   binary.LittleEndian.Uint32(table[pos:]),
			AlignedSize:      binary.LittleEndian.Uint32(table[pos+4:]),
			UncompressedSize: binary.LittleEndian.Uint32(table[pos+8:]),
			Flags:            table[pos+12],
			Offset:           binary.LittleEndian.Uint32(table[pos+13:]),
		}
		pos += 17

		if e.Flags&flagFile != 0 {
			a.entries[e.Name] = e
		}
	}
	return nil
}

// List returns the stored file paths, sorted.
func (a *Archive) List() []string {
	out := make([]string, 0, len(a.entries))
	for name := range a.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether path is stored. Lookups ignore case and
// separator style.
func (a *Archive) Contains(path string) bool {
	_, ok := a.entries[encoding.NormalizePath(path)]
	return ok
}

// Stat returns the entry of path.
func (a *Archive) Stat(path string) (*Entry, bool) {
	e, ok := a.entries[encoding.NormalizePath(path)]
	return e, ok
}

// Read returns the decompressed content of path.
func (a *Archive) Read(path string) ([]byte, error) {
	e, ok := a.Stat(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if e.Flags&flagEncrypted != 0 || e.Flags&flagHeader != 0 {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
	}

	stored := make([]byte, e.AlignedSize)
	if _, err := a.r.ReadAt(stored, int64(e.Offset)+headerSize); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorrupt, path, err)
	}
	if e.CompressedSize > e.AlignedSize {
		return nil, fmt.Errorf("%w: %s compressed size exceeds stored size", ErrCorrupt, path)
	}
	if e.CompressedSize == e.UncompressedSize {
		return stored[:e.UncompressedSize], nil
	}

	data, err := inflate(stored[:e.CompressedSize], e.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return data, nil
}

func inflate(compressed []byte, size uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, err
	}
	return out, nil
}
