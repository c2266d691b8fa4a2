package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/meshconv/pkg/encoding"
)

// File is one file to store in a new archive.
type File struct {
	Name string
	Data []byte
}

// Write builds a GRF 0x200 archive holding files. Names are stored with
// backslash separators and EUC-KR encoding, as game clients expect.
func Write(w io.Writer, files []File) error {
	var body, table bytes.Buffer

	for _, f := range files {
		compressed, err := deflate(f.Data)
		if err != nil {
			return fmt.Errorf("compressing %s: %w", f.Name, err)
		}
		aligned := (len(compressed) + 7) &^ 7
		offset := body.Len()
		body.Write(compressed)
		body.Write(make([]byte, aligned-len(compressed)))

		table.Write(encoding.UTF8ToEUCKR(strings.ReplaceAll(f.Name, "/", "\\")))
		table.WriteByte(0)
		var rec [17]byte
		binary.LittleEndian.PutUint32(rec[0:], uint32(len(compressed)))
		binary.LittleEndian.PutUint32(rec[4:], uint32(aligned))
		binary.LittleEndian.PutUint32(rec[8:], uint32(len(f.Data)))
		rec[12] = flagFile
		binary.LittleEndian.PutUint32(rec[13:], uint32(offset))
		table.Write(rec[:])
	}

	compressedTable, err := deflate(table.Bytes())
	if err != nil {
		return fmt.Errorf("compressing file table: %w", err)
	}

	h := Header{
		TableOffset: uint32(body.Len()),
		FileCount:   uint32(len(files)) + 7,
		Version:     version200,
	}
	copy(h.Magic[:], grfMagic)

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:], uint32(len(compressedTable)))
	binary.LittleEndian.PutUint32(sizes[4:], uint32(table.Len()))
	if _, err := w.Write(sizes[:]); err != nil {
		return err
	}
	_, err = w.Write(compressedTable)
	return err
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
