// Package formats parses and encodes the binary model formats meshconv
// imports: RSM models, GND ground meshes and GAT altitude tables.
package formats

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/Faultbox/meshconv/pkg/encoding"
)

// binReader reads little-endian values. The first short read sets err and
// every later read returns zero values.
type binReader struct {
	data []byte
	off  int
	err  error
}

func newBinReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) remaining() int { return len(r.data) - r.off }

func (r *binReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.remaining() < n {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *binReader) skip(n int) { r.next(n) }

func (r *binReader) u8() uint8 {
	if b := r.next(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *binReader) u16() uint16 {
	if b := r.next(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *binReader) u32() uint32 {
	if b := r.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *binReader) i16() int16 { return int16(r.u16()) }
func (r *binReader) i32() int32 { return int32(r.u32()) }
func (r *binReader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *binReader) vec3() [3]float32 {
	return [3]float32{r.f32(), r.f32(), r.f32()}
}

func (r *binReader) vec4() [4]float32 {
	return [4]float32{r.f32(), r.f32(), r.f32(), r.f32()}
}

func (r *binReader) bytes4() [4]uint8 {
	var out [4]uint8
	copy(out[:], r.next(4))
	return out
}

func (r *binReader) fixedString(n int) string {
	return encoding.FixedString(r.next(n))
}

// count reads an int32 element count and checks that count elements of
// elemSize bytes can still follow.
func (r *binReader) count(elemSize int) (int, bool) {
	n := r.i32()
	if r.err != nil {
		return 0, false
	}
	if n < 0 || int64(n)*int64(elemSize) > int64(r.remaining()) {
		return int(n), false
	}
	return int(n), true
}

type binWriter struct {
	bytes.Buffer
}

func (w *binWriter) u8(v uint8)   { w.WriteByte(v) }
func (w *binWriter) u16(v uint16) { w.Write(binary.LittleEndian.AppendUint16(nil, v)) }
func (w *binWriter) u32(v uint32) { w.Write(binary.LittleEndian.AppendUint32(nil, v)) }
func (w *binWriter) i16(v int16)  { w.u16(uint16(v)) }
func (w *binWriter) i32(v int32)  { w.u32(uint32(v)) }
func (w *binWriter) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *binWriter) f32s(vs ...float32) {
	for _, v := range vs {
		w.f32(v)
	}
}

func (w *binWriter) fixedString(s string, n int) {
	w.Write(encoding.PutFixedString(s, n))
}
