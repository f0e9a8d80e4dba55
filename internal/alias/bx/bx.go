// stand for bytes helper
package bx

import (
	"encoding/binary"
	"math"
)

// LE is the byte order of every multi-byte field in a row slot.
var LE = binary.LittleEndian

func U32(b []byte) uint32       { return LE.Uint32(b) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }

func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }

// --- float32 stored as its IEEE-754 bits ---
func F32At(b []byte, off int) float32       { return math.Float32frombits(U32At(b, off)) }
func PutF32At(b []byte, off int, v float32) { PutU32At(b, off, math.Float32bits(v)) }

// PutStrAt copies s into b[off:off+width] and zero-fills the rest of the range.
// s longer than width is cut at width.
func PutStrAt(b []byte, off, width int, s string) {
	dst := b[off : off+width]
	n := copy(dst, s)
	clear(dst[n:])
}

// StrAt reads b[off:off+width] up to the first zero byte.
func StrAt(b []byte, off, width int) string {
	src := b[off : off+width]
	for i, c := range src {
		if c == 0 {
			return string(src[:i])
		}
	}
	return string(src)
}
