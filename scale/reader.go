package scale

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/chainmeta/metacheck/errors"
)

// Reader is a forward-only cursor over an immutable byte buffer.
// It owns no data; all returned byte slices are copies, so a decoded
// document stays valid after the input buffer is released.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.UnexpectedEOF(r.pos, 1, 0)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, errors.UnexpectedEOF(r.pos, n, r.Remaining())
	}
	buf := make([]byte, n)
	copy(buf, r.data[r.pos:r.pos+n])
	r.pos += n
	return buf, nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, errors.UnexpectedEOF(r.pos, 4, r.Remaining())
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadCompact reads a SCALE compact-encoded unsigned integer. The low two
// bits of the first byte select the tier:
//
//	0b00  value in the remaining six bits
//	0b01  two bytes little-endian, shifted right by two
//	0b10  four bytes little-endian, shifted right by two
//	0b11  big-integer: (prefix>>2)+4 little-endian bytes follow
//
// Big-integer payloads over 8 bytes cannot fit a uint64 and fail with
// an invalid-compact error.
func (r *Reader) ReadCompact() (uint64, error) {
	start := r.pos
	b0, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	switch b0 & 0x03 {
	case 0x00:
		return uint64(b0 >> 2), nil

	case 0x01:
		b1, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16([]byte{b0, b1})) >> 2, nil

	case 0x02:
		if r.Remaining() < 3 {
			return 0, errors.UnexpectedEOF(r.pos, 3, r.Remaining())
		}
		buf := [4]byte{b0, r.data[r.pos], r.data[r.pos+1], r.data[r.pos+2]}
		r.pos += 3
		return uint64(binary.LittleEndian.Uint32(buf[:])) >> 2, nil

	default:
		n := int(b0>>2) + 4
		if n > 8 {
			return 0, errors.InvalidCompact(start,
				"big-integer tier longer than 8 bytes")
		}
		if r.Remaining() < n {
			return 0, errors.UnexpectedEOF(r.pos, n, r.Remaining())
		}
		var v uint64
		for i := 0; i < n; i++ {
			v |= uint64(r.data[r.pos+i]) << (8 * i)
		}
		r.pos += n
		return v, nil
	}
}

// ReadByteSlice reads a compact-length-prefixed byte sequence. The declared
// length is checked against the remaining buffer before allocating, so a
// corrupt length fails as a truncated read instead of a huge allocation.
func (r *Reader) ReadByteSlice() ([]byte, error) {
	length, err := r.ReadCompact()
	if err != nil {
		return nil, err
	}
	if length > uint64(r.Remaining()) {
		return nil, errors.UnexpectedEOF(r.pos, int(length), r.Remaining())
	}
	return r.ReadBytes(int(length))
}

// ReadString reads a compact-length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	data, err := r.ReadByteSlice()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(start, data)
	}
	return string(data), nil
}

// ReadSequence reads a compact count followed by count elements decoded by
// decode. A count exceeding the remaining buffer size is rejected before
// any element is decoded: every element consumes at least one byte, so the
// check bounds allocation by input size.
func ReadSequence[T any](r *Reader, decode func(*Reader) (T, error)) ([]T, error) {
	start := r.pos
	count, err := r.ReadCompact()
	if err != nil {
		return nil, err
	}
	if count > uint64(r.Remaining()) {
		return nil, errors.LengthOverflow(start, count, r.Remaining())
	}
	out := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
