package borsh

import (
	"encoding/binary"
)

// Reader consumes fixed-layout primitives from a byte slice starting at a
// cursor. Like Writer it keeps the first error; once failed, every read
// returns that error and the cursor stops moving.
type Reader struct {
	buf []byte
	pos int
	err error
}

// NewReader creates a Reader over buf positioned at cursor. A cursor outside
// [0, len(buf)] yields a Reader that fails with ErrTruncatedInput.
func NewReader(buf []byte, cursor int) *Reader {
	r := &Reader{buf: buf, pos: cursor}
	if cursor < 0 || cursor > len(buf) {
		r.pos = 0
		r.err = Errorf(ErrTruncatedInput, "cursor %d outside buffer of %d bytes", cursor, len(buf))
	}
	return r
}

// Error returns the first error encountered, if any.
func (r *Reader) Error() error {
	return r.err
}

// Pos returns the cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) recordError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// take returns the next n bytes without copying.
func (r *Reader) take(n int) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if n < 0 {
		r.recordError(Errorf(ErrInvalidDescriptor, "negative read length %d", n))
		return nil, r.err
	}
	if n > r.Remaining() {
		r.recordError(Errorf(ErrTruncatedInput, "need %d bytes at offset %d, have %d", n, r.pos, r.Remaining()))
		return nil, r.err
	}
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

// ReadDiscriminant reads a one-byte union tag.
func (r *Reader) ReadDiscriminant() (uint8, error) {
	p, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadUint reads a little-endian unsigned integer of width bytes. width must
// be 1, 2, 4 or 8.
func (r *Reader) ReadUint(width int) (uint64, error) {
	if width < 1 || width > 8 {
		r.recordError(Errorf(ErrInvalidDescriptor, "integer width %d not in 1..8", width))
		return 0, r.err
	}
	p, err := r.take(width)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	copy(buf[:], p)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadInt reads a little-endian two's complement integer of width bytes and
// sign-extends it.
func (r *Reader) ReadInt(width int) (int64, error) {
	u, err := r.ReadUint(width)
	if err != nil {
		return 0, err
	}
	shift := uint(64 - 8*width)
	return int64(u<<shift) >> shift, nil
}

// ReadFixed reads exactly n bytes and returns a copy of them.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	p, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), p...), nil
}
