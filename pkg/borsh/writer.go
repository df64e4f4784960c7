package borsh

import (
	"encoding/binary"
	"io"
)

// Writer emits fixed-layout primitives to an io.Writer. The first error is
// kept and every later write becomes a no-op, so callers check Error once
// after a sequence of writes.
type Writer struct {
	dst io.Writer
	err error
}

// NewWriter creates a Writer on top of dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// Error returns the first error that occurred during writing, if any.
func (w *Writer) Error() error {
	return w.err
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.dst.Write(p); err != nil {
		w.err = err
	}
}

// WriteDiscriminant writes a one-byte union tag.
func (w *Writer) WriteDiscriminant(tag uint8) {
	w.write([]byte{tag})
}

// WriteUint writes the low width bytes of v in little-endian order. width
// must be 1, 2, 4 or 8.
func (w *Writer) WriteUint(v uint64, width int) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.write(buf[:width])
}

func (w *Writer) WriteUint8(v uint8)   { w.WriteUint(uint64(v), 1) }
func (w *Writer) WriteUint16(v uint16) { w.WriteUint(uint64(v), 2) }
func (w *Writer) WriteUint32(v uint32) { w.WriteUint(uint64(v), 4) }
func (w *Writer) WriteUint64(v uint64) { w.WriteUint(v, 8) }
func (w *Writer) WriteInt8(v int8)     { w.WriteUint(uint64(v), 1) }
func (w *Writer) WriteInt16(v int16)   { w.WriteUint(uint64(v), 2) }
func (w *Writer) WriteInt32(v int32)   { w.WriteUint(uint64(v), 4) }
func (w *Writer) WriteInt64(v int64)   { w.WriteUint(uint64(v), 8) }

// WriteFixed writes p verbatim, with no length prefix.
func (w *Writer) WriteFixed(p []byte) {
	w.write(p)
}
