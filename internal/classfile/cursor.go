package classfile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated reports that a read ran past the end of the underlying bytes.
var ErrTruncated = errors.New("truncated data")

// Cursor is a bounds-checked big-endian reader over a raw byte buffer.
// Every read advances the position; a failed read reports the offset at
// which the data ran out and leaves the position unchanged.
type Cursor struct {
	data []byte
	off  int
}

// NewCursor wraps data in a cursor positioned at offset 0.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the current read position in bytes.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.off }

// U8 reads an unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, fmt.Errorf("u8 at offset %d: %w", c.off, ErrTruncated)
	}
	v := c.data[c.off]
	c.off++
	return v, nil
}

// U16 reads a big-endian unsigned 16-bit value.
func (c *Cursor) U16() (uint16, error) {
	if c.Remaining() < 2 {
		return 0, fmt.Errorf("u16 at offset %d: %w", c.off, ErrTruncated)
	}
	v := binary.BigEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

// U32 reads a big-endian unsigned 32-bit value.
func (c *Cursor) U32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, fmt.Errorf("u32 at offset %d: %w", c.off, ErrTruncated)
	}
	v := binary.BigEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

// Bytes reads exactly n bytes. The returned slice aliases the underlying
// buffer; callers that retain it must copy.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("%d bytes at offset %d: %w", n, c.off, ErrTruncated)
	}
	v := c.data[c.off : c.off+n]
	c.off += n
	return v, nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return fmt.Errorf("skip %d at offset %d: %w", n, c.off, ErrTruncated)
	}
	c.off += n
	return nil
}

// U16Slice reads n consecutive big-endian u16 values.
func (c *Cursor) U16Slice(n int) ([]uint16, error) {
	if n < 0 || c.Remaining() < 2*n {
		return nil, fmt.Errorf("%d u16 values at offset %d: %w", n, c.off, ErrTruncated)
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(c.data[c.off:])
		c.off += 2
	}
	return out, nil
}
