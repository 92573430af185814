package classfile

import (
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	cur := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09})

	if v, err := cur.U8(); err != nil || v != 0x01 {
		t.Fatalf("U8 = %d, %v; want 1, nil", v, err)
	}
	if v, err := cur.U16(); err != nil || v != 0x0203 {
		t.Fatalf("U16 = %#x, %v; want 0x0203, nil", v, err)
	}
	if v, err := cur.U32(); err != nil || v != 0x04050607 {
		t.Fatalf("U32 = %#x, %v; want 0x04050607, nil", v, err)
	}
	if cur.Offset() != 7 {
		t.Fatalf("Offset = %d, want 7", cur.Offset())
	}
	if cur.Remaining() != 2 {
		t.Fatalf("Remaining = %d, want 2", cur.Remaining())
	}

	b, err := cur.Bytes(2)
	if err != nil || len(b) != 2 || b[0] != 0x08 || b[1] != 0x09 {
		t.Fatalf("Bytes(2) = %v, %v", b, err)
	}
}

func TestCursorTruncation(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		read func(*Cursor) error
	}{
		{"u8 empty", nil, func(c *Cursor) error { _, err := c.U8(); return err }},
		{"u16 short", []byte{0x01}, func(c *Cursor) error { _, err := c.U16(); return err }},
		{"u32 short", []byte{0x01, 0x02, 0x03}, func(c *Cursor) error { _, err := c.U32(); return err }},
		{"bytes past end", []byte{0x01}, func(c *Cursor) error { _, err := c.Bytes(2); return err }},
		{"bytes negative", []byte{0x01}, func(c *Cursor) error { _, err := c.Bytes(-1); return err }},
		{"skip past end", []byte{0x01}, func(c *Cursor) error { return c.Skip(2) }},
		{"u16 slice short", []byte{0x01, 0x02, 0x03}, func(c *Cursor) error { _, err := c.U16Slice(2); return err }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cur := NewCursor(tc.data)
			err := tc.read(cur)
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("err = %v, want ErrTruncated", err)
			}
			if cur.Offset() != 0 {
				t.Fatalf("failed read moved the cursor to %d", cur.Offset())
			}
		})
	}
}

func TestCursorU16Slice(t *testing.T) {
	cur := NewCursor([]byte{0x00, 0x01, 0x00, 0x02, 0x12, 0x34})
	got, err := cur.U16Slice(3)
	if err != nil {
		t.Fatalf("U16Slice: %v", err)
	}
	want := []uint16{1, 2, 0x1234}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("U16Slice = %v, want %v", got, want)
		}
	}
	if cur.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", cur.Remaining())
	}
}
