package classfile

import (
	"encoding/binary"
	"errors"
	"testing"
)

func u16s(vals ...uint16) []byte {
	out := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(out[2*i:], v)
	}
	return out
}

// bsmAttr encodes a BootstrapMethods payload from (methodRef, args...)
// groups.
func bsmAttr(entries ...[]uint16) []byte {
	raw := u16s(uint16(len(entries)))
	for _, e := range entries {
		raw = append(raw, u16s(e[0], uint16(len(e)-1))...)
		raw = append(raw, u16s(e[1:]...)...)
	}
	return raw
}

func TestBootstrapHandleAt(t *testing.T) {
	pool := Pool{
		nil,
		&ConstMethodHandle{Kind: RefInvokeStatic, RefIndex: 7}, // #1
		&ConstUtf8{Value: "notahandle"},                        // #2
		&ConstMethodHandle{Kind: RefInvokeSpecial, RefIndex: 9}, // #3
	}

	// Entries before the target have different argument counts, so entry 2
	// is only reachable by walking widths, not by fixed-size indexing.
	raw := bsmAttr(
		[]uint16{10, 2, 2, 2},
		[]uint16{11},
		[]uint16{12, 2, 1},
	)

	h, err := BootstrapHandleAt(raw, pool, 2)
	if err != nil {
		t.Fatalf("BootstrapHandleAt: %v", err)
	}
	if h.Kind != RefInvokeStatic || h.RefIndex != 7 {
		t.Fatalf("handle = kind %d ref %d, want kind %d ref 7", h.Kind, h.RefIndex, RefInvokeStatic)
	}
}

func TestBootstrapHandleAtSkipsNonHandleArgs(t *testing.T) {
	pool := Pool{
		nil,
		&ConstUtf8{Value: "x"},
		&ConstMethodHandle{Kind: RefInvokeStatic, RefIndex: 4},
	}
	raw := bsmAttr([]uint16{9, 1, 1, 2})

	h, err := BootstrapHandleAt(raw, pool, 0)
	if err != nil {
		t.Fatalf("BootstrapHandleAt: %v", err)
	}
	if h.RefIndex != 4 {
		t.Fatalf("picked ref %d, want 4", h.RefIndex)
	}
}

func TestBootstrapHandleAtNoHandle(t *testing.T) {
	pool := Pool{nil, &ConstUtf8{Value: "x"}}
	raw := bsmAttr([]uint16{9, 1})

	if _, err := BootstrapHandleAt(raw, pool, 0); !errors.Is(err, ErrNoHandle) {
		t.Fatalf("err = %v, want ErrNoHandle", err)
	}
}

func TestBootstrapHandleAtErrors(t *testing.T) {
	pool := Pool{nil, &ConstMethodHandle{Kind: RefInvokeStatic, RefIndex: 7}}

	cases := []struct {
		name string
		raw  []byte
		k    uint16
	}{
		{"empty attribute", nil, 0},
		{"count only", u16s(1), 0},
		{"index out of range", bsmAttr([]uint16{9, 1}), 1},
		{"earlier entry truncated", append(u16s(2, 9), 0x00), 1},
		{"target args truncated", append(u16s(1, 9, 3), u16s(1)...), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BootstrapHandleAt(tc.raw, pool, tc.k); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestBootstrapEntries(t *testing.T) {
	raw := bsmAttr(
		[]uint16{10, 5, 6},
		[]uint16{11},
	)
	entries, err := BootstrapEntries(raw)
	if err != nil {
		t.Fatalf("BootstrapEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].MethodRef != 10 || len(entries[0].Args) != 2 || entries[0].Args[1] != 6 {
		t.Fatalf("entry 0 = %+v", entries[0])
	}
	if entries[1].MethodRef != 11 || len(entries[1].Args) != 0 {
		t.Fatalf("entry 1 = %+v", entries[1])
	}
}
