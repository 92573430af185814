package classfile

import (
	"errors"
	"fmt"
)

// ErrNoHandle reports that a bootstrap entry carries no method-handle-typed
// argument.
var ErrNoHandle = errors.New("bootstrap entry has no method handle argument")

// BootstrapEntry is one decoded record of the BootstrapMethods attribute: a
// method reference index plus its argument constant pool indices.
type BootstrapEntry struct {
	MethodRef uint16
	Args      []uint16
}

// BootstrapHandleAt walks the raw BootstrapMethods attribute bytes to the
// zero-based entry k and returns the first argument that resolves to a
// method handle constant.
//
// The attribute layout is: u2 entry count, then variable-length records of
// u2 method ref, u2 argument count N, N×u2 argument indices. Records cannot
// be random-accessed: reaching entry k means summing the widths of entries
// 0..k-1.
//
// Malformed or truncated bytes and an out-of-range k produce a decode error
// (never a panic); an entry whose arguments include no method handle
// produces ErrNoHandle.
func BootstrapHandleAt(raw []byte, pool Pool, k uint16) (*ConstMethodHandle, error) {
	entry, err := bootstrapEntryAt(raw, k)
	if err != nil {
		return nil, err
	}
	for _, arg := range entry.Args {
		c, err := pool.At(arg)
		if err != nil {
			return nil, err
		}
		if mh, ok := c.(*ConstMethodHandle); ok {
			// At most one relevant handle per entry; first match wins.
			return mh, nil
		}
	}
	return nil, ErrNoHandle
}

func bootstrapEntryAt(raw []byte, k uint16) (BootstrapEntry, error) {
	cur := NewCursor(raw)
	count, err := cur.U16()
	if err != nil {
		return BootstrapEntry{}, fmt.Errorf("bootstrap method count: %w", err)
	}
	if k >= count {
		return BootstrapEntry{}, fmt.Errorf("bootstrap index %d out of range (count %d)", k, count)
	}
	for i := uint16(0); i < k; i++ {
		if err := cur.Skip(2); err != nil {
			return BootstrapEntry{}, fmt.Errorf("bootstrap entry %d: %w", i, err)
		}
		argc, err := cur.U16()
		if err != nil {
			return BootstrapEntry{}, fmt.Errorf("bootstrap entry %d: %w", i, err)
		}
		if err := cur.Skip(2 * int(argc)); err != nil {
			return BootstrapEntry{}, fmt.Errorf("bootstrap entry %d: %w", i, err)
		}
	}
	methodRef, err := cur.U16()
	if err != nil {
		return BootstrapEntry{}, fmt.Errorf("bootstrap entry %d: %w", k, err)
	}
	argc, err := cur.U16()
	if err != nil {
		return BootstrapEntry{}, fmt.Errorf("bootstrap entry %d: %w", k, err)
	}
	args, err := cur.U16Slice(int(argc))
	if err != nil {
		return BootstrapEntry{}, fmt.Errorf("bootstrap entry %d: %w", k, err)
	}
	return BootstrapEntry{MethodRef: methodRef, Args: args}, nil
}

// BootstrapEntries decodes the whole attribute. Used by introspection
// surfaces (dump); the analysis path sticks to BootstrapHandleAt and never
// decodes entries it does not need.
func BootstrapEntries(raw []byte) ([]BootstrapEntry, error) {
	cur := NewCursor(raw)
	count, err := cur.U16()
	if err != nil {
		return nil, fmt.Errorf("bootstrap method count: %w", err)
	}
	entries := make([]BootstrapEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		methodRef, err := cur.U16()
		if err != nil {
			return nil, fmt.Errorf("bootstrap entry %d: %w", i, err)
		}
		argc, err := cur.U16()
		if err != nil {
			return nil, fmt.Errorf("bootstrap entry %d: %w", i, err)
		}
		args, err := cur.U16Slice(int(argc))
		if err != nil {
			return nil, fmt.Errorf("bootstrap entry %d: %w", i, err)
		}
		entries = append(entries, BootstrapEntry{MethodRef: methodRef, Args: args})
	}
	return entries, nil
}
