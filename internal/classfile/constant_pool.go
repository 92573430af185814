package classfile

import (
	"errors"
	"fmt"
)

// ErrResolve reports that a constant pool index did not point at the
// expected entry kind. Callers treat it as a per-candidate condition, not a
// fatal one.
var ErrResolve = errors.New("constant resolution error")

// Const is implemented by every constant pool entry kind.
type Const interface {
	Tag() uint8
}

// Pool is the class constant pool. It is 1-indexed: slot 0 is always nil,
// and the slot after a Long or Double entry is nil as well.
type Pool []Const

type ConstUtf8 struct {
	Value string
}

func (c *ConstUtf8) Tag() uint8 { return TagUtf8 }

type ConstInteger struct {
	Value int32
}

func (c *ConstInteger) Tag() uint8 { return TagInteger }

type ConstFloat struct {
	Value float32
}

func (c *ConstFloat) Tag() uint8 { return TagFloat }

type ConstLong struct {
	Value int64
}

func (c *ConstLong) Tag() uint8 { return TagLong }

type ConstDouble struct {
	Value float64
}

func (c *ConstDouble) Tag() uint8 { return TagDouble }

type ConstClass struct {
	NameIndex uint16
}

func (c *ConstClass) Tag() uint8 { return TagClass }

type ConstString struct {
	StringIndex uint16
}

func (c *ConstString) Tag() uint8 { return TagString }

type ConstFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstFieldref) Tag() uint8 { return TagFieldref }

type ConstMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstMethodref) Tag() uint8 { return TagMethodref }

type ConstInterfaceMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstInterfaceMethodref) Tag() uint8 { return TagInterfaceMethodref }

type ConstNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstNameAndType) Tag() uint8 { return TagNameAndType }

// ConstMethodHandle is a typed reference to a member, tagged with the
// invocation kind (one of the Ref* constants).
type ConstMethodHandle struct {
	Kind     uint8
	RefIndex uint16
}

func (c *ConstMethodHandle) Tag() uint8 { return TagMethodHandle }

type ConstMethodType struct {
	DescriptorIndex uint16
}

func (c *ConstMethodType) Tag() uint8 { return TagMethodType }

// ConstInvokeDynamic is a dynamic call site constant: the zero-based index
// into the BootstrapMethods attribute plus the call site name and type.
type ConstInvokeDynamic struct {
	BootstrapIndex   uint16
	NameAndTypeIndex uint16
}

func (c *ConstInvokeDynamic) Tag() uint8 { return TagInvokeDynamic }

// ConstDynamic is a dynamically-computed constant (same layout as
// ConstInvokeDynamic, different tag).
type ConstDynamic struct {
	BootstrapIndex   uint16
	NameAndTypeIndex uint16
}

func (c *ConstDynamic) Tag() uint8 { return TagDynamic }

type ConstModule struct {
	NameIndex uint16
}

func (c *ConstModule) Tag() uint8 { return TagModule }

type ConstPackage struct {
	NameIndex uint16
}

func (c *ConstPackage) Tag() uint8 { return TagPackage }

// At returns the entry at index i, or an error for out-of-range and unusable
// (zero / long-shadow) slots.
func (p Pool) At(i uint16) (Const, error) {
	if int(i) >= len(p) || p[i] == nil {
		return nil, fmt.Errorf("%w: invalid constant pool index %d", ErrResolve, i)
	}
	return p[i], nil
}

// Utf8 resolves index i as a CONSTANT_Utf8 string.
func (p Pool) Utf8(i uint16) (string, error) {
	c, err := p.At(i)
	if err != nil {
		return "", err
	}
	u, ok := c.(*ConstUtf8)
	if !ok {
		return "", fmt.Errorf("%w: index %d is tag %d, want Utf8", ErrResolve, i, c.Tag())
	}
	return u.Value, nil
}

// ClassName resolves index i as a CONSTANT_Class and returns its binary
// name in dot-separated form.
func (p Pool) ClassName(i uint16) (string, error) {
	c, err := p.At(i)
	if err != nil {
		return "", err
	}
	cls, ok := c.(*ConstClass)
	if !ok {
		return "", fmt.Errorf("%w: index %d is tag %d, want Class", ErrResolve, i, c.Tag())
	}
	name, err := p.Utf8(cls.NameIndex)
	if err != nil {
		return "", err
	}
	return externalName(name), nil
}

// NameAndType resolves index i as a CONSTANT_NameAndType pair.
func (p Pool) NameAndType(i uint16) (name, descriptor string, err error) {
	c, err := p.At(i)
	if err != nil {
		return "", "", err
	}
	nat, ok := c.(*ConstNameAndType)
	if !ok {
		return "", "", fmt.Errorf("%w: index %d is tag %d, want NameAndType", ErrResolve, i, c.Tag())
	}
	if name, err = p.Utf8(nat.NameIndex); err != nil {
		return "", "", err
	}
	if descriptor, err = p.Utf8(nat.DescriptorIndex); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// MemberRef is a fully resolved member reference: target class, member name
// and type descriptor.
type MemberRef struct {
	Class      string
	Name       string
	Descriptor string
}

// MethodRef resolves index i as a CONSTANT_Methodref or
// CONSTANT_InterfaceMethodref.
func (p Pool) MethodRef(i uint16) (MemberRef, error) {
	c, err := p.At(i)
	if err != nil {
		return MemberRef{}, err
	}
	var classIndex, natIndex uint16
	switch ref := c.(type) {
	case *ConstMethodref:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	case *ConstInterfaceMethodref:
		classIndex, natIndex = ref.ClassIndex, ref.NameAndTypeIndex
	default:
		return MemberRef{}, fmt.Errorf("%w: index %d is tag %d, want Methodref", ErrResolve, i, c.Tag())
	}
	className, err := p.ClassName(classIndex)
	if err != nil {
		return MemberRef{}, err
	}
	name, descriptor, err := p.NameAndType(natIndex)
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{Class: className, Name: name, Descriptor: descriptor}, nil
}

// InvokeDynamic resolves index i as a CONSTANT_InvokeDynamic call site.
func (p Pool) InvokeDynamic(i uint16) (*ConstInvokeDynamic, error) {
	c, err := p.At(i)
	if err != nil {
		return nil, err
	}
	indy, ok := c.(*ConstInvokeDynamic)
	if !ok {
		return nil, fmt.Errorf("%w: index %d is tag %d, want InvokeDynamic", ErrResolve, i, c.Tag())
	}
	return indy, nil
}

// MethodHandle resolves index i as a CONSTANT_MethodHandle.
func (p Pool) MethodHandle(i uint16) (*ConstMethodHandle, error) {
	c, err := p.At(i)
	if err != nil {
		return nil, err
	}
	mh, ok := c.(*ConstMethodHandle)
	if !ok {
		return nil, fmt.Errorf("%w: index %d is tag %d, want MethodHandle", ErrResolve, i, c.Tag())
	}
	return mh, nil
}

// parsePool reads count-1 entries. Long and Double occupy two slots; the
// second stays nil.
func parsePool(cur *Cursor, count uint16) (Pool, error) {
	pool := make(Pool, count)
	for i := uint16(1); i < count; i++ {
		tag, err := cur.U8()
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		switch tag {
		case TagUtf8:
			length, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Utf8): %w", i, err)
			}
			raw, err := cur.Bytes(int(length))
			if err != nil {
				return nil, fmt.Errorf("constant %d (Utf8): %w", i, err)
			}
			pool[i] = &ConstUtf8{Value: decodeModifiedUTF8(raw)}

		case TagInteger:
			v, err := cur.U32()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Integer): %w", i, err)
			}
			pool[i] = &ConstInteger{Value: int32(v)}

		case TagFloat:
			v, err := cur.U32()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Float): %w", i, err)
			}
			pool[i] = &ConstFloat{Value: float32FromBits(v)}

		case TagLong:
			hi, err := cur.U32()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Long): %w", i, err)
			}
			lo, err := cur.U32()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Long): %w", i, err)
			}
			pool[i] = &ConstLong{Value: int64(uint64(hi)<<32 | uint64(lo))}
			i++ // second slot stays nil

		case TagDouble:
			hi, err := cur.U32()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Double): %w", i, err)
			}
			lo, err := cur.U32()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Double): %w", i, err)
			}
			pool[i] = &ConstDouble{Value: float64FromBits(uint64(hi)<<32 | uint64(lo))}
			i++

		case TagClass:
			idx, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Class): %w", i, err)
			}
			pool[i] = &ConstClass{NameIndex: idx}

		case TagString:
			idx, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (String): %w", i, err)
			}
			pool[i] = &ConstString{StringIndex: idx}

		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			classIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (member ref): %w", i, err)
			}
			natIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (member ref): %w", i, err)
			}
			switch tag {
			case TagFieldref:
				pool[i] = &ConstFieldref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			case TagMethodref:
				pool[i] = &ConstMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			default:
				pool[i] = &ConstInterfaceMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}
			}

		case TagNameAndType:
			nameIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (NameAndType): %w", i, err)
			}
			descIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (NameAndType): %w", i, err)
			}
			pool[i] = &ConstNameAndType{NameIndex: nameIndex, DescriptorIndex: descIndex}

		case TagMethodHandle:
			kind, err := cur.U8()
			if err != nil {
				return nil, fmt.Errorf("constant %d (MethodHandle): %w", i, err)
			}
			refIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (MethodHandle): %w", i, err)
			}
			pool[i] = &ConstMethodHandle{Kind: kind, RefIndex: refIndex}

		case TagMethodType:
			idx, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (MethodType): %w", i, err)
			}
			pool[i] = &ConstMethodType{DescriptorIndex: idx}

		case TagDynamic, TagInvokeDynamic:
			bsmIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Dynamic): %w", i, err)
			}
			natIndex, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Dynamic): %w", i, err)
			}
			if tag == TagInvokeDynamic {
				pool[i] = &ConstInvokeDynamic{BootstrapIndex: bsmIndex, NameAndTypeIndex: natIndex}
			} else {
				pool[i] = &ConstDynamic{BootstrapIndex: bsmIndex, NameAndTypeIndex: natIndex}
			}

		case TagModule:
			idx, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Module): %w", i, err)
			}
			pool[i] = &ConstModule{NameIndex: idx}

		case TagPackage:
			idx, err := cur.U16()
			if err != nil {
				return nil, fmt.Errorf("constant %d (Package): %w", i, err)
			}
			pool[i] = &ConstPackage{NameIndex: idx}

		default:
			return nil, fmt.Errorf("constant %d: unknown tag %d", i, tag)
		}
	}
	return pool, nil
}

// externalName converts an internal binary name (slash-separated) to the
// dot-separated form used in diagnostics and comparisons.
func externalName(internal string) string {
	out := []byte(internal)
	for i, b := range out {
		if b == '/' {
			out[i] = '.'
		}
	}
	return string(out)
}
