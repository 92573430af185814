package classfile

import (
	"errors"
	"fmt"
	"os"
)

const classMagic = 0xCAFEBABE

// ErrNotClassFile reports that the input does not start with the class file
// magic number.
var ErrNotClassFile = errors.New("not a class file")

// ParseFile reads and parses a .class file from disk.
func ParseFile(path string) (*Class, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a class file image. All multi-byte fields are big-endian.
// Attributes are resolved to their names but kept as raw payloads.
func Parse(data []byte) (*Class, error) {
	cur := NewCursor(data)

	magic, err := cur.U32()
	if err != nil {
		return nil, err
	}
	if magic != classMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrNotClassFile, magic)
	}

	c := &Class{}
	if c.MinorVersion, err = cur.U16(); err != nil {
		return nil, fmt.Errorf("minor version: %w", err)
	}
	if c.MajorVersion, err = cur.U16(); err != nil {
		return nil, fmt.Errorf("major version: %w", err)
	}

	poolCount, err := cur.U16()
	if err != nil {
		return nil, fmt.Errorf("constant pool count: %w", err)
	}
	if c.Pool, err = parsePool(cur, poolCount); err != nil {
		return nil, fmt.Errorf("constant pool: %w", err)
	}

	if c.AccessFlags, err = cur.U16(); err != nil {
		return nil, fmt.Errorf("access flags: %w", err)
	}
	if c.ThisClass, err = cur.U16(); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}
	if c.SuperClass, err = cur.U16(); err != nil {
		return nil, fmt.Errorf("super_class: %w", err)
	}

	ifaceCount, err := cur.U16()
	if err != nil {
		return nil, fmt.Errorf("interfaces count: %w", err)
	}
	if c.Interfaces, err = cur.U16Slice(int(ifaceCount)); err != nil {
		return nil, fmt.Errorf("interfaces: %w", err)
	}

	fieldCount, err := cur.U16()
	if err != nil {
		return nil, fmt.Errorf("fields count: %w", err)
	}
	c.Fields = make([]Field, 0, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		f, err := parseField(cur, c.Pool)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		c.Fields = append(c.Fields, f)
	}

	methodCount, err := cur.U16()
	if err != nil {
		return nil, fmt.Errorf("methods count: %w", err)
	}
	c.Methods = make([]Method, 0, methodCount)
	for i := uint16(0); i < methodCount; i++ {
		m, err := parseMethod(cur, c.Pool)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		c.Methods = append(c.Methods, m)
	}

	if c.Attributes, err = parseAttributes(cur, c.Pool); err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}
	return c, nil
}

func parseField(cur *Cursor, pool Pool) (Field, error) {
	flags, name, descriptor, attrs, err := parseMember(cur, pool)
	if err != nil {
		return Field{}, err
	}
	return Field{AccessFlags: flags, Name: name, Descriptor: descriptor, Attributes: attrs}, nil
}

func parseMethod(cur *Cursor, pool Pool) (Method, error) {
	flags, name, descriptor, attrs, err := parseMember(cur, pool)
	if err != nil {
		return Method{}, err
	}
	m := Method{AccessFlags: flags, Name: name, Descriptor: descriptor, Attributes: attrs}
	if attr, ok := m.Attribute(AttrCode); ok {
		code, err := parseCode(attr.Raw, pool)
		if err != nil {
			return Method{}, fmt.Errorf("Code attribute of %s%s: %w", name, descriptor, err)
		}
		m.Code = code
	}
	return m, nil
}

func parseMember(cur *Cursor, pool Pool) (flags uint16, name, descriptor string, attrs []Attribute, err error) {
	if flags, err = cur.U16(); err != nil {
		return 0, "", "", nil, err
	}
	nameIndex, err := cur.U16()
	if err != nil {
		return 0, "", "", nil, err
	}
	descIndex, err := cur.U16()
	if err != nil {
		return 0, "", "", nil, err
	}
	if name, err = pool.Utf8(nameIndex); err != nil {
		return 0, "", "", nil, err
	}
	if descriptor, err = pool.Utf8(descIndex); err != nil {
		return 0, "", "", nil, err
	}
	if attrs, err = parseAttributes(cur, pool); err != nil {
		return 0, "", "", nil, err
	}
	return flags, name, descriptor, attrs, nil
}

func parseAttributes(cur *Cursor, pool Pool) ([]Attribute, error) {
	count, err := cur.U16()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for i := uint16(0); i < count; i++ {
		nameIndex, err := cur.U16()
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		length, err := cur.U32()
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		raw, err := cur.Bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			// Unknown or unresolvable attribute names are skippable; the
			// payload has already been consumed.
			continue
		}
		attrs = append(attrs, Attribute{Name: name, Raw: raw})
	}
	return attrs, nil
}

// parseCode decodes a Code attribute, including its nested attribute table
// so that LineNumberTable is available for diagnostics.
func parseCode(raw []byte, pool Pool) (*Code, error) {
	cur := NewCursor(raw)
	code := &Code{}
	var err error
	if code.MaxStack, err = cur.U16(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = cur.U16(); err != nil {
		return nil, err
	}
	codeLen, err := cur.U32()
	if err != nil {
		return nil, err
	}
	body, err := cur.Bytes(int(codeLen))
	if err != nil {
		return nil, err
	}
	code.Bytecode = append([]byte(nil), body...)

	exCount, err := cur.U16()
	if err != nil {
		return nil, err
	}
	code.Handlers = make([]ExceptionHandler, 0, exCount)
	for i := uint16(0); i < exCount; i++ {
		vals, err := cur.U16Slice(4)
		if err != nil {
			return nil, fmt.Errorf("exception handler %d: %w", i, err)
		}
		code.Handlers = append(code.Handlers, ExceptionHandler{
			StartPC:   vals[0],
			EndPC:     vals[1],
			HandlerPC: vals[2],
			CatchType: vals[3],
		})
	}

	if code.Attributes, err = parseAttributes(cur, pool); err != nil {
		return nil, err
	}
	if attr, ok := findAttribute(code.Attributes, AttrLineNumberTable); ok {
		lines, err := parseLineNumberTable(attr.Raw)
		if err != nil {
			return nil, err
		}
		code.Lines = lines
	}
	return code, nil
}

func parseLineNumberTable(raw []byte) ([]LineEntry, error) {
	cur := NewCursor(raw)
	count, err := cur.U16()
	if err != nil {
		return nil, err
	}
	lines := make([]LineEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		startPC, err := cur.U16()
		if err != nil {
			return nil, fmt.Errorf("line entry %d: %w", i, err)
		}
		line, err := cur.U16()
		if err != nil {
			return nil, fmt.Errorf("line entry %d: %w", i, err)
		}
		lines = append(lines, LineEntry{StartPC: startPC, Line: line})
	}
	return lines, nil
}
