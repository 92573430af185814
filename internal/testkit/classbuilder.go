// Package testkit builds synthetic class file images for tests: a small
// constant pool assembler plus method and attribute encoders. It mirrors
// the wire layout the parser consumes (big-endian, JVMS §4) without any
// dependency on the packages under test.
package testkit

import (
	"bytes"
	"encoding/binary"
)

// Constant pool tags and flags duplicated locally so the builder stays
// independent from internal/classfile.
const (
	tagUtf8               = 1
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagInvokeDynamic      = 18
)

// LineEntry mirrors one LineNumberTable record.
type LineEntry struct {
	StartPC uint16
	Line    uint16
}

// BootstrapEntry mirrors one BootstrapMethods record.
type BootstrapEntry struct {
	MethodRef uint16
	Args      []uint16
}

type method struct {
	flags      uint16
	nameIndex  uint16
	descIndex  uint16
	code       []byte
	lines      []LineEntry
	noCode     bool
	extraAttrs []rawAttr
}

type rawAttr struct {
	nameIndex uint16
	raw       []byte
}

// ClassBuilder assembles a class file image. Zero value is not usable; use
// NewClass.
type ClassBuilder struct {
	Major uint16
	Minor uint16

	entries   [][]byte // encoded pool entries in slot order (1-indexed)
	utf8Index map[string]uint16

	accessFlags uint16
	thisClass   uint16
	superClass  uint16
	methods     []method
	classAttrs  []rawAttr
}

// NewClass starts a builder for a class with the given dot- or
// slash-separated name. The major version defaults to 52 (Java 8).
func NewClass(name string) *ClassBuilder {
	b := &ClassBuilder{
		Major:       52,
		utf8Index:   make(map[string]uint16),
		accessFlags: 0x0021, // public super
	}
	b.thisClass = b.ClassRef(name)
	b.superClass = b.ClassRef("java/lang/Object")
	return b
}

func (b *ClassBuilder) addEntry(raw []byte) uint16 {
	b.entries = append(b.entries, raw)
	return uint16(len(b.entries)) // slot 0 is implicit
}

// Utf8 interns a modified-UTF-8 constant and returns its index.
func (b *ClassBuilder) Utf8(s string) uint16 {
	if idx, ok := b.utf8Index[s]; ok {
		return idx
	}
	var buf bytes.Buffer
	buf.WriteByte(tagUtf8)
	writeU16(&buf, uint16(len(s)))
	buf.WriteString(s)
	idx := b.addEntry(buf.Bytes())
	b.utf8Index[s] = idx
	return idx
}

// ClassRef adds a CONSTANT_Class entry. Dots are converted to the internal
// slash form.
func (b *ClassBuilder) ClassRef(name string) uint16 {
	internal := bytes.ReplaceAll([]byte(name), []byte{'.'}, []byte{'/'})
	nameIdx := b.Utf8(string(internal))
	return b.addEntry(encodeRef(tagClass, nameIdx))
}

// NameAndType adds a CONSTANT_NameAndType entry.
func (b *ClassBuilder) NameAndType(name, descriptor string) uint16 {
	return b.addEntry(encodeRef2(tagNameAndType, b.Utf8(name), b.Utf8(descriptor)))
}

// MethodRef adds a CONSTANT_Methodref entry.
func (b *ClassBuilder) MethodRef(class, name, descriptor string) uint16 {
	return b.addEntry(encodeRef2(tagMethodref, b.ClassRef(class), b.NameAndType(name, descriptor)))
}

// InterfaceMethodRef adds a CONSTANT_InterfaceMethodref entry.
func (b *ClassBuilder) InterfaceMethodRef(class, name, descriptor string) uint16 {
	return b.addEntry(encodeRef2(tagInterfaceMethodref, b.ClassRef(class), b.NameAndType(name, descriptor)))
}

// StringRef adds a CONSTANT_String entry.
func (b *ClassBuilder) StringRef(s string) uint16 {
	return b.addEntry(encodeRef(tagString, b.Utf8(s)))
}

// FieldRef adds a CONSTANT_Fieldref entry.
func (b *ClassBuilder) FieldRef(class, name, descriptor string) uint16 {
	return b.addEntry(encodeRef2(tagFieldref, b.ClassRef(class), b.NameAndType(name, descriptor)))
}

// MethodHandle adds a CONSTANT_MethodHandle with the given reference kind.
func (b *ClassBuilder) MethodHandle(kind uint8, refIndex uint16) uint16 {
	var buf bytes.Buffer
	buf.WriteByte(tagMethodHandle)
	buf.WriteByte(kind)
	writeU16(&buf, refIndex)
	return b.addEntry(buf.Bytes())
}

// InvokeDynamic adds a CONSTANT_InvokeDynamic bound to bootstrap entry
// bsmIndex with the given call site name and type.
func (b *ClassBuilder) InvokeDynamic(bsmIndex uint16, name, descriptor string) uint16 {
	return b.addEntry(encodeRef2(tagInvokeDynamic, bsmIndex, b.NameAndType(name, descriptor)))
}

// AddMethod appends a method whose Code attribute wraps the given bytecode.
func (b *ClassBuilder) AddMethod(flags uint16, name, descriptor string, code []byte) *ClassBuilder {
	return b.AddMethodLines(flags, name, descriptor, code, nil)
}

// AddMethodLines is AddMethod plus a LineNumberTable.
func (b *ClassBuilder) AddMethodLines(flags uint16, name, descriptor string, code []byte, lines []LineEntry) *ClassBuilder {
	b.methods = append(b.methods, method{
		flags:     flags,
		nameIndex: b.Utf8(name),
		descIndex: b.Utf8(descriptor),
		code:      code,
		lines:     lines,
	})
	return b
}

// AddAbstractMethod appends a method without a Code attribute.
func (b *ClassBuilder) AddAbstractMethod(flags uint16, name, descriptor string) *ClassBuilder {
	b.methods = append(b.methods, method{
		flags:     flags,
		nameIndex: b.Utf8(name),
		descIndex: b.Utf8(descriptor),
		noCode:    true,
	})
	return b
}

// Bootstrap attaches a well-formed BootstrapMethods attribute.
func (b *ClassBuilder) Bootstrap(entries ...BootstrapEntry) *ClassBuilder {
	var buf bytes.Buffer
	writeU16(&buf, uint16(len(entries)))
	for _, e := range entries {
		writeU16(&buf, e.MethodRef)
		writeU16(&buf, uint16(len(e.Args)))
		for _, a := range e.Args {
			writeU16(&buf, a)
		}
	}
	return b.RawClassAttr("BootstrapMethods", buf.Bytes())
}

// RawClassAttr attaches an arbitrary class-level attribute payload, useful
// for malformed-input tests.
func (b *ClassBuilder) RawClassAttr(name string, raw []byte) *ClassBuilder {
	b.classAttrs = append(b.classAttrs, rawAttr{nameIndex: b.Utf8(name), raw: raw})
	return b
}

// SourceFile attaches a SourceFile attribute.
func (b *ClassBuilder) SourceFile(name string) *ClassBuilder {
	var buf bytes.Buffer
	writeU16(&buf, b.Utf8(name))
	return b.RawClassAttr("SourceFile", buf.Bytes())
}

// Build encodes the class image.
func (b *ClassBuilder) Build() []byte {
	// Materialize method attribute payloads first: encoding a Code
	// attribute interns pool entries, and the pool must be complete before
	// it is serialized.
	methodAttrs := make([][]rawAttr, len(b.methods))
	for i, m := range b.methods {
		attrs := m.extraAttrs
		if !m.noCode {
			attrs = append([]rawAttr{{
				nameIndex: b.Utf8("Code"),
				raw:       encodeCode(m.code, m.lines, b),
			}}, attrs...)
		}
		methodAttrs[i] = attrs
	}

	var buf bytes.Buffer
	writeU32(&buf, 0xCAFEBABE)
	writeU16(&buf, b.Minor)
	writeU16(&buf, b.Major)

	writeU16(&buf, uint16(len(b.entries))+1)
	for _, e := range b.entries {
		buf.Write(e)
	}

	writeU16(&buf, b.accessFlags)
	writeU16(&buf, b.thisClass)
	writeU16(&buf, b.superClass)
	writeU16(&buf, 0) // interfaces
	writeU16(&buf, 0) // fields

	writeU16(&buf, uint16(len(b.methods)))
	for i, m := range b.methods {
		writeU16(&buf, m.flags)
		writeU16(&buf, m.nameIndex)
		writeU16(&buf, m.descIndex)
		writeAttrs(&buf, methodAttrs[i])
	}

	writeAttrs(&buf, b.classAttrs)
	return buf.Bytes()
}

func encodeCode(code []byte, lines []LineEntry, b *ClassBuilder) []byte {
	var buf bytes.Buffer
	writeU16(&buf, 8) // max_stack
	writeU16(&buf, 8) // max_locals
	writeU32(&buf, uint32(len(code)))
	buf.Write(code)
	writeU16(&buf, 0) // exception table
	if len(lines) == 0 {
		writeU16(&buf, 0)
		return buf.Bytes()
	}
	writeU16(&buf, 1) // one nested attribute
	writeU16(&buf, b.Utf8("LineNumberTable"))
	writeU32(&buf, uint32(2+4*len(lines)))
	writeU16(&buf, uint16(len(lines)))
	for _, l := range lines {
		writeU16(&buf, l.StartPC)
		writeU16(&buf, l.Line)
	}
	return buf.Bytes()
}

func writeAttrs(buf *bytes.Buffer, attrs []rawAttr) {
	writeU16(buf, uint16(len(attrs)))
	for _, a := range attrs {
		writeU16(buf, a.nameIndex)
		writeU32(buf, uint32(len(a.raw)))
		buf.Write(a.raw)
	}
}

func encodeRef(tag uint8, idx uint16) []byte {
	var buf bytes.Buffer
	buf.WriteByte(tag)
	writeU16(&buf, idx)
	return buf.Bytes()
}

func encodeRef2(tag uint8, a, c uint16) []byte {
	var buf bytes.Buffer
	buf.WriteByte(tag)
	writeU16(&buf, a)
	writeU16(&buf, c)
	return buf.Bytes()
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}
