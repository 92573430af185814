package classfile

// Class is one parsed .class file. It owns its constant pool and methods;
// class-level attributes are kept raw so that consumers decode only the
// ones they care about.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         Pool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Field
	Methods      []Method
	Attributes   []Attribute
}

// Attribute is a raw class, field, method or code attribute: a resolved
// name plus the undecoded payload bytes.
type Attribute struct {
	Name string
	Raw  []byte
}

// Field is a field_info record with name and descriptor already resolved.
type Field struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

// Method is a method_info record. Code is nil for abstract and native
// methods.
type Method struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []Attribute
	Code        *Code
}

// Code is the decoded Code attribute of a method.
type Code struct {
	MaxStack   uint16
	MaxLocals  uint16
	Bytecode   []byte
	Handlers   []ExceptionHandler
	Lines      []LineEntry
	Attributes []Attribute
}

// ExceptionHandler is one entry of the exception table.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// LineEntry maps the first bytecode offset of a source line to its line
// number, as recorded in the LineNumberTable attribute.
type LineEntry struct {
	StartPC uint16
	Line    uint16
}

// Name returns the binary name of this class (dot-separated).
func (c *Class) Name() (string, error) {
	return c.Pool.ClassName(c.ThisClass)
}

// IsSynthetic reports whether the method carries ACC_SYNTHETIC.
func (m *Method) IsSynthetic() bool {
	return m.AccessFlags&AccSynthetic != 0
}

// Attribute returns the first class-level attribute with the given name.
func (c *Class) Attribute(name string) (Attribute, bool) {
	return findAttribute(c.Attributes, name)
}

// Attribute returns the first method-level attribute with the given name.
func (m *Method) Attribute(name string) (Attribute, bool) {
	return findAttribute(m.Attributes, name)
}

func findAttribute(attrs []Attribute, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// SourceFile returns the simple source file name recorded at class level,
// or "" when the attribute is absent or malformed.
func (c *Class) SourceFile() string {
	attr, ok := c.Attribute(AttrSourceFile)
	if !ok {
		return ""
	}
	cur := NewCursor(attr.Raw)
	idx, err := cur.U16()
	if err != nil {
		return ""
	}
	name, err := c.Pool.Utf8(idx)
	if err != nil {
		return ""
	}
	return name
}

// FindMethod locates a method by name and descriptor. Name alone is not a
// key: a class may declare several synthetic methods differing only in
// descriptor.
func (c *Class) FindMethod(name, descriptor string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name && c.Methods[i].Descriptor == descriptor {
			return &c.Methods[i]
		}
	}
	return nil
}

// LineAt returns the source line covering the given bytecode offset, using
// the entry with the greatest StartPC not exceeding pc. Returns 0 when the
// method carries no line information.
func (code *Code) LineAt(pc uint16) uint16 {
	var line uint16
	var best int32 = -1
	for _, e := range code.Lines {
		if e.StartPC <= pc && int32(e.StartPC) >= best {
			best = int32(e.StartPC)
			line = e.Line
		}
	}
	return line
}
