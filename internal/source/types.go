package source

type (
	// FileID uniquely identifies a class file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a loaded class file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileFromArchive indicates the file was extracted from a jar entry.
	FileFromArchive
)

// File captures metadata and raw bytes for a single class file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}

// Location is a human-addressable position inside a class file: the class
// and method an instruction belongs to, its bytecode offset, and the Java
// source line recovered from debug info (0 when the class was compiled
// without it).
type Location struct {
	File   FileID
	Class  string
	Method string
	PC     uint16
	Line   uint16
}

// Less orders locations for deterministic output: by file, then class,
// method, and finally bytecode offset.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Class != other.Class {
		return l.Class < other.Class
	}
	if l.Method != other.Method {
		return l.Method < other.Method
	}
	return l.PC < other.PC
}
