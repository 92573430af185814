package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// I/O и входные файлы
	IOLoadFileError Code = 1000
	IOArchiveError  Code = 1001
	IONoInputs      Code = 1002

	// Декодирование class-файла
	ClsNotClassFile        Code = 2000
	ClsMalformed           Code = 2001
	ClsMalformedAttribute  Code = 2002
	ClsUnresolvableConst   Code = 2003
	ClsUnsupportedVersion  Code = 2004
	ClsMalformedCodeStream Code = 2005

	// Правила анализа
	LintInfo            Code = 3000
	LintLambdaMethodRef Code = 3001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown issue",

	IOLoadFileError: "Failed to load input file",
	IOArchiveError:  "Failed to read archive entry",
	IONoInputs:      "No class files found",

	ClsNotClassFile:        "Not a class file",
	ClsMalformed:           "Malformed class file",
	ClsMalformedAttribute:  "Malformed attribute",
	ClsUnresolvableConst:   "Unresolvable constant pool reference",
	ClsUnsupportedVersion:  "Unsupported class file version",
	ClsMalformedCodeStream: "Malformed bytecode stream",

	LintInfo:            "Lint note",
	LintLambdaMethodRef: "Lambda is equivalent to a method reference",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CLS%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LINT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
