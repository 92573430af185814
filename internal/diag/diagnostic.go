// Package diag defines the diagnostic model shared by the class file
// decoder, the lint rules and the driver.
//
// Diagnostic is the central record: severity, stable numeric code, message,
// and a primary Location inside a class file. Bag aggregates diagnostics
// per unit of work; Reporter decouples producers from storage. Rendering
// lives in internal/diagfmt, orchestration in internal/driver.
//
// Keep the data model deterministic and side-effect free: diagnostics are
// serialised for caching and compared in tests.
package diag

import (
	"jvlint/internal/source"
)

// Note attaches secondary context to a diagnostic. Use sparingly: a note
// must add information, not restate the message.
type Note struct {
	Loc source.Location
	Msg string
}

// Diagnostic is one finding, addressed to a location in a class file.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Location
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Location, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(loc source.Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}
