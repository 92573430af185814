package diagfmt

import (
	"encoding/json"
	"io"

	"jvlint/internal/diag"
	"jvlint/internal/source"
)

// LocationJSON представляет местоположение в class-файле для JSON.
type LocationJSON struct {
	File   string `json:"file"`
	Class  string `json:"class,omitempty"`
	Method string `json:"method,omitempty"`
	PC     uint16 `json:"pc"`
	Line   uint16 `json:"line,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON renders the bag as a single JSON document.
func JSON(w io.Writer, bag *diag.Bag, fileSet *source.FileSet) error {
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, bag.Len()),
		Count:       bag.Len(),
	}
	for _, d := range bag.Items() {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: locationJSON(d.Primary, fileSet),
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{
				Message:  n.Msg,
				Location: locationJSON(n.Loc, fileSet),
			})
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func locationJSON(loc source.Location, fileSet *source.FileSet) LocationJSON {
	path := ""
	if fileSet != nil {
		path = fileSet.Get(loc.File).Path
	}
	return LocationJSON{
		File:   path,
		Class:  loc.Class,
		Method: loc.Method,
		PC:     loc.PC,
		Line:   loc.Line,
	}
}
