package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"jvlint/internal/diag"
	"jvlint/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает:
//
//	<path>: <Class>.<method> [line N]
//	  <SEV> <CODE-ID>: <Message>
//
// затем Notes с отступом. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fileSet *source.FileSet, opts PrettyOpts) {
	sevColor := map[diag.Severity]*color.Color{
		diag.SevInfo:    color.New(color.FgCyan),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevError:   color.New(color.FgRed, color.Bold),
	}
	pathColor := color.New(color.Bold)
	for _, c := range sevColor {
		if !opts.Color {
			c.DisableColor()
		}
	}
	if !opts.Color {
		pathColor.DisableColor()
	}

	// Выравниваем заголовки по самому широкому location.
	headers := make([]string, bag.Len())
	width := 0
	for i, d := range bag.Items() {
		headers[i] = locationHeader(d.Primary, fileSet, opts)
		if hw := runewidth.StringWidth(headers[i]); hw > width {
			width = hw
		}
	}

	for i, d := range bag.Items() {
		header := runewidth.FillRight(headers[i], width)
		fmt.Fprintf(w, "%s  %s %s: %s\n",
			pathColor.Sprint(header),
			sevColor[d.Severity].Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message,
		)
		if opts.WithNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "    note: %s (%s)\n", n.Msg, memberLabel(n.Loc))
			}
		}
	}
}

func locationHeader(loc source.Location, fileSet *source.FileSet, opts PrettyOpts) string {
	path := ""
	if fileSet != nil {
		path = fileSet.Get(loc.File).Path
		if opts.FullPath {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
		}
	}
	label := memberLabel(loc)
	if label == "" {
		return path
	}
	return fmt.Sprintf("%s: %s", path, label)
}

func memberLabel(loc source.Location) string {
	switch {
	case loc.Class == "":
		return ""
	case loc.Method == "":
		return loc.Class
	case loc.Line != 0:
		return fmt.Sprintf("%s.%s line %d", loc.Class, loc.Method, loc.Line)
	default:
		return fmt.Sprintf("%s.%s pc %d", loc.Class, loc.Method, loc.PC)
	}
}
