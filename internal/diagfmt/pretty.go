package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tao/internal/diag"
	"tao/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgBlue)
	pathColor    = color.New(color.Bold)
)

// Pretty writes one line per diagnostic:
//
//	<path>: <severity> <CODE>: <message>
//
// followed by indented notes when opts.ShowNotes is set. HIR documents carry
// no line table, so the location is the document path; the message names the
// offending node. Items are written in bag order; call bag.Sort first for a
// stable listing.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		return c.Sprint(s)
	}
	for _, d := range bag.Items() {
		sevColor, label := severityStyle(d.Severity)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			paint(pathColor, formatPath(fs, d.Primary, opts.PathMode)),
			paint(sevColor, label),
			d.Code.ID(),
			singleLine(d.Message),
		)
		if !opts.ShowNotes && d.Code != diag.ObsTimings {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: %s\n", paint(noteColor, "note"), singleLine(n.Msg))
		}
	}
}

func severityStyle(sev diag.Severity) (*color.Color, string) {
	switch sev {
	case diag.SevError:
		return errorColor, "error"
	case diag.SevWarning:
		return warningColor, "warning"
	default:
		return infoColor, "info"
	}
}

func singleLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
