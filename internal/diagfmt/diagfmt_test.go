package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"tao/internal/diag"
	"tao/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("testdata/prog.toml", []byte("format = \"1.0.0\"\n"))
	bag := diag.NewBag(10)
	r := diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.HIRUnknownData, source.Span{File: file, Start: 3, End: 4}, "defs[0].body: unknown data type \"Maybe\"").
		WithNote(source.Span{File: file}, "declared data types: List").
		Emit()
	diag.ReportWarning(r, diag.HIRInfo, source.Span{File: file}, "first line\nsecond").Emit()
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, PathMode: PathModeBasename})

	want := "prog.toml: error HIR1005: defs[0].body: unknown data type \"Maybe\"\n" +
		"  note: declared data types: List\n" +
		"prog.toml: warning HIR1000: first line second\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected rendering:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyHidesNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if bytes.Contains(buf.Bytes(), []byte("note:")) {
		t.Fatalf("notes must be hidden unless requested:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1, IncludeNotes: true}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("max must truncate output: count=%d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "HIR1005" || d.Severity != "ERROR" || d.Location.File != "testdata/prog.toml" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	if d.Location.StartByte != 3 || d.Location.EndByte != 4 {
		t.Fatalf("location: got=%+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared data types: List" {
		t.Fatalf("notes: got=%+v", d.Notes)
	}
}
