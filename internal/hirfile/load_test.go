package hirfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tao/internal/ast"
	"tao/internal/diag"
	"tao/internal/hir"
	"tao/internal/source"
)

func load(t *testing.T, path string) (*Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(32)
	mod, err := Load(fs, path, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("load %s: %v (diagnostics: %+v)", path, err, bag.Items())
	}
	return mod, bag
}

func TestLoadYAML(t *testing.T) {
	mod, bag := load(t, filepath.Join("testdata", "maybe.yaml"))
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if mod.Entry != "main" {
		t.Fatalf("entry: got=%q want=main", mod.Entry)
	}
	p := mod.Program
	maybe, ok := p.Data.Lookup(p.Strings.Intern("Maybe"))
	if !ok {
		t.Fatalf("data type Maybe not registered")
	}
	if got := len(p.Data.Get(maybe).Variants); got != 2 {
		t.Fatalf("variants: got=%d want=2", got)
	}
	defs := p.Defs()
	if len(defs) != 2 || p.Name(defs[0].Name) != "id" || p.Name(defs[1].Name) != "main" {
		t.Fatalf("defs out of order: %v", defs)
	}
	body := defs[1].Body
	if body.Kind != hir.ExprMatch {
		t.Fatalf("main body: got=%s want=Match", body.Kind)
	}
	match := body.Data.(hir.MatchData)
	arg := match.Scrutinee.Data.(hir.ApplyData).Arg
	ctor, ok := arg.Data.(hir.ConstructorData)
	if !ok || ctor.Data != maybe || ctor.Variant != 0 {
		t.Fatalf("constructor: got=%+v", arg.Data)
	}
	lit := ctor.Inner.Data.(hir.LiteralData).Value
	if !lit.Equal(ast.Number(1)) {
		t.Fatalf("literal: got=%s want=1", lit)
	}
	if match.Arms[0].Binding.Kind != hir.PatDeconstruct {
		t.Fatalf("first arm: got=%s want=Deconstruct", match.Arms[0].Binding.Kind)
	}
}

func TestLoadTOML(t *testing.T) {
	mod, _ := load(t, filepath.Join("testdata", "const.toml"))
	main, ok := mod.Program.Def(mod.Program.Strings.Intern("main"))
	if !ok {
		t.Fatalf("main not found")
	}
	bin, ok := main.Body.Data.(hir.BinaryData)
	if !ok || bin.Op != ast.BinaryAdd {
		t.Fatalf("main body: got=%+v", main.Body.Data)
	}
	if g := bin.Right.Data.(hir.GlobalData); mod.Program.Name(g.Name) != "two" {
		t.Fatalf("right operand: got=%s", mod.Program.Name(g.Name))
	}
}

func TestSpansAreStableAcrossCodecs(t *testing.T) {
	src, _ := load(t, filepath.Join("testdata", "maybe.yaml"))
	dir := t.TempDir()
	for _, name := range []string{"maybe.toml", "maybe.msgpack", "maybe.yml"} {
		path := filepath.Join(dir, name)
		codec, err := CodecFor(path)
		if err != nil {
			t.Fatalf("codec: %v", err)
		}
		var buf bytes.Buffer
		if err := Encode(&buf, src.Doc, codec); err != nil {
			t.Fatalf("encode %s: %v", codec, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, _ := load(t, path)
		if !reflect.DeepEqual(got.Doc, src.Doc) {
			t.Fatalf("%s: document changed after re-encoding:\n got=%+v\nwant=%+v", codec, got.Doc, src.Doc)
		}
		want := src.Program.Defs()[1].Body.Data.(hir.MatchData).Arms[1].Body.Span
		have := got.Program.Defs()[1].Body.Data.(hir.MatchData).Arms[1].Body.Span
		if want.Start != have.Start || want.End != have.End {
			t.Fatalf("%s: span got=%s want=%s", codec, have, want)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tests := map[string]string{
		"bad.yaml": "format: \"1.0.0\"\ndefz: []\n",
		"bad.toml": "format = \"1.0.0\"\ndefz = []\n",
	}
	for name, content := range tests {
		fs := source.NewFileSet()
		file := fs.AddVirtual(name, []byte(content))
		bag := diag.NewBag(8)
		if _, err := LoadFile(fs, file, diag.BagReporter{Bag: bag}); err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
		if !hasCode(bag, diag.HIRDecode) {
			t.Fatalf("%s: want %s, got %+v", name, diag.HIRDecode.ID(), bag.Items())
		}
	}
}

func TestLoadFormatGate(t *testing.T) {
	tests := []string{
		"defs: []\n",
		"format: \"2.0.0\"\n",
		"format: \"one\"\n",
	}
	for _, content := range tests {
		fs := source.NewFileSet()
		file := fs.AddVirtual("doc.yaml", []byte(content))
		bag := diag.NewBag(8)
		_, err := LoadFile(fs, file, diag.BagReporter{Bag: bag})
		if !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("%q: got=%v want ErrInvalidDocument", content, err)
		}
		if !hasCode(bag, diag.HIRFormatVersion) {
			t.Fatalf("%q: want %s, got %+v", content, diag.HIRFormatVersion.ID(), bag.Items())
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(8)
	if _, err := Load(fs, filepath.Join(t.TempDir(), "nope.toml"), diag.BagReporter{Bag: bag}); err == nil {
		t.Fatalf("expected error")
	}
	if !hasCode(bag, diag.IOLoadFileError) {
		t.Fatalf("want %s, got %+v", diag.IOLoadFileError.ID(), bag.Items())
	}
}

func TestCodecFor(t *testing.T) {
	if _, err := CodecFor("prog.json"); !errors.Is(err, ErrUnknownCodec) {
		t.Fatalf("got=%v want ErrUnknownCodec", err)
	}
	if c, err := CodecFor("PROG.YML"); err != nil || c != CodecYAML {
		t.Fatalf("got=%v,%v want yaml", c, err)
	}
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
