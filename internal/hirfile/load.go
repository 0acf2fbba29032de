package hirfile

import (
	"bytes"
	"fmt"

	"tao/internal/diag"
	"tao/internal/hir"
	"tao/internal/source"
	"tao/internal/version"
)

// Module is a loaded document.
type Module struct {
	File    source.FileID
	Doc     *Document
	Program *hir.Program
	// Entry is the document's entry point, empty when it names none.
	Entry string
}

// Load reads path into fs, decodes it with the codec its extension names,
// checks the format version and builds the program.
func Load(fs *source.FileSet, path string, r diag.Reporter) (*Module, error) {
	file, err := fs.Load(path)
	if err != nil {
		diag.ReportError(r, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("%s: %v", path, err)).Emit()
		return nil, err
	}
	return LoadFile(fs, file, r)
}

// LoadFile decodes and builds a document already present in fs.
func LoadFile(fs *source.FileSet, file source.FileID, r diag.Reporter) (*Module, error) {
	f := fs.Get(file)
	if f == nil {
		return nil, fmt.Errorf("hirfile: unknown file %d", file)
	}
	sp := fs.Span(file)
	codec, err := CodecFor(f.Path)
	if err != nil {
		diag.ReportError(r, diag.HIRDecode, sp, err.Error()).Emit()
		return nil, err
	}
	doc, err := Decode(bytes.NewReader(f.Content), codec)
	if err != nil {
		diag.ReportError(r, diag.HIRDecode, sp, fmt.Sprintf("%s: %v", codec, err)).Emit()
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	if err := checkFormat(doc.Format); err != nil {
		diag.ReportError(r, diag.HIRFormatVersion, sp, err.Error()).
			WithNote(sp, "supported versions: "+version.HIRFormatRange).
			Emit()
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	prog, err := Build(doc, file, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return &Module{File: file, Doc: doc, Program: prog, Entry: doc.Entry}, nil
}

func checkFormat(v string) error {
	if v == "" {
		return fmt.Errorf("format: missing version: %w", ErrInvalidDocument)
	}
	ok, err := version.SupportsHIR(v)
	if err != nil {
		return fmt.Errorf("format %q: %v: %w", v, err, ErrInvalidDocument)
	}
	if !ok {
		return fmt.Errorf("format %s is not supported: %w", v, ErrInvalidDocument)
	}
	return nil
}
