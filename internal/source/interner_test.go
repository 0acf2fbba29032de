package source

import (
	"testing"
)

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string, got=%q ok=%v", s, ok)
	}

	a := in.Intern("map")
	if a == NoStringID {
		t.Fatalf("non-empty string interned to NoStringID")
	}
	if b := in.Intern("map"); a != b {
		t.Fatalf("same string, different ids: %d != %d", a, b)
	}
	if c := in.Intern("filter"); c == a {
		t.Fatalf("different strings share id %d", c)
	}
	if got, want := in.Len(), 3; got != want {
		t.Fatalf("unexpected len: got=%d want=%d", got, want)
	}
	if s := in.MustLookup(a); s != "map" {
		t.Fatalf("MustLookup: got=%q want=%q", s, "map")
	}
}

func TestInternerOwnsCopy(t *testing.T) {
	in := NewInterner()
	buf := []byte("xs")
	id := in.Intern(string(buf))
	buf[0] = 'y'
	if s := in.MustLookup(id); s != "xs" {
		t.Fatalf("interned string changed with caller buffer: %q", s)
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	in := NewInterner()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for unknown id")
		}
	}()
	in.MustLookup(StringID(42))
}

func TestInternerSnapshotIsCopy(t *testing.T) {
	in := NewInterner()
	in.Intern("x")
	snap := in.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("unexpected snapshot len: got=%d want=2", len(snap))
	}
	snap[1] = "changed"
	if s := in.MustLookup(1); s != "x" {
		t.Fatalf("snapshot aliases interner storage")
	}
}

func TestFileSetStripsBOM(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.toml", []byte("format = \"1.0.0\""))
	f := fs.Get(id)
	if f == nil || f.Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag missing: %+v", f)
	}
	if got, ok := fs.GetByPath("./a.toml"); !ok || got.ID != id {
		t.Fatalf("path lookup failed: ok=%v", ok)
	}
	if fs.Get(FileID(7)) != nil {
		t.Fatalf("expected nil for unknown file")
	}

	path := t.TempDir() + "/b.toml"
	writeFile(t, path, append([]byte{0xEF, 0xBB, 0xBF}, "entry = \"main\""...))
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f = fs.Get(id)
	if f.Flags&FileHadBOM == 0 || string(f.Content) != "entry = \"main\"" {
		t.Fatalf("BOM not stripped: flags=%d content=%q", f.Flags, f.Content)
	}
}
