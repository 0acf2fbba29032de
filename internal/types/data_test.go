package types

import (
	"testing"

	"tao/internal/source"
)

func TestDataCtxDeclareThenFill(t *testing.T) {
	strs := source.NewInterner()
	list := strs.Intern("List")
	a := strs.Intern("a")

	ctx := NewDataCtx()
	id := ctx.Declare(list, []source.StringID{a})
	if again := ctx.Declare(list, nil); again != id {
		t.Fatalf("redeclare produced new id: got=%d want=%d", again, id)
	}
	ctx.SetVariants(id, []Variant{
		{Name: strs.Intern("Nil"), Type: Tuple()},
		{Name: strs.Intern("Cons"), Type: Tuple(Param(a), Data(id, Param(a)))},
	})

	def := ctx.Get(id)
	if got, want := len(def.Variants), 2; got != want {
		t.Fatalf("variants: got=%d want=%d", got, want)
	}
	if idx, ok := def.VariantIndex(strs.Intern("Cons")); !ok || idx != 1 {
		t.Fatalf("Cons index: got=%d ok=%v", idx, ok)
	}
	if got, ok := ctx.Lookup(list); !ok || got != id {
		t.Fatalf("lookup by name failed")
	}
	if ctx.Name(id) != list {
		t.Fatalf("display name mismatch")
	}
}

func TestRecordFieldIndex(t *testing.T) {
	strs := source.NewInterner()
	a, b, f := strs.Intern("a"), strs.Intern("b"), strs.Intern("f")
	rec := Record(Field{a, Prim(PrimNumber)}, Field{b, Prim(PrimBool)}, Field{f, Prim(PrimChar)})
	if idx, ok := rec.FieldIndex(f); !ok || idx != 2 {
		t.Fatalf("field index: got=%d ok=%v", idx, ok)
	}
	if _, ok := rec.FieldIndex(strs.Intern("zz")); ok {
		t.Fatalf("unexpected field found")
	}
	if _, ok := Tuple().FieldIndex(a); ok {
		t.Fatalf("tuple has no named fields")
	}
}
