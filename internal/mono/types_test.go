package mono

import (
	"testing"

	"tao/internal/mir"
	"tao/internal/source"
	"tao/internal/testkit"
	"tao/internal/trace"
	"tao/internal/types"
)

func newTestBuilder(tb *testkit.Builder) *builder {
	return newBuilder(tb.Prog, Options{}, trace.Nop, trace.SpanContext{})
}

func closed(b *builder) resolver {
	return b.bindGenerics("test", nil, nil)
}

func TestInstantiateErasesRecordNames(t *testing.T) {
	tb := testkit.NewBuilder()
	b := newTestBuilder(tb)
	rec := types.Record(tb.Field("x", testkit.Num()), tb.Field("y", testkit.Bool()))
	tup := types.Tuple(testkit.Num(), testkit.Bool())
	if b.instantiateType(rec, closed(b)) != b.instantiateType(tup, closed(b)) {
		t.Fatalf("record and tuple with the same field types must be one product")
	}
	fn := types.Func(types.List(testkit.Char()), testkit.Unit())
	if got := b.types.Mangle(b.instantiateType(fn, closed(b))); got != "[Char] -> ()" {
		t.Fatalf("mangle: got=%q", got)
	}
}

func TestInstantiateSingleVariantIsBoxed(t *testing.T) {
	tb := testkit.NewBuilder()
	wrap := tb.Declare("Wrap", "a")
	tb.Variants(wrap, "Wrap", tb.Param("a"))
	b := newTestBuilder(tb)

	id := b.instantiateType(tb.DataType("Wrap", testkit.Num()), closed(b))
	if got := b.types.MustLookup(id).Kind; got != mir.KindBoxed {
		t.Fatalf("kind: got=%s want=%s", got, mir.KindBoxed)
	}
	if got := b.types.Mangle(id); got != "Wrap Num" {
		t.Fatalf("mangle: got=%q", got)
	}
	if got := b.types.Mangle(b.out.Boxes[id]); got != "Num" {
		t.Fatalf("payload: got=%q want=%q", got, "Num")
	}
}

func TestInstantiateMultiVariantIsSum(t *testing.T) {
	tb := testkit.NewBuilder()
	maybe := tb.Declare("Maybe", "a")
	tb.Variants(maybe, "None", testkit.Unit(), "Just", tb.Param("a"))
	b := newTestBuilder(tb)

	id := b.instantiateType(tb.DataType("Maybe", testkit.Char()), closed(b))
	raw := b.types.MustLookup(id)
	if raw.Kind != mir.KindSum || len(raw.Items) != 2 {
		t.Fatalf("expected a two-member sum, got %s", b.types.Mangle(id))
	}
	if got := b.types.Mangle(id); got != "(Maybe::None Char | Maybe::Just Char)" {
		t.Fatalf("mangle: got=%q", got)
	}
	if got := b.types.Mangle(b.out.Boxes[raw.Items[0]]); got != "()" {
		t.Fatalf("None payload: got=%q", got)
	}
	if got := b.types.Mangle(b.out.Boxes[raw.Items[1]]); got != "Char" {
		t.Fatalf("Just payload: got=%q", got)
	}
}

func TestInstantiateRecursiveDataTerminates(t *testing.T) {
	tb := testkit.NewBuilder()
	list := tb.Declare("List", "a")
	tb.Variants(list,
		"Nil", testkit.Unit(),
		"Cons", types.Tuple(tb.Param("a"), tb.DataType("List", tb.Param("a"))),
	)
	b := newTestBuilder(tb)

	id := b.instantiateType(tb.DataType("List", testkit.Num()), closed(b))
	if got := b.types.Mangle(id); got != "(List::Nil Num | List::Cons Num)" {
		t.Fatalf("mangle: got=%q", got)
	}
	cons := b.types.MustLookup(id).Items[1]
	if got := b.types.Mangle(b.out.Boxes[cons]); got != "(Num, (List::Nil Num | List::Cons Num))" {
		t.Fatalf("Cons payload: got=%q", got)
	}
	if again := b.instantiateType(tb.DataType("List", testkit.Num()), closed(b)); again != id {
		t.Fatalf("instantiation is not referentially transparent: %d != %d", again, id)
	}
}

func TestInstantiateDataUsesItsOwnParameters(t *testing.T) {
	tb := testkit.NewBuilder()
	pair := tb.Declare("Pair", "a", "b")
	tb.Variants(pair, "Pair", types.Tuple(tb.Param("a"), tb.Param("b")))
	box := tb.Declare("Box", "a")
	tb.Variants(box, "Box", tb.DataType("Pair", testkit.Num(), tb.Param("a")))
	b := newTestBuilder(tb)

	// the caller binds its own "a"; Box's payload must not see it
	char := b.types.Primitive(types.PrimChar)
	caller := b.bindGenerics("caller", []source.StringID{tb.ID("a")}, []mir.TypeID{char})

	id := b.instantiateType(tb.DataType("Box", testkit.Bool()), caller)
	if got := b.types.Mangle(id); got != "Box Bool" {
		t.Fatalf("mangle: got=%q", got)
	}
	inner := b.out.Boxes[id]
	if got := b.types.Mangle(inner); got != "Pair Num Bool" {
		t.Fatalf("Box payload: got=%q want=%q", got, "Pair Num Bool")
	}
	if got := b.types.Mangle(b.out.Boxes[inner]); got != "(Num, Bool)" {
		t.Fatalf("Pair payload: got=%q", got)
	}

	viaCaller := b.instantiateType(tb.DataType("Box", tb.Param("a")), caller)
	if got := b.types.Mangle(viaCaller); got != "Box Char" {
		t.Fatalf("type arguments resolve against the caller: got=%q", got)
	}
}

func TestInstantiateArityMismatchPanics(t *testing.T) {
	tb := testkit.NewBuilder()
	wrap := tb.Declare("Wrap", "a")
	tb.Variants(wrap, "Wrap", tb.Param("a"))
	b := newTestBuilder(tb)
	contractPanic(t, func() {
		b.instantiateType(tb.DataType("Wrap"), closed(b))
	})
}
