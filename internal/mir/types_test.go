package mir

import (
	"testing"

	"tao/internal/source"
	"tao/internal/types"
)

func TestTypeInternerStructuralIdentity(t *testing.T) {
	in := NewTypeInterner(nil)
	num := in.Primitive(types.PrimNumber)
	boolean := in.Primitive(types.PrimBool)

	a := in.Product(num, in.List(boolean))
	b := in.Product(in.Primitive(types.PrimNumber), in.List(in.Primitive(types.PrimBool)))
	if a != b {
		t.Fatalf("structurally equal types got different ids: %d != %d", a, b)
	}
	if in.Sum(num, boolean) == in.Product(num, boolean) {
		t.Fatalf("sum and product with the same members must differ")
	}
	if in.Func(num, boolean) == in.Func(boolean, num) {
		t.Fatalf("func direction must matter")
	}
	if in.Boxed("Maybe", num) == in.Boxed("Maybe", boolean) {
		t.Fatalf("boxed args must matter")
	}
	if in.Boxed("Maybe", num) != in.Boxed("Maybe", num) {
		t.Fatalf("boxed interning is not stable")
	}
	if in.Intern(RawType{}) != NoTypeID {
		t.Fatalf("invalid kind must map to NoTypeID")
	}
}

func TestTypeInternerCopiesItems(t *testing.T) {
	in := NewTypeInterner(nil)
	num := in.Primitive(types.PrimNumber)
	items := []TypeID{num, num}
	id := in.Product(items...)
	items[0] = in.Primitive(types.PrimChar)
	if got := in.MustLookup(id).Items[0]; got != num {
		t.Fatalf("interned items alias caller slice: got=%d want=%d", got, num)
	}
}

func TestMangle(t *testing.T) {
	in := NewTypeInterner(source.NewInterner())
	num := in.Primitive(types.PrimNumber)
	char := in.Primitive(types.PrimChar)
	boolean := in.Primitive(types.PrimBool)

	tests := []struct {
		id   TypeID
		want string
	}{
		{num, "Num"},
		{in.List(char), "[Char]"},
		{in.Product(), "()"},
		{in.Product(num, boolean), "(Num, Bool)"},
		{in.Sum(in.Boxed("Maybe::Just", num), in.Boxed("Maybe::None", num)), "(Maybe::Just Num | Maybe::None Num)"},
		{in.Func(num, in.Func(num, num)), "Num -> Num -> Num"},
		{in.Boxed("Unit"), "Unit"},
		{in.Boxed("Pair", num, in.List(char)), "Pair Num [Char]"},
	}
	for _, tt := range tests {
		if got := in.Mangle(tt.id); got != tt.want {
			t.Fatalf("mangle: got=%q want=%q", got, tt.want)
		}
	}
	if got := in.Mangle(TypeID(999)); got != "<?>" {
		t.Fatalf("unknown id: got=%q", got)
	}
}

func TestDefTableInterning(t *testing.T) {
	strs := source.NewInterner()
	in := NewTypeInterner(strs)
	defs := NewDefTable()
	id := strs.Intern("id")
	num := in.Primitive(types.PrimNumber)

	a, seen := defs.Intern(id, []TypeID{num})
	if seen {
		t.Fatalf("first intern reported as seen")
	}
	b, seen := defs.Intern(id, []TypeID{in.Primitive(types.PrimNumber)})
	if !seen || a != b {
		t.Fatalf("same instantiation must share DefID: a=%d b=%d seen=%v", a, b, seen)
	}
	c, _ := defs.Intern(id, []TypeID{in.Primitive(types.PrimChar)})
	if c == a {
		t.Fatalf("different type args must not share DefID")
	}
	d, _ := defs.Intern(id, nil)
	if d == a || d == c {
		t.Fatalf("no-arg instance collided")
	}
	if got := defs.Render(a, in); got != "id<Num>" {
		t.Fatalf("render: got=%q", got)
	}
	if got := defs.Render(d, in); got != "id" {
		t.Fatalf("render without args: got=%q", got)
	}
	if got, want := defs.Len(), 3; got != want {
		t.Fatalf("len: got=%d want=%d", got, want)
	}
}
