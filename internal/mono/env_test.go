package mono

import (
	"slices"
	"testing"

	"tao/internal/ast"
	"tao/internal/hir"
	"tao/internal/testkit"
	"tao/internal/types"
)

func TestFreeVars(t *testing.T) {
	num := testkit.Num()

	tests := []struct {
		name  string
		build func(tb *testkit.Builder) *hir.Expr
		want  []string
	}{
		{"literal", func(tb *testkit.Builder) *hir.Expr {
			return tb.NumLit(1)
		}, nil},
		{"global", func(tb *testkit.Builder) *hir.Expr {
			return tb.Global("g", num)
		}, nil},
		{"first use order without duplicates", func(tb *testkit.Builder) *hir.Expr {
			sum := tb.Binary(ast.BinaryAdd, tb.Local("y", num), tb.Local("x", num), num)
			return tb.Binary(ast.BinaryAdd, sum, tb.Local("y", num), num)
		}, []string{"y", "x"}},
		{"intrinsic arguments", func(tb *testkit.Builder) *hir.Expr {
			return tb.Intrinsic(ast.IntrinsicOut, testkit.Unit(), tb.Local("msg", types.List(testkit.Char())))
		}, []string{"msg"}},
		{"closed closure", func(tb *testkit.Builder) *hir.Expr {
			return tb.Func(tb.Bind("x", num), tb.Local("x", num))
		}, nil},
		{"nested closures propagate outward", func(tb *testkit.Builder) *hir.Expr {
			inner := tb.Func(tb.Bind("y", num), tb.Binary(ast.BinaryAdd, tb.Local("x", num), tb.Local("z", num), num))
			return tb.Func(tb.Bind("x", num), inner)
		}, []string{"z"}},
		{"closure parameter patterns bind every name", func(tb *testkit.Builder) *hir.Expr {
			param := tb.TuplePat(tb.Bind("a", num), tb.Bind("b", num))
			return tb.Func(param, tb.Tuple(tb.Local("a", num), tb.Local("b", num), tb.Local("c", num)))
		}, []string{"c"}},
		{"match arm bindings scope over their body", func(tb *testkit.Builder) *hir.Expr {
			pair := types.Tuple(num, num)
			return tb.Match(tb.Local("p", pair), num,
				tb.TuplePat(tb.Bind("y", num), tb.Bind("", num)),
				tb.Binary(ast.BinaryAdd, tb.Local("y", num), tb.Local("z", num), num),
			)
		}, []string{"p", "z"}},
		{"match arm bindings do not leak", func(tb *testkit.Builder) *hir.Expr {
			m := tb.Match(tb.Local("a", num), num, tb.Bind("y", num), tb.Local("y", num))
			return tb.Binary(ast.BinaryAdd, m, tb.Local("y", num), num)
		}, []string{"a", "y"}},
		{"list tail binding", func(tb *testkit.Builder) *hir.Expr {
			list := types.List(num)
			return tb.Match(tb.Local("xs", list), list, tb.FrontPat(num, "rest", tb.Bind("", num)), tb.Local("rest", list))
		}, []string{"xs"}},
		{"update binds the field name", func(tb *testkit.Builder) *hir.Expr {
			r := types.Record(tb.Field("f", num))
			return tb.Update(tb.Local("r", r), "f", tb.Local("f", num))
		}, []string{"r"}},
		{"constructor inner", func(tb *testkit.Builder) *hir.Expr {
			id := tb.Declare("Wrap")
			tb.Variants(id, "Wrap", num)
			return tb.Construct(tb.DataType("Wrap"), "Wrap", tb.Local("v", num))
		}, []string{"v"}},
		{"record fields", func(tb *testkit.Builder) *hir.Expr {
			return tb.Record("a", tb.Local("u", num), "b", tb.Access(tb.Local("w", types.Record(tb.Field("k", num))), "k", num))
		}, []string{"u", "w"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := testkit.NewBuilder()
			got := freeVars(tt.build(tb))
			var names []string
			for _, id := range got {
				names = append(names, tb.Strings.MustLookup(id))
			}
			if !slices.Equal(names, tt.want) {
				t.Fatalf("free vars: got=%v want=%v", names, tt.want)
			}
		})
	}
}
