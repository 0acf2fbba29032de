package hir

import (
	"slices"
	"testing"

	"tao/internal/source"
	"tao/internal/types"
)

func TestBoundNamesOrderAndDedup(t *testing.T) {
	strs := source.NewInterner()
	whole, a, b, rest := strs.Intern("whole"), strs.Intern("a"), strs.Intern("b"), strs.Intern("rest")
	num := types.Prim(types.PrimNumber)

	pat := &Binding{
		Kind: PatListFront,
		Name: whole,
		Type: types.List(num),
		Data: ListFrontPat{
			Items: []*Binding{
				{Kind: PatWildcard, Name: a, Type: num},
				{Kind: PatTuple, Type: types.Tuple(), Data: TuplePat{Items: []*Binding{
					{Kind: PatWildcard, Name: b, Type: num},
					{Kind: PatWildcard, Name: a, Type: num},
				}}},
			},
			Tail: rest,
		},
	}

	got := pat.BoundNames()
	want := []source.StringID{whole, rest, a, b}
	if !slices.Equal(got, want) {
		t.Fatalf("bound names: got=%v want=%v", got, want)
	}
}

func TestProgramRejectsDuplicateDefs(t *testing.T) {
	p := NewProgram(nil, nil)
	main := p.Strings.Intern("main")
	body := &Expr{Kind: ExprTuple, Type: types.Tuple(), Data: TupleData{}}
	if err := p.AddDef(&Def{Name: main, Body: body}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := p.AddDef(&Def{Name: main, Body: body}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, ok := p.Def(main); !ok {
		t.Fatalf("definition not found")
	}
	if got := len(p.Defs()); got != 1 {
		t.Fatalf("defs: got=%d want=1", got)
	}
}
