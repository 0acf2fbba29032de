package mir

import (
	"slices"
	"testing"

	"tao/internal/ast"
	"tao/internal/source"
)

func TestMatcherIsRefutable(t *testing.T) {
	tests := []struct {
		name string
		m    Matcher
		want bool
	}{
		{"wildcard", Wildcard, false},
		{"exactly", Exactly(ast.Number(1)), true},
		{"irrefutable product", Matcher{Kind: MatcherProduct, Items: []Matcher{Wildcard, Wildcard}}, false},
		{"refutable product", Matcher{Kind: MatcherProduct, Items: []Matcher{Wildcard, Exactly(ast.Bool(true))}}, true},
		{"empty product", Matcher{Kind: MatcherProduct}, false},
		{"empty list", Matcher{Kind: MatcherList}, true},
		{"list of wildcards", Matcher{Kind: MatcherList, Items: []Matcher{Wildcard}}, true},
		{"empty front", Matcher{Kind: MatcherListFront}, false},
		{"front with prefix", Matcher{Kind: MatcherListFront, Items: []Matcher{Wildcard}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsRefutable(); got != tt.want {
				t.Fatalf("IsRefutable(%s): got=%v want=%v", tt.m, got, tt.want)
			}
		})
	}
}

func TestExtractorBindingsPreOrder(t *testing.T) {
	strs := source.NewInterner()
	xs, h, rest, a, b := strs.Intern("xs"), strs.Intern("h"), strs.Intern("rest"), strs.Intern("a"), strs.Intern("b")

	e := Extractor{
		Kind: ExtractListFront,
		Name: xs,
		Tail: rest,
		Items: []Extractor{
			Just(h),
			{Kind: ExtractProduct, Items: []Extractor{Just(a), Just(source.NoStringID), Just(b)}},
		},
	}
	got := e.Bindings()
	want := []source.StringID{xs, rest, h, a, b}
	if !slices.Equal(got, want) {
		t.Fatalf("bindings: got=%v want=%v", got, want)
	}
	if !e.ExtractsAnything() {
		t.Fatalf("expected extractor to bind names")
	}
}

func TestExtractsAnything(t *testing.T) {
	strs := source.NewInterner()
	x := strs.Intern("x")
	tests := []struct {
		name string
		e    Extractor
		want bool
	}{
		{"anonymous just", Just(source.NoStringID), false},
		{"named just", Just(x), true},
		{"nested anonymous", Extractor{Kind: ExtractProduct, Items: []Extractor{Just(0), {Kind: ExtractList}}}, false},
		{"tail only", Extractor{Kind: ExtractListFront, Tail: x}, true},
		{"whole only", Extractor{Kind: ExtractList, Name: x}, true},
	}
	for _, tt := range tests {
		if got := tt.e.ExtractsAnything(); got != tt.want {
			t.Fatalf("%s: got=%v want=%v", tt.name, got, tt.want)
		}
	}
}

func TestAligned(t *testing.T) {
	tag := Matcher{Kind: MatcherProduct, Items: []Matcher{Exactly(ast.Number(1)), Wildcard}}
	tagged := Extractor{Kind: ExtractProduct, Items: []Extractor{Just(0), Just(0)}}
	if !Aligned(tag, tagged) {
		t.Fatalf("tagged constructor shapes must align")
	}
	if Aligned(tag, Just(0)) {
		t.Fatalf("product matcher cannot pair with a leaf extractor")
	}
	short := Extractor{Kind: ExtractProduct, Items: []Extractor{Just(0)}}
	if Aligned(tag, short) {
		t.Fatalf("arity mismatch must not align")
	}
	front := Matcher{Kind: MatcherListFront, Items: []Matcher{Wildcard}}
	if Aligned(front, Extractor{Kind: ExtractList, Items: []Extractor{Just(0)}}) {
		t.Fatalf("list front must pair with list front")
	}
}
