package hirfile

import (
	"errors"
	"strings"
	"testing"

	"tao/internal/diag"
	"tao/internal/source"
	"tao/internal/types"
)

// render prints a HIR type in the syntax ParseType accepts, fully
// parenthesized.
func render(strs *source.Interner, data *types.DataCtx, t *types.Type) string {
	switch t.Kind {
	case types.KindPrimitive:
		return t.Prim.String()
	case types.KindGenParam:
		return strs.MustLookup(t.Param)
	case types.KindList:
		return "[" + render(strs, data, t.Elem) + "]"
	case types.KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = render(strs, data, e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case types.KindRecord:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = strs.MustLookup(f.Name) + ": " + render(strs, data, f.Type)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case types.KindFunc:
		return "(" + render(strs, data, t.In) + " -> " + render(strs, data, t.Out) + ")"
	case types.KindData:
		out := strs.MustLookup(data.Name(t.Data))
		for _, a := range t.Args {
			out += " " + render(strs, data, a)
		}
		return "<" + out + ">"
	}
	return "?"
}

func typeEnv() (*source.Interner, *types.DataCtx, []source.StringID) {
	strs := source.NewInterner()
	data := types.NewDataCtx()
	data.Declare(strs.Intern("Maybe"), []source.StringID{strs.Intern("a")})
	data.Declare(strs.Intern("Unit"), nil)
	return strs, data, []source.StringID{strs.Intern("a")}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Num", "Num"},
		{"  Universe ", "Universe"},
		{"[Char]", "[Char]"},
		{"()", "()"},
		{"(Num)", "Num"},
		{"(Num, Bool)", "(Num, Bool)"},
		{"{x: Num, y: a}", "{x: Num, y: a}"},
		{"{}", "{}"},
		{"a -> a -> Num", "(a -> (a -> Num))"},
		{"(a -> a) -> Num", "((a -> a) -> Num)"},
		{"Maybe Num", "<Maybe Num>"},
		{"Maybe (Maybe a)", "<Maybe <Maybe a>>"},
		{"Maybe [a] -> Unit", "(<Maybe [a]> -> <Unit>)"},
		{"[Maybe {v: Num}]", "[<Maybe {v: Num}>]"},
	}
	for _, tt := range tests {
		strs, data, params := typeEnv()
		got, err := ParseType(tt.in, strs, data, params)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", tt.in, err)
		}
		if s := render(strs, data, got); s != tt.want {
			t.Fatalf("ParseType(%q): got=%s want=%s", tt.in, s, tt.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
	}{
		{"Maybe", diag.HIRArity},
		{"Unit Num", diag.HIRArity},
		{"Foo", diag.HIRUnknownData},
		{"b", diag.HIRUnknownData},
		{"(Num", diag.HIRBadType},
		{"Num Num", diag.HIRBadType},
		{"{x: Num, x: Bool}", diag.HIRBadType},
		{"Num ->", diag.HIRBadType},
		{"Num - Num", diag.HIRBadType},
		{"", diag.HIRBadType},
	}
	for _, tt := range tests {
		strs, data, params := typeEnv()
		_, err := ParseType(tt.in, strs, data, params)
		var te *TypeError
		if !errors.As(err, &te) {
			t.Fatalf("ParseType(%q): want *TypeError, got %v", tt.in, err)
		}
		if te.Code != tt.code {
			t.Fatalf("ParseType(%q): code got=%s want=%s (%v)", tt.in, te.Code.ID(), tt.code.ID(), err)
		}
	}
}

func TestParamsShadowDataNames(t *testing.T) {
	strs, data, _ := typeEnv()
	got, err := ParseType("Maybe", strs, data, []source.StringID{strs.Intern("Maybe")})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Kind != types.KindGenParam {
		t.Fatalf("kind: got=%s want=param", got.Kind)
	}
}
