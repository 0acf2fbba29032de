package hirfile

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"tao/internal/diag"
	"tao/internal/source"
	"tao/internal/types"
)

// TypeError is a problem in a type expression, tagged with the diagnostic
// code it is reported under.
type TypeError struct {
	Code diag.Code
	Msg  string
}

func (e *TypeError) Error() string { return e.Msg }

// typeScope resolves names met in type expressions.
type typeScope struct {
	strs   *source.Interner
	data   *types.DataCtx
	params []source.StringID
}

func (s typeScope) isParam(id source.StringID) bool {
	for _, p := range s.params {
		if p == id {
			return true
		}
	}
	return false
}

// ParseType parses a type expression:
//
//	type  = app [ "->" type ]
//	app   = DataName atom* | atom
//	atom  = Num | Bool | Char | Universe | param | DataName
//	      | "[" type "]" | "(" [ type { "," type } ] ")"
//	      | "{" [ field { "," field } ] "}"
//	field = ident ":" type
//
// Arrows associate to the right. Data types must be declared in data and
// applied to exactly as many arguments as they have generics; any other
// identifier must be one of params.
func ParseType(text string, strs *source.Interner, data *types.DataCtx, params []source.StringID) (*types.Type, error) {
	p := &typeParser{
		src:   norm.NFC.String(text),
		scope: typeScope{strs: strs, data: data, params: params},
	}
	p.next()
	t, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf(diag.HIRBadType, "unexpected %s after type", p.tok)
	}
	return t, nil
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokArrow
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokInvalid
)

type typeToken struct {
	kind tokKind
	text string
	pos  int
}

func (t typeToken) String() string {
	switch t.kind {
	case tokEOF:
		return "end of type"
	case tokIdent:
		return fmt.Sprintf("%q", t.text)
	default:
		return fmt.Sprintf("'%s'", t.text)
	}
}

type typeParser struct {
	src   string
	off   int
	tok   typeToken
	scope typeScope
}

func (p *typeParser) errorf(code diag.Code, format string, args ...any) error {
	return &TypeError{Code: code, Msg: fmt.Sprintf("type %q: ", p.src) + fmt.Sprintf(format, args...)}
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || unicode.IsLetter(r) {
		return true
	}
	return !first && (unicode.IsDigit(r) || r == '\'')
}

func (p *typeParser) next() {
	for p.off < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.off:])
		if !unicode.IsSpace(r) {
			break
		}
		p.off += size
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = typeToken{kind: tokEOF, pos: start}
		return
	}
	r, size := utf8.DecodeRuneInString(p.src[p.off:])
	if isIdentRune(r, true) {
		for p.off < len(p.src) {
			r, size = utf8.DecodeRuneInString(p.src[p.off:])
			if !isIdentRune(r, false) {
				break
			}
			p.off += size
		}
		p.tok = typeToken{kind: tokIdent, text: p.src[start:p.off], pos: start}
		return
	}
	p.off += size
	kind := tokInvalid
	switch r {
	case '[':
		kind = tokLBracket
	case ']':
		kind = tokRBracket
	case '(':
		kind = tokLParen
	case ')':
		kind = tokRParen
	case '{':
		kind = tokLBrace
	case '}':
		kind = tokRBrace
	case ',':
		kind = tokComma
	case ':':
		kind = tokColon
	case '-':
		if p.off < len(p.src) && p.src[p.off] == '>' {
			p.off++
			kind = tokArrow
		}
	}
	p.tok = typeToken{kind: kind, text: p.src[start:p.off], pos: start}
}

func (p *typeParser) expect(kind tokKind, what string) error {
	if p.tok.kind != kind {
		return p.errorf(diag.HIRBadType, "expected %s, got %s", what, p.tok)
	}
	p.next()
	return nil
}

func (p *typeParser) parseArrow() (*types.Type, error) {
	in, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokArrow {
		return in, nil
	}
	p.next()
	out, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	return types.Func(in, out), nil
}

func startsAtom(k tokKind) bool {
	switch k {
	case tokIdent, tokLBracket, tokLParen, tokLBrace:
		return true
	}
	return false
}

func (p *typeParser) parseApp() (*types.Type, error) {
	if p.tok.kind != tokIdent {
		return p.parseAtom()
	}
	id, ok := p.dataName(p.tok.text)
	if !ok {
		return p.parseAtom()
	}
	name := p.tok.text
	p.next()
	var args []*types.Type
	for startsAtom(p.tok.kind) {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return p.dataType(name, id, args)
}

// dataName reports whether an identifier names a data type rather than a
// primitive or a generic parameter in scope.
func (p *typeParser) dataName(text string) (types.DataID, bool) {
	if _, prim := types.ParsePrimitive(text); prim {
		return types.NoDataID, false
	}
	id := p.scope.strs.Intern(text)
	if p.scope.isParam(id) {
		return types.NoDataID, false
	}
	return p.scope.data.Lookup(id)
}

func (p *typeParser) dataType(name string, id types.DataID, args []*types.Type) (*types.Type, error) {
	if want := len(p.scope.data.Get(id).Generics); want != len(args) {
		return nil, p.errorf(diag.HIRArity, "%s takes %d type arguments, got %d", name, want, len(args))
	}
	return types.Data(id, args...), nil
}

func (p *typeParser) parseAtom() (*types.Type, error) {
	switch p.tok.kind {
	case tokIdent:
		text := p.tok.text
		p.next()
		if prim, ok := types.ParsePrimitive(text); ok {
			return types.Prim(prim), nil
		}
		id := p.scope.strs.Intern(text)
		if p.scope.isParam(id) {
			return types.Param(id), nil
		}
		if data, ok := p.scope.data.Lookup(id); ok {
			return p.dataType(text, data, nil)
		}
		return nil, p.errorf(diag.HIRUnknownData, "unknown type name %q", text)
	case tokLBracket:
		p.next()
		elem, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
		return types.List(elem), nil
	case tokLParen:
		p.next()
		var elems []*types.Type
		for p.tok.kind != tokRParen {
			if len(elems) > 0 {
				if err := p.expect(tokComma, "',' or ')'"); err != nil {
					return nil, err
				}
			}
			elem, err := p.parseArrow()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		p.next()
		if len(elems) == 1 {
			return elems[0], nil
		}
		return types.Tuple(elems...), nil
	case tokLBrace:
		return p.parseRecord()
	}
	return nil, p.errorf(diag.HIRBadType, "expected a type, got %s", p.tok)
}

func (p *typeParser) parseRecord() (*types.Type, error) {
	p.next()
	var fields []types.Field
	for p.tok.kind != tokRBrace {
		if len(fields) > 0 {
			if err := p.expect(tokComma, "',' or '}'"); err != nil {
				return nil, err
			}
		}
		if p.tok.kind != tokIdent {
			return nil, p.errorf(diag.HIRBadType, "expected a field name, got %s", p.tok)
		}
		name := p.scope.strs.Intern(p.tok.text)
		for _, f := range fields {
			if f.Name == name {
				return nil, p.errorf(diag.HIRBadType, "duplicate field %q", p.tok.text)
			}
		}
		p.next()
		if err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		ft, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		fields = append(fields, types.Field{Name: name, Type: ft})
	}
	p.next()
	return types.Record(fields...), nil
}
