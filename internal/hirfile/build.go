package hirfile

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"tao/internal/ast"
	"tao/internal/diag"
	"tao/internal/hir"
	"tao/internal/source"
	"tao/internal/types"
)

// ErrInvalidDocument is returned when a document produced error
// diagnostics.
var ErrInvalidDocument = errors.New("invalid HIR document")

// Build checks doc and converts it to a hir.Program. Problems go to r; the
// returned error wraps ErrInvalidDocument when any of them is an error.
func Build(doc *Document, file source.FileID, r diag.Reporter) (*hir.Program, error) {
	b := &builder{
		prog:    hir.NewProgram(nil, nil),
		file:    file,
		r:       r,
		globals: make(map[source.StringID]int),
	}
	b.declareData(doc.Data)
	b.declareDefs(doc.Defs)
	for i := range doc.Defs {
		b.buildDef(fmt.Sprintf("defs[%d]", i), &doc.Defs[i])
	}
	if b.errors > 0 {
		return nil, fmt.Errorf("%d error(s): %w", b.errors, ErrInvalidDocument)
	}
	return b.prog, nil
}

type builder struct {
	prog *hir.Program
	file source.FileID
	r    diag.Reporter
	pos  uint32

	// generic parameter counts of every definition, for global references
	globals map[source.StringID]int
	params  []source.StringID
	errors  int
}

func (b *builder) span() source.Span {
	b.pos++
	return source.NodeSpan(b.file, b.pos)
}

func (b *builder) errorf(code diag.Code, sp source.Span, path, format string, args ...any) {
	b.errors++
	diag.ReportError(b.r, code, sp, path+": "+fmt.Sprintf(format, args...)).Emit()
}

// ident NFC-normalizes and interns an identifier.
func (b *builder) ident(s string) source.StringID {
	return b.prog.Strings.Intern(norm.NFC.String(s))
}

func (b *builder) idents(names []string) []source.StringID {
	if len(names) == 0 {
		return nil
	}
	out := make([]source.StringID, len(names))
	for i, n := range names {
		out[i] = b.ident(n)
	}
	return out
}

func (b *builder) parseType(path, text string, sp source.Span) *types.Type {
	t, err := ParseType(text, b.prog.Strings, b.prog.Data, b.params)
	if err != nil {
		code := diag.HIRBadType
		var te *TypeError
		if errors.As(err, &te) {
			code = te.Code
		}
		b.errorf(code, sp, path, "%v", err)
		return nil
	}
	return t
}

func (b *builder) declareData(decls []Data) {
	ids := make([]types.DataID, len(decls))
	for i, d := range decls {
		path := fmt.Sprintf("data[%d]", i)
		if d.Name == "" {
			b.errorf(diag.HIRMissingField, b.span(), path, "missing name")
			continue
		}
		name := b.ident(d.Name)
		if _, dup := b.prog.Data.Lookup(name); dup {
			b.errorf(diag.HIRDuplicateData, b.span(), path, "data type %q declared twice", d.Name)
			continue
		}
		ids[i] = b.prog.Data.Declare(name, b.idents(d.Generics))
	}
	for i, d := range decls {
		if ids[i] == types.NoDataID {
			continue
		}
		path := fmt.Sprintf("data[%d]", i)
		def := b.prog.Data.Get(ids[i])
		b.params = def.Generics
		variants := make([]types.Variant, 0, len(d.Variants))
		for j, v := range d.Variants {
			vpath := fmt.Sprintf("%s.variants[%d]", path, j)
			sp := b.span()
			name := b.ident(v.Name)
			if v.Name == "" {
				b.errorf(diag.HIRMissingField, sp, vpath, "missing name")
				continue
			}
			if _, dup := (&types.DataDef{Variants: variants}).VariantIndex(name); dup {
				b.errorf(diag.HIRDuplicateData, sp, vpath, "variant %q declared twice in %s", v.Name, d.Name)
				continue
			}
			ty := types.Tuple()
			if v.Type != "" {
				ty = b.parseType(vpath, v.Type, sp)
			}
			variants = append(variants, types.Variant{Name: name, Type: ty})
		}
		if len(variants) == 0 {
			b.errorf(diag.HIRMissingField, b.span(), path, "data type %q has no variants", d.Name)
		}
		b.prog.Data.SetVariants(ids[i], variants)
	}
	b.params = nil
}

func (b *builder) declareDefs(defs []Def) {
	for i, d := range defs {
		if d.Name == "" {
			continue
		}
		name := b.ident(d.Name)
		if _, dup := b.globals[name]; dup {
			b.errorf(diag.HIRDuplicateDef, source.Span{File: b.file}, fmt.Sprintf("defs[%d]", i), "definition %q declared twice", d.Name)
			continue
		}
		b.globals[name] = len(d.Generics)
	}
}

func (b *builder) buildDef(path string, d *Def) {
	sp := b.span()
	if d.Name == "" {
		b.errorf(diag.HIRMissingField, sp, path, "missing name")
		return
	}
	if d.Body == nil {
		b.errorf(diag.HIRMissingField, sp, path, "definition %q has no body", d.Name)
		return
	}
	def := &hir.Def{Name: b.ident(d.Name), Generics: b.idents(d.Generics), Span: sp}
	b.params = def.Generics
	def.Body = b.expr(path+".body", d.Body)
	b.params = nil
	// duplicates were reported by declareDefs
	_ = b.prog.AddDef(def)
}

func (b *builder) literal(path string, lit *Literal, sp source.Span) (ast.Literal, *types.Type, bool) {
	if lit == nil {
		b.errorf(diag.HIRMissingField, sp, path, "missing value")
		return ast.Literal{}, nil, false
	}
	var (
		out   ast.Literal
		ty    *types.Type
		count int
	)
	if lit.Unit {
		out, ty = ast.Unit(), types.Tuple()
		count++
	}
	if lit.Bool != nil {
		out, ty = ast.Bool(*lit.Bool), types.Prim(types.PrimBool)
		count++
	}
	if lit.Num != nil {
		out, ty = ast.Number(*lit.Num), types.Prim(types.PrimNumber)
		count++
	}
	if lit.Char != "" {
		r, size := utf8.DecodeRuneInString(lit.Char)
		if r == utf8.RuneError || size != len(lit.Char) {
			b.errorf(diag.HIRBadLiteral, sp, path, "char literal %q must be exactly one character", lit.Char)
			return ast.Literal{}, nil, false
		}
		out, ty = ast.Char(r), types.Prim(types.PrimChar)
		count++
	}
	if lit.Str != nil {
		out, ty = ast.String(*lit.Str), types.List(types.Prim(types.PrimChar))
		count++
	}
	if count != 1 {
		b.errorf(diag.HIRBadLiteral, sp, path, "literal must set exactly one of unit, bool, num, char, str (got %d)", count)
		return ast.Literal{}, nil, false
	}
	return out, ty, true
}

func (b *builder) wantItems(path string, n *Node, sp source.Span, want int) bool {
	if len(n.Items) != want {
		b.errorf(diag.HIRArity, sp, path, "%s takes %d operand(s), got %d", n.Kind, want, len(n.Items))
		return false
	}
	return true
}

func (b *builder) exprs(path string, nodes []*Node) []*hir.Expr {
	out := make([]*hir.Expr, len(nodes))
	for i, n := range nodes {
		out[i] = b.expr(fmt.Sprintf("%s.items[%d]", path, i), n)
	}
	return out
}

func (b *builder) expr(path string, n *Node) *hir.Expr {
	sp := b.span()
	if n == nil {
		b.errorf(diag.HIRMissingField, sp, path, "missing expression")
		return nil
	}
	e := &hir.Expr{Span: sp}
	kind := strings.ToLower(n.Kind)
	if n.Type != "" {
		e.Type = b.parseType(path+".type", n.Type, sp)
	} else if kind != "literal" {
		b.errorf(diag.HIRMissingField, sp, path, "%s node has no type", n.Kind)
	}

	switch kind {
	case "literal":
		lit, ty, ok := b.literal(path+".value", n.Value, sp)
		if !ok {
			return nil
		}
		if e.Type == nil {
			e.Type = ty
		}
		e.Kind, e.Data = hir.ExprLiteral, hir.LiteralData{Value: lit}
	case "local":
		if n.Name == "" {
			b.errorf(diag.HIRMissingField, sp, path, "local has no name")
			return nil
		}
		e.Kind, e.Data = hir.ExprLocal, hir.LocalData{Name: b.ident(n.Name)}
	case "global":
		name := b.ident(n.Name)
		generics, ok := b.globals[name]
		if !ok {
			b.errorf(diag.HIRUnknownGlobal, sp, path, "unknown definition %q", n.Name)
			return nil
		}
		if generics != len(n.TypeArgs) {
			b.errorf(diag.HIRArity, sp, path, "%s takes %d type arguments, got %d", n.Name, generics, len(n.TypeArgs))
			return nil
		}
		args := make([]*types.Type, len(n.TypeArgs))
		for i, ta := range n.TypeArgs {
			args[i] = b.parseType(fmt.Sprintf("%s.type_args[%d]", path, i), ta, sp)
		}
		e.Kind, e.Data = hir.ExprGlobal, hir.GlobalData{Name: name, TypeArgs: args}
	case "intrinsic":
		op, err := ast.ParseIntrinsic(n.Op)
		if err != nil {
			b.errorf(diag.HIRUnknownOp, sp, path, "%v", err)
			return nil
		}
		e.Kind, e.Data = hir.ExprIntrinsic, hir.IntrinsicData{Op: op, Args: b.exprs(path, n.Items)}
	case "unary":
		op, err := ast.ParseUnaryOp(n.Op)
		if err != nil {
			b.errorf(diag.HIRUnknownOp, sp, path, "%v", err)
			return nil
		}
		if !b.wantItems(path, n, sp, 1) {
			return nil
		}
		e.Kind, e.Data = hir.ExprUnary, hir.UnaryData{Op: op, Operand: b.expr(path+".items[0]", n.Items[0])}
	case "binary":
		op, err := ast.ParseBinaryOp(n.Op)
		if err != nil {
			b.errorf(diag.HIRUnknownOp, sp, path, "%v", err)
			return nil
		}
		if !b.wantItems(path, n, sp, 2) {
			return nil
		}
		items := b.exprs(path, n.Items)
		e.Kind, e.Data = hir.ExprBinary, hir.BinaryData{Op: op, Left: items[0], Right: items[1]}
	case "tuple":
		e.Kind, e.Data = hir.ExprTuple, hir.TupleData{Items: b.exprs(path, n.Items)}
	case "record":
		fields, ok := b.recordFields(path, n, e.Type, sp)
		if !ok {
			return nil
		}
		e.Kind, e.Data = hir.ExprRecord, hir.RecordData{Fields: fields}
	case "list":
		e.Kind, e.Data = hir.ExprList, hir.ListData{Items: b.exprs(path, n.Items)}
	case "apply":
		if !b.wantItems(path, n, sp, 2) {
			return nil
		}
		items := b.exprs(path, n.Items)
		e.Kind, e.Data = hir.ExprApply, hir.ApplyData{Func: items[0], Arg: items[1]}
	case "access":
		if !b.wantItems(path, n, sp, 1) || !b.wantName(path, n.Name, sp, "field") {
			return nil
		}
		record := b.expr(path+".items[0]", n.Items[0])
		if !b.recordField(path, record, n.Name, sp) {
			return nil
		}
		e.Kind, e.Data = hir.ExprAccess, hir.AccessData{Record: record, Field: b.ident(n.Name)}
	case "update":
		if !b.wantItems(path, n, sp, 2) || !b.wantName(path, n.Name, sp, "field") {
			return nil
		}
		items := b.exprs(path, n.Items)
		if !b.recordField(path, items[0], n.Name, sp) {
			return nil
		}
		e.Kind, e.Data = hir.ExprUpdate, hir.UpdateData{Record: items[0], Field: b.ident(n.Name), Value: items[1]}
	case "func":
		if n.Param == nil {
			b.errorf(diag.HIRMissingField, sp, path, "func has no param")
			return nil
		}
		param := b.pattern(path+".param", n.Param)
		e.Kind, e.Data = hir.ExprFunc, hir.FuncData{Param: param, Body: b.expr(path+".body", n.Body)}
	case "match":
		if !b.wantItems(path, n, sp, 1) {
			return nil
		}
		if len(n.Arms) == 0 {
			b.errorf(diag.HIRArity, sp, path, "match has no arms")
			return nil
		}
		scrutinee := b.expr(path+".items[0]", n.Items[0])
		arms := make([]hir.MatchArm, len(n.Arms))
		for i, arm := range n.Arms {
			apath := fmt.Sprintf("%s.arms[%d]", path, i)
			if arm.Pattern == nil {
				b.errorf(diag.HIRMissingField, sp, apath, "arm has no pattern")
				continue
			}
			arms[i] = hir.MatchArm{Binding: b.pattern(apath+".pattern", arm.Pattern), Body: b.expr(apath+".body", arm.Body)}
		}
		e.Kind, e.Data = hir.ExprMatch, hir.MatchData{Scrutinee: scrutinee, Arms: arms}
	case "construct":
		if len(n.Items) > 1 {
			b.wantItems(path, n, sp, 1)
			return nil
		}
		data, variant, ok := b.variant(path, e.Type, "", n.Variant, sp)
		if !ok {
			return nil
		}
		var inner *hir.Expr
		if len(n.Items) == 1 {
			inner = b.expr(path+".items[0]", n.Items[0])
		} else {
			inner = &hir.Expr{Kind: hir.ExprLiteral, Type: types.Tuple(), Span: b.span(), Data: hir.LiteralData{Value: ast.Unit()}}
		}
		e.Kind, e.Data = hir.ExprConstructor, hir.ConstructorData{Data: data, Variant: variant, Inner: inner}
	default:
		b.errorf(diag.HIRUnknownNode, sp, path, "unknown expression kind %q", n.Kind)
		return nil
	}
	return e
}

func (b *builder) wantName(path, name string, sp source.Span, what string) bool {
	if name == "" {
		b.errorf(diag.HIRMissingField, sp, path, "missing %s name", what)
		return false
	}
	return true
}

// recordFields orders a record literal's fields as its type declares them.
func (b *builder) recordFields(path string, n *Node, ty *types.Type, sp source.Span) ([]hir.FieldInit, bool) {
	if ty == nil {
		return nil, false
	}
	if ty.Kind != types.KindRecord {
		b.errorf(diag.HIRBadType, sp, path, "record literal needs a record type, got %s", ty.Kind)
		return nil, false
	}
	given := make(map[source.StringID]*Node, len(n.Fields))
	for _, f := range n.Fields {
		name := b.ident(f.Name)
		if _, known := ty.FieldIndex(name); !known {
			b.errorf(diag.HIRMissingField, sp, path, "record type has no field %q", f.Name)
			return nil, false
		}
		given[name] = f.Value
	}
	out := make([]hir.FieldInit, len(ty.Fields))
	for i, f := range ty.Fields {
		value, ok := given[f.Name]
		if !ok {
			b.errorf(diag.HIRMissingField, sp, path, "missing field %q", b.prog.Name(f.Name))
			return nil, false
		}
		out[i] = hir.FieldInit{Name: f.Name, Value: b.expr(fmt.Sprintf("%s.fields.%s", path, b.prog.Name(f.Name)), value)}
	}
	return out, true
}

// recordField checks that the declared type of record has the named field.
// A data type counts as its payload only when it has a single variant whose
// payload is a record.
func (b *builder) recordField(path string, record *hir.Expr, name string, sp source.Span) bool {
	if record == nil || record.Type == nil {
		return false
	}
	layout := record.Type
	if layout.Kind == types.KindData {
		def := b.prog.Data.Get(layout.Data)
		if len(def.Variants) != 1 {
			b.errorf(diag.HIRBadType, sp, path, "field %q of data type %s with %d variants", name, b.prog.Name(def.Name), len(def.Variants))
			return false
		}
		layout = def.Variants[0].Type
	}
	if layout == nil || layout.Kind != types.KindRecord {
		kind := "untyped payload"
		if layout != nil {
			kind = layout.Kind.String()
		}
		b.errorf(diag.HIRBadType, sp, path, "field %q of a value that is not a record, got %s", name, kind)
		return false
	}
	if _, ok := layout.FieldIndex(b.ident(name)); !ok {
		b.errorf(diag.HIRMissingField, sp, path, "record type has no field %q", name)
		return false
	}
	return true
}

// variant resolves a constructor by data type and variant name. The data
// type comes from dataName when set, otherwise from ty.
func (b *builder) variant(path string, ty *types.Type, dataName, variantName string, sp source.Span) (types.DataID, int, bool) {
	var data types.DataID
	switch {
	case dataName != "":
		id, ok := b.prog.Data.Lookup(b.ident(dataName))
		if !ok {
			b.errorf(diag.HIRUnknownData, sp, path, "unknown data type %q", dataName)
			return 0, 0, false
		}
		data = id
	case ty != nil && ty.Kind == types.KindData:
		data = ty.Data
	case ty == nil:
		b.errorf(diag.HIRMissingField, sp, path, "constructor needs a data type")
		return 0, 0, false
	default:
		b.errorf(diag.HIRBadType, sp, path, "constructor needs a data type, got %s", ty.Kind)
		return 0, 0, false
	}
	def := b.prog.Data.Get(data)
	idx, ok := def.VariantIndex(b.ident(variantName))
	if !ok {
		b.errorf(diag.HIRUnknownVariant, sp, path, "%s has no variant %q", b.prog.Name(def.Name), variantName)
		return 0, 0, false
	}
	return data, idx, true
}

func (b *builder) patterns(path string, pats []*Pattern) []*hir.Binding {
	out := make([]*hir.Binding, len(pats))
	for i, p := range pats {
		out[i] = b.pattern(fmt.Sprintf("%s.items[%d]", path, i), p)
	}
	return out
}

func (b *builder) pattern(path string, p *Pattern) *hir.Binding {
	sp := b.span()
	if p == nil {
		b.errorf(diag.HIRMissingField, sp, path, "missing pattern")
		return nil
	}
	out := &hir.Binding{Span: sp}
	if p.Name != "" {
		out.Name = b.ident(p.Name)
	}
	if p.Type != "" {
		out.Type = b.parseType(path+".type", p.Type, sp)
	}
	switch strings.ToLower(p.Kind) {
	case "wildcard", "bind":
		out.Kind = hir.PatWildcard
	case "literal":
		lit, ty, ok := b.literal(path+".value", p.Value, sp)
		if !ok {
			return nil
		}
		if out.Type == nil {
			out.Type = ty
		}
		out.Kind, out.Data = hir.PatLiteral, hir.LiteralPat{Value: lit}
	case "tuple":
		out.Kind, out.Data = hir.PatTuple, hir.TuplePat{Items: b.patterns(path, p.Items)}
	case "record":
		fields, ok := b.recordPattern(path, p, out.Type, sp)
		if !ok {
			return nil
		}
		out.Kind, out.Data = hir.PatRecord, hir.RecordPat{Fields: fields}
	case "list":
		out.Kind, out.Data = hir.PatList, hir.ListPat{Items: b.patterns(path, p.Items)}
	case "front":
		var tail source.StringID
		if p.Tail != "" {
			tail = b.ident(p.Tail)
		}
		out.Kind, out.Data = hir.PatListFront, hir.ListFrontPat{Items: b.patterns(path, p.Items), Tail: tail}
	case "construct":
		if len(p.Items) > 1 {
			b.errorf(diag.HIRArity, sp, path, "construct pattern takes at most 1 operand, got %d", len(p.Items))
			return nil
		}
		data, variant, ok := b.variant(path, out.Type, p.Data, p.Variant, sp)
		if !ok {
			return nil
		}
		var inner *hir.Binding
		if len(p.Items) == 1 {
			inner = b.pattern(path+".items[0]", p.Items[0])
		} else {
			inner = &hir.Binding{Kind: hir.PatWildcard, Span: b.span()}
		}
		if def := b.prog.Data.Get(data); len(def.Variants) == 1 && out.Name != source.NoStringID {
			if name := b.elidedName(inner); name != source.NoStringID && name != out.Name {
				b.errorf(diag.HIRDoubleBinding, sp, path, "%s has one variant, so %q and %q name the same value", b.prog.Name(def.Name), p.Name, b.prog.Name(name))
				return nil
			}
		}
		out.Kind, out.Data = hir.PatDeconstruct, hir.DeconstructPat{Data: data, Variant: variant, Inner: inner}
	default:
		b.errorf(diag.HIRUnknownNode, sp, path, "unknown pattern kind %q", p.Kind)
		return nil
	}
	return out
}

// elidedName is the name a pattern gives to the value it matches once
// single-variant constructors are erased.
func (b *builder) elidedName(p *hir.Binding) source.StringID {
	for p != nil {
		if p.Name != source.NoStringID {
			return p.Name
		}
		d, ok := p.Data.(hir.DeconstructPat)
		if !ok || len(b.prog.Data.Get(d.Data).Variants) != 1 {
			break
		}
		p = d.Inner
	}
	return source.NoStringID
}

// recordPattern orders field patterns as the record type declares them and
// fills omitted fields with wildcards. Without a record type the fields are
// kept as written.
func (b *builder) recordPattern(path string, p *Pattern, ty *types.Type, sp source.Span) ([]hir.FieldPat, bool) {
	if ty == nil {
		out := make([]hir.FieldPat, len(p.Fields))
		for i, f := range p.Fields {
			out[i] = hir.FieldPat{Name: b.ident(f.Name), Binding: b.pattern(fmt.Sprintf("%s.fields.%s", path, f.Name), f.Pattern)}
		}
		return out, true
	}
	if ty.Kind != types.KindRecord {
		b.errorf(diag.HIRBadType, sp, path, "record pattern needs a record type, got %s", ty.Kind)
		return nil, false
	}
	given := make(map[source.StringID]*Pattern, len(p.Fields))
	for _, f := range p.Fields {
		name := b.ident(f.Name)
		if _, known := ty.FieldIndex(name); !known {
			b.errorf(diag.HIRMissingField, sp, path, "record type has no field %q", f.Name)
			return nil, false
		}
		given[name] = f.Pattern
	}
	out := make([]hir.FieldPat, len(ty.Fields))
	for i, f := range ty.Fields {
		fp := hir.FieldPat{Name: f.Name}
		if sub, ok := given[f.Name]; ok {
			fp.Binding = b.pattern(fmt.Sprintf("%s.fields.%s", path, b.prog.Name(f.Name)), sub)
		} else {
			fp.Binding = &hir.Binding{Kind: hir.PatWildcard, Type: f.Type, Span: b.span()}
		}
		out[i] = fp
	}
	return out, true
}
