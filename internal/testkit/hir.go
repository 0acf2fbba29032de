// Package testkit builds small typed HIR programs and checks lowered MIR in
// tests.
package testkit

import (
	"fmt"

	"tao/internal/ast"
	"tao/internal/hir"
	"tao/internal/source"
	"tao/internal/types"
)

// Builder assembles a hir.Program. Every node it creates gets its own
// one-byte span so that nodes can be told apart in failures.
type Builder struct {
	Strings *source.Interner
	Data    *types.DataCtx
	Prog    *hir.Program

	file source.FileID
	pos  uint32
}

func NewBuilder() *Builder {
	strs := source.NewInterner()
	data := types.NewDataCtx()
	return &Builder{
		Strings: strs,
		Data:    data,
		Prog:    hir.NewProgram(strs, data),
		file:    1,
	}
}

// ID interns an identifier; the empty string is source.NoStringID.
func (b *Builder) ID(name string) source.StringID {
	return b.Strings.Intern(name)
}

func (b *Builder) span() source.Span {
	b.pos++
	return source.NodeSpan(b.file, b.pos)
}

// Types.

func Num() *types.Type  { return types.Prim(types.PrimNumber) }
func Bool() *types.Type { return types.Prim(types.PrimBool) }
func Char() *types.Type { return types.Prim(types.PrimChar) }
func Unit() *types.Type { return types.Tuple() }

func (b *Builder) Param(name string) *types.Type { return types.Param(b.ID(name)) }

func (b *Builder) Field(name string, ty *types.Type) types.Field {
	return types.Field{Name: b.ID(name), Type: ty}
}

// DataType references a declared data type by name.
func (b *Builder) DataType(name string, args ...*types.Type) *types.Type {
	id, ok := b.Data.Lookup(b.ID(name))
	if !ok {
		panic(fmt.Sprintf("testkit: unknown data type %q", name))
	}
	return types.Data(id, args...)
}

// Declare reserves a data type so its variants may refer to it.
func (b *Builder) Declare(name string, generics ...string) types.DataID {
	return b.Data.Declare(b.ID(name), b.ids(generics))
}

// Variants fills in the variants of a declared data type. Arguments
// alternate between variant name and payload type.
func (b *Builder) Variants(id types.DataID, pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("testkit: Variants wants name/type pairs")
	}
	variants := make([]types.Variant, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		variants = append(variants, types.Variant{
			Name: b.ID(pairs[i].(string)),
			Type: pairs[i+1].(*types.Type),
		})
	}
	b.Data.SetVariants(id, variants)
}

func (b *Builder) ids(names []string) []source.StringID {
	if len(names) == 0 {
		return nil
	}
	out := make([]source.StringID, 0, len(names))
	for _, n := range names {
		out = append(out, b.ID(n))
	}
	return out
}

// Definitions.

// Def adds a definition; generics are its type parameter names.
func (b *Builder) Def(name string, generics []string, body *hir.Expr) *hir.Def {
	def := &hir.Def{Name: b.ID(name), Generics: b.ids(generics), Body: body, Span: b.span()}
	if err := b.Prog.AddDef(def); err != nil {
		panic(err)
	}
	return def
}

// Expressions.

func (b *Builder) expr(kind hir.ExprKind, ty *types.Type, data hir.ExprData) *hir.Expr {
	return &hir.Expr{Kind: kind, Type: ty, Span: b.span(), Data: data}
}

func (b *Builder) Lit(v ast.Literal, ty *types.Type) *hir.Expr {
	return b.expr(hir.ExprLiteral, ty, hir.LiteralData{Value: v})
}

func (b *Builder) NumLit(v float64) *hir.Expr { return b.Lit(ast.Number(v), Num()) }

func (b *Builder) Local(name string, ty *types.Type) *hir.Expr {
	return b.expr(hir.ExprLocal, ty, hir.LocalData{Name: b.ID(name)})
}

func (b *Builder) Global(name string, ty *types.Type, args ...*types.Type) *hir.Expr {
	return b.expr(hir.ExprGlobal, ty, hir.GlobalData{Name: b.ID(name), TypeArgs: args})
}

func (b *Builder) Intrinsic(op ast.Intrinsic, ty *types.Type, args ...*hir.Expr) *hir.Expr {
	return b.expr(hir.ExprIntrinsic, ty, hir.IntrinsicData{Op: op, Args: args})
}

func (b *Builder) Unary(op ast.UnaryOp, operand *hir.Expr) *hir.Expr {
	return b.expr(hir.ExprUnary, operand.Type, hir.UnaryData{Op: op, Operand: operand})
}

func (b *Builder) Binary(op ast.BinaryOp, left, right *hir.Expr, ty *types.Type) *hir.Expr {
	return b.expr(hir.ExprBinary, ty, hir.BinaryData{Op: op, Left: left, Right: right})
}

func (b *Builder) Tuple(items ...*hir.Expr) *hir.Expr {
	elems := make([]*types.Type, 0, len(items))
	for _, item := range items {
		elems = append(elems, item.Type)
	}
	return b.expr(hir.ExprTuple, types.Tuple(elems...), hir.TupleData{Items: items})
}

// Record builds a record literal from name/value pairs in declaration order.
func (b *Builder) Record(pairs ...any) *hir.Expr {
	fields := make([]hir.FieldInit, 0, len(pairs)/2)
	decl := make([]types.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name := b.ID(pairs[i].(string))
		value := pairs[i+1].(*hir.Expr)
		fields = append(fields, hir.FieldInit{Name: name, Value: value})
		decl = append(decl, types.Field{Name: name, Type: value.Type})
	}
	return b.expr(hir.ExprRecord, types.Record(decl...), hir.RecordData{Fields: fields})
}

func (b *Builder) List(elem *types.Type, items ...*hir.Expr) *hir.Expr {
	return b.expr(hir.ExprList, types.List(elem), hir.ListData{Items: items})
}

// Apply calls fn, whose type must be a function type.
func (b *Builder) Apply(fn, arg *hir.Expr) *hir.Expr {
	return b.expr(hir.ExprApply, fn.Type.Out, hir.ApplyData{Func: fn, Arg: arg})
}

func (b *Builder) Access(record *hir.Expr, field string, ty *types.Type) *hir.Expr {
	return b.expr(hir.ExprAccess, ty, hir.AccessData{Record: record, Field: b.ID(field)})
}

func (b *Builder) Update(record *hir.Expr, field string, value *hir.Expr) *hir.Expr {
	return b.expr(hir.ExprUpdate, record.Type, hir.UpdateData{Record: record, Field: b.ID(field), Value: value})
}

func (b *Builder) Func(param *hir.Binding, body *hir.Expr) *hir.Expr {
	return b.expr(hir.ExprFunc, types.Func(param.Type, body.Type), hir.FuncData{Param: param, Body: body})
}

// Match builds a match; arms alternate between pattern and body.
func (b *Builder) Match(scrutinee *hir.Expr, ty *types.Type, pairs ...any) *hir.Expr {
	arms := make([]hir.MatchArm, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		arms = append(arms, hir.MatchArm{Binding: pairs[i].(*hir.Binding), Body: pairs[i+1].(*hir.Expr)})
	}
	return b.expr(hir.ExprMatch, ty, hir.MatchData{Scrutinee: scrutinee, Arms: arms})
}

// Construct applies the named variant of ty, which must be a data type.
func (b *Builder) Construct(ty *types.Type, variant string, inner *hir.Expr) *hir.Expr {
	idx := b.variantIndex(ty, variant)
	return b.expr(hir.ExprConstructor, ty, hir.ConstructorData{Data: ty.Data, Variant: idx, Inner: inner})
}

func (b *Builder) variantIndex(ty *types.Type, variant string) int {
	if ty == nil || ty.Kind != types.KindData {
		panic("testkit: constructor of a non-data type")
	}
	idx, ok := b.Data.Get(ty.Data).VariantIndex(b.ID(variant))
	if !ok {
		panic(fmt.Sprintf("testkit: unknown variant %q", variant))
	}
	return idx
}

// Patterns.

func (b *Builder) pat(kind hir.PatKind, ty *types.Type, data hir.PatData) *hir.Binding {
	return &hir.Binding{Kind: kind, Type: ty, Span: b.span(), Data: data}
}

// Bind is a plain variable pattern; an empty name is a wildcard.
func (b *Builder) Bind(name string, ty *types.Type) *hir.Binding {
	p := b.pat(hir.PatWildcard, ty, nil)
	p.Name = b.ID(name)
	return p
}

func (b *Builder) LitPat(v ast.Literal, ty *types.Type) *hir.Binding {
	return b.pat(hir.PatLiteral, ty, hir.LiteralPat{Value: v})
}

func (b *Builder) TuplePat(items ...*hir.Binding) *hir.Binding {
	elems := make([]*types.Type, 0, len(items))
	for _, item := range items {
		elems = append(elems, item.Type)
	}
	return b.pat(hir.PatTuple, types.Tuple(elems...), hir.TuplePat{Items: items})
}

// RecordPat matches fields given as name/pattern pairs in declaration order.
func (b *Builder) RecordPat(pairs ...any) *hir.Binding {
	fields := make([]hir.FieldPat, 0, len(pairs)/2)
	decl := make([]types.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name := b.ID(pairs[i].(string))
		p := pairs[i+1].(*hir.Binding)
		fields = append(fields, hir.FieldPat{Name: name, Binding: p})
		decl = append(decl, types.Field{Name: name, Type: p.Type})
	}
	return b.pat(hir.PatRecord, types.Record(decl...), hir.RecordPat{Fields: fields})
}

func (b *Builder) ListPat(elem *types.Type, items ...*hir.Binding) *hir.Binding {
	return b.pat(hir.PatList, types.List(elem), hir.ListPat{Items: items})
}

func (b *Builder) FrontPat(elem *types.Type, tail string, items ...*hir.Binding) *hir.Binding {
	return b.pat(hir.PatListFront, types.List(elem), hir.ListFrontPat{Items: items, Tail: b.ID(tail)})
}

func (b *Builder) Deconstruct(ty *types.Type, variant string, inner *hir.Binding) *hir.Binding {
	idx := b.variantIndex(ty, variant)
	return b.pat(hir.PatDeconstruct, ty, hir.DeconstructPat{Data: ty.Data, Variant: idx, Inner: inner})
}

// As names the whole value matched by p.
func (b *Builder) As(name string, p *hir.Binding) *hir.Binding {
	p.Name = b.ID(name)
	return p
}
