package mono

import (
	"slices"

	"tao/internal/hir"
	"tao/internal/mir"
	"tao/internal/source"
	"tao/internal/types"
)

// lowerExpr instantiates e under resolve. Global references it meets are
// instantiated on demand.
func (b *builder) lowerExpr(e *hir.Expr, resolve resolver) *mir.Expr {
	if e == nil {
		violate(source.Span{}, "missing expression")
	}
	out := &mir.Expr{Span: e.Span}
	switch data := e.Data.(type) {
	case hir.LiteralData:
		out.Kind = mir.ExprLiteral
		out.Data = mir.LiteralData{Value: data.Value}
	case hir.LocalData:
		out.Kind = mir.ExprGetLocal
		out.Data = mir.LocalData{Name: data.Name}
	case hir.GlobalData:
		args := b.instantiateTypes(data.TypeArgs, resolve)
		out.Kind = mir.ExprGetGlobal
		out.Data = mir.GlobalData{Def: b.ensureDef(data.Name, args, e.Span)}
	case hir.IntrinsicData:
		out.Kind = mir.ExprIntrinsic
		out.Data = mir.IntrinsicData{Op: data.Op, Args: b.lowerExprs(data.Args, resolve)}
	case hir.UnaryData:
		out.Kind = mir.ExprUnary
		out.Data = mir.UnaryData{Op: data.Op, Operand: b.lowerExpr(data.Operand, resolve)}
	case hir.BinaryData:
		left := b.lowerExpr(data.Left, resolve)
		out.Kind = mir.ExprBinary
		out.Data = mir.BinaryData{Op: data.Op, Left: left, Right: b.lowerExpr(data.Right, resolve)}
	case hir.TupleData:
		out.Kind = mir.ExprTuple
		out.Data = mir.TupleData{Items: b.lowerExprs(data.Items, resolve)}
	case hir.RecordData:
		items := make([]*mir.Expr, 0, len(data.Fields))
		for _, f := range data.Fields {
			items = append(items, b.lowerExpr(f.Value, resolve))
		}
		out.Kind = mir.ExprTuple
		out.Data = mir.TupleData{Items: items}
	case hir.ListData:
		out.Kind = mir.ExprList
		out.Data = mir.ListData{Items: b.lowerExprs(data.Items, resolve)}
	case hir.ApplyData:
		fn := b.lowerExpr(data.Func, resolve)
		out.Kind = mir.ExprApply
		out.Data = mir.ApplyData{Func: fn, Arg: b.lowerExpr(data.Arg, resolve)}
	case hir.AccessData:
		index := b.fieldIndex(data.Record, data.Field, e.Span)
		out.Kind = mir.ExprAccess
		out.Data = mir.AccessData{Record: b.lowerExpr(data.Record, resolve), Index: index}
	case hir.UpdateData:
		index := b.fieldIndex(data.Record, data.Field, e.Span)
		record := b.lowerExpr(data.Record, resolve)
		out.Kind = mir.ExprUpdate
		out.Data = mir.UpdateData{
			Record: record,
			Index:  index,
			Field:  data.Field,
			Value:  b.lowerExpr(data.Value, resolve),
		}
	case hir.FuncData:
		param := compileExtractor(b.src.Data, data.Param)
		bound := param.Bindings()
		var env []source.StringID
		for _, name := range freeVars(data.Body) {
			if !slices.Contains(bound, name) {
				env = append(env, name)
			}
		}
		out.Kind = mir.ExprFunc
		out.Data = mir.FuncData{Param: param, Env: env, Body: b.lowerExpr(data.Body, resolve)}
	case hir.MatchData:
		scrutinee := b.lowerExpr(data.Scrutinee, resolve)
		arms := make([]mir.MatchArm, 0, len(data.Arms))
		for _, arm := range data.Arms {
			arms = append(arms, mir.MatchArm{
				Matcher:   compileMatcher(b.src.Data, arm.Binding),
				Extractor: compileExtractor(b.src.Data, arm.Binding),
				Body:      b.lowerExpr(arm.Body, resolve),
			})
		}
		out.Kind = mir.ExprMatch
		out.Data = mir.MatchData{Scrutinee: scrutinee, Arms: arms}
	case hir.ConstructorData:
		variants := variantCount(b.src.Data, data.Data, data.Variant, e.Span)
		inner := b.lowerExpr(data.Inner, resolve)
		if variants == 1 {
			return inner
		}
		tag := &mir.Expr{
			Kind: mir.ExprLiteral,
			Span: e.Span,
			Type: b.types.Primitive(types.PrimNumber),
			Data: mir.LiteralData{Value: tagLiteral(data.Variant)},
		}
		out.Kind = mir.ExprTuple
		out.Data = mir.TupleData{Items: []*mir.Expr{tag, inner}}
	default:
		violate(e.Span, "unsupported expression %s", e.Kind)
	}
	out.Type = b.instantiateType(e.Type, resolve)
	return out
}

func (b *builder) lowerExprs(es []*hir.Expr, resolve resolver) []*mir.Expr {
	out := make([]*mir.Expr, 0, len(es))
	for _, e := range es {
		out = append(out, b.lowerExpr(e, resolve))
	}
	return out
}

// fieldIndex resolves a field name against the declared type of record.
// A data type stands in for its record payload only when it has exactly one
// variant; a tagged value has no field at a fixed position.
func (b *builder) fieldIndex(record *hir.Expr, field source.StringID, span source.Span) int {
	if record == nil || record.Type == nil {
		violate(span, "field %q of an untyped value", b.src.Name(field))
	}
	layout := record.Type
	if layout.Kind == types.KindData {
		def := b.src.Data.Get(layout.Data)
		if len(def.Variants) != 1 {
			violate(span, "field %q of data type %s with %d variants", b.src.Name(field), b.src.Name(def.Name), len(def.Variants))
		}
		layout = def.Variants[0].Type
	}
	if layout == nil || layout.Kind != types.KindRecord {
		violate(span, "field %q of a value that is not a record", b.src.Name(field))
	}
	index, ok := layout.FieldIndex(field)
	if !ok {
		violate(span, "record has no field %q", b.src.Name(field))
	}
	return index
}
