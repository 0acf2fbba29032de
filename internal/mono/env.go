package mono

import (
	"slices"

	"tao/internal/hir"
	"tao/internal/source"
)

// freeVars returns the locals e reads that it does not bind itself, in
// first-use order. Globals are never captured.
func freeVars(e *hir.Expr) []source.StringID {
	var a envAnalysis
	a.visit(e)
	return a.env
}

type envAnalysis struct {
	scope []source.StringID
	env   []source.StringID
}

func (a *envAnalysis) capture(name source.StringID) {
	if slices.Contains(a.scope, name) || slices.Contains(a.env, name) {
		return
	}
	a.env = append(a.env, name)
}

func (a *envAnalysis) visitAll(es []*hir.Expr) {
	for _, e := range es {
		a.visit(e)
	}
}

func (a *envAnalysis) visit(e *hir.Expr) {
	if e == nil {
		return
	}
	switch data := e.Data.(type) {
	case hir.LiteralData, hir.GlobalData:
	case hir.LocalData:
		a.capture(data.Name)
	case hir.IntrinsicData:
		a.visitAll(data.Args)
	case hir.UnaryData:
		a.visit(data.Operand)
	case hir.BinaryData:
		a.visit(data.Left)
		a.visit(data.Right)
	case hir.TupleData:
		a.visitAll(data.Items)
	case hir.RecordData:
		for _, f := range data.Fields {
			a.visit(f.Value)
		}
	case hir.ListData:
		a.visitAll(data.Items)
	case hir.ApplyData:
		a.visit(data.Func)
		a.visit(data.Arg)
	case hir.AccessData:
		a.visit(data.Record)
	case hir.UpdateData:
		a.scope = append(a.scope, data.Field)
		a.visit(data.Record)
		a.visit(data.Value)
		a.scope = a.scope[:len(a.scope)-1]
	case hir.FuncData:
		// a nested closure captures on its own; whatever it needs and does
		// not bind must also come from here
		bound := data.Param.BoundNames()
		for _, name := range freeVars(data.Body) {
			if !slices.Contains(bound, name) {
				a.capture(name)
			}
		}
	case hir.MatchData:
		a.visit(data.Scrutinee)
		for _, arm := range data.Arms {
			mark := len(a.scope)
			a.scope = append(a.scope, arm.Binding.BoundNames()...)
			a.visit(arm.Body)
			a.scope = a.scope[:mark]
		}
	case hir.ConstructorData:
		a.visit(data.Inner)
	}
}
