package mir

import (
	"tao/internal/ast"
	"tao/internal/source"
)

// ExprKind enumerates MIR expression kinds.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprGetGlobal
	ExprGetLocal
	ExprIntrinsic
	ExprUnary
	ExprBinary
	ExprTuple
	ExprList
	ExprApply
	ExprAccess
	ExprUpdate
	ExprFunc
	ExprMatch
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "lit"
	case ExprGetGlobal:
		return "global"
	case ExprGetLocal:
		return "local"
	case ExprIntrinsic:
		return "intrinsic"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprTuple:
		return "tuple"
	case ExprList:
		return "list"
	case ExprApply:
		return "apply"
	case ExprAccess:
		return "access"
	case ExprUpdate:
		return "update"
	case ExprFunc:
		return "func"
	case ExprMatch:
		return "match"
	default:
		return "unknown"
	}
}

// Expr is a monomorphic expression annotated with its source position and
// concrete type.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Type TypeID
	Data ExprData
}

// ExprData is the kind-specific payload of an expression.
type ExprData interface {
	exprData()
}

type LiteralData struct {
	Value ast.Literal
}

type GlobalData struct {
	Def DefID
}

type LocalData struct {
	Name source.StringID
}

type IntrinsicData struct {
	Op   ast.Intrinsic
	Args []*Expr
}

type UnaryData struct {
	Op      ast.UnaryOp
	Operand *Expr
}

type BinaryData struct {
	Op          ast.BinaryOp
	Left, Right *Expr
}

type TupleData struct {
	Items []*Expr
}

type ListData struct {
	Items []*Expr
}

type ApplyData struct {
	Func, Arg *Expr
}

// AccessData reads the Index-th field of a product value.
type AccessData struct {
	Record *Expr
	Index  int
}

// UpdateData produces a copy of Record with the Index-th field replaced.
// Field keeps the source name for backends that rebuild named records.
type UpdateData struct {
	Record *Expr
	Index  int
	Field  source.StringID
	Value  *Expr
}

// FuncData is a closure. Env lists, in order, the enclosing locals copied
// into the closure when it is created.
type FuncData struct {
	Param Extractor
	Env   []source.StringID
	Body  *Expr
}

// MatchArm is tried in order; the first arm whose Matcher accepts the value
// binds through Extractor and evaluates Body.
type MatchArm struct {
	Matcher   Matcher
	Extractor Extractor
	Body      *Expr
}

type MatchData struct {
	Scrutinee *Expr
	Arms      []MatchArm
}

func (LiteralData) exprData()   {}
func (GlobalData) exprData()    {}
func (LocalData) exprData()     {}
func (IntrinsicData) exprData() {}
func (UnaryData) exprData()     {}
func (BinaryData) exprData()    {}
func (TupleData) exprData()     {}
func (ListData) exprData()      {}
func (ApplyData) exprData()     {}
func (AccessData) exprData()    {}
func (UpdateData) exprData()    {}
func (FuncData) exprData()      {}
func (MatchData) exprData()     {}

// Children returns the direct sub-expressions of e in evaluation order.
func (e *Expr) Children() []*Expr {
	if e == nil {
		return nil
	}
	switch data := e.Data.(type) {
	case IntrinsicData:
		return data.Args
	case UnaryData:
		return []*Expr{data.Operand}
	case BinaryData:
		return []*Expr{data.Left, data.Right}
	case TupleData:
		return data.Items
	case ListData:
		return data.Items
	case ApplyData:
		return []*Expr{data.Func, data.Arg}
	case AccessData:
		return []*Expr{data.Record}
	case UpdateData:
		return []*Expr{data.Record, data.Value}
	case FuncData:
		return []*Expr{data.Body}
	case MatchData:
		out := make([]*Expr, 0, len(data.Arms)+1)
		out = append(out, data.Scrutinee)
		for _, arm := range data.Arms {
			out = append(out, arm.Body)
		}
		return out
	}
	return nil
}

// Walk visits e and its descendants in pre-order until fn returns false.
func Walk(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range e.Children() {
		Walk(child, fn)
	}
}
