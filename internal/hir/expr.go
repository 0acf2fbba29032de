// Package hir is the typed, name-resolved, still-generic IR consumed by the
// monomorphization pass.
package hir

import (
	"tao/internal/ast"
	"tao/internal/source"
	"tao/internal/types"
)

// ExprKind enumerates HIR expression kinds.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprLocal
	ExprGlobal
	ExprIntrinsic
	ExprUnary
	ExprBinary
	ExprTuple
	ExprRecord
	ExprList
	ExprApply
	ExprAccess
	ExprUpdate
	ExprFunc
	ExprMatch
	ExprConstructor
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprLocal:
		return "Local"
	case ExprGlobal:
		return "Global"
	case ExprIntrinsic:
		return "Intrinsic"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprTuple:
		return "Tuple"
	case ExprRecord:
		return "Record"
	case ExprList:
		return "List"
	case ExprApply:
		return "Apply"
	case ExprAccess:
		return "Access"
	case ExprUpdate:
		return "Update"
	case ExprFunc:
		return "Func"
	case ExprMatch:
		return "Match"
	case ExprConstructor:
		return "Constructor"
	default:
		return "Unknown"
	}
}

// Expr is a typed HIR expression.
type Expr struct {
	Kind ExprKind
	Type *types.Type // declared type, may mention generic params
	Span source.Span
	Data ExprData
}

// ExprData is the kind-specific payload of an expression.
type ExprData interface {
	exprData()
}

type LiteralData struct {
	Value ast.Literal
}

type LocalData struct {
	Name source.StringID
}

// GlobalData references a definition, instantiated with TypeArgs in the
// order of the definition's generic parameters.
type GlobalData struct {
	Name     source.StringID
	TypeArgs []*types.Type
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

// FieldInit is one field of a record literal.
type FieldInit struct {
	Name  source.StringID
	Value *Expr
}

// RecordData lists fields in the record type's declaration order.
type RecordData struct {
	Fields []FieldInit
}

type ListData struct {
	Items []*Expr
}

type ApplyData struct {
	Func, Arg *Expr
}

type AccessData struct {
	Record *Expr
	Field  source.StringID
}

type UpdateData struct {
	Record *Expr
	Field  source.StringID
	Value  *Expr
}

type FuncData struct {
	Param *Binding
	Body  *Expr
}

// MatchArm pairs a pattern with the body evaluated when it matches.
type MatchArm struct {
	Binding *Binding
	Body    *Expr
}

type MatchData struct {
	Scrutinee *Expr
	Arms      []MatchArm
}

// ConstructorData applies the Variant-th constructor (declaration index) of
// Data to Inner.
type ConstructorData struct {
	Data    types.DataID
	Variant int
	Inner   *Expr
}

func (LiteralData) exprData()     {}
func (LocalData) exprData()       {}
func (GlobalData) exprData()      {}
func (IntrinsicData) exprData()   {}
func (UnaryData) exprData()       {}
func (BinaryData) exprData()      {}
func (TupleData) exprData()       {}
func (RecordData) exprData()      {}
func (ListData) exprData()        {}
func (ApplyData) exprData()       {}
func (AccessData) exprData()      {}
func (UpdateData) exprData()      {}
func (FuncData) exprData()        {}
func (MatchData) exprData()       {}
func (ConstructorData) exprData() {}
