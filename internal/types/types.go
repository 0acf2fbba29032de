// Package types describes the generic, still-polymorphic types carried by HIR
// nodes, and the registry of user-declared data types.
package types

import (
	"fmt"

	"tao/internal/source"
)

// Primitive enumerates built-in atomic types.
type Primitive uint8

const (
	PrimBool Primitive = iota
	PrimNumber
	PrimChar
	PrimUniverse
)

func (p Primitive) String() string {
	switch p {
	case PrimBool:
		return "Bool"
	case PrimNumber:
		return "Num"
	case PrimChar:
		return "Char"
	case PrimUniverse:
		return "Universe"
	default:
		return fmt.Sprintf("Primitive(%d)", p)
	}
}

// ParsePrimitive recognises the names printed by Primitive.String.
func ParsePrimitive(s string) (Primitive, bool) {
	switch s {
	case "Bool":
		return PrimBool, true
	case "Num":
		return PrimNumber, true
	case "Char":
		return PrimChar, true
	case "Universe":
		return PrimUniverse, true
	}
	return 0, false
}

// Kind enumerates the shapes of a HIR type.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindGenParam
	KindTuple
	KindRecord
	KindList
	KindFunc
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindGenParam:
		return "param"
	case KindTuple:
		return "tuple"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	case KindFunc:
		return "func"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Field is a named record member.
type Field struct {
	Name source.StringID
	Type *Type
}

// Type is a HIR type expression. It may mention generic parameters; MIR
// types never do.
type Type struct {
	Kind   Kind
	Prim   Primitive       // KindPrimitive
	Param  source.StringID // KindGenParam
	Elems  []*Type         // KindTuple
	Fields []Field         // KindRecord, declaration order
	Elem   *Type           // KindList
	In     *Type           // KindFunc
	Out    *Type           // KindFunc
	Data   DataID          // KindData
	Args   []*Type         // KindData
}

func Prim(p Primitive) *Type { return &Type{Kind: KindPrimitive, Prim: p} }

func Param(name source.StringID) *Type { return &Type{Kind: KindGenParam, Param: name} }

func Tuple(elems ...*Type) *Type { return &Type{Kind: KindTuple, Elems: elems} }

func Record(fields ...Field) *Type { return &Type{Kind: KindRecord, Fields: fields} }

func List(elem *Type) *Type { return &Type{Kind: KindList, Elem: elem} }

func Func(in, out *Type) *Type { return &Type{Kind: KindFunc, In: in, Out: out} }

func Data(id DataID, args ...*Type) *Type { return &Type{Kind: KindData, Data: id, Args: args} }

// FieldIndex returns the declaration index of name in a record type.
func (t *Type) FieldIndex(name source.StringID) (int, bool) {
	if t == nil || t.Kind != KindRecord {
		return -1, false
	}
	for i, f := range t.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}
