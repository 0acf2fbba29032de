// Package ast holds the literal and operator vocabulary shared by HIR and MIR.
package ast

import (
	"strconv"
)

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LitUnit LiteralKind = iota
	LitBool
	LitNumber
	LitChar
	LitString
)

func (k LiteralKind) String() string {
	switch k {
	case LitUnit:
		return "unit"
	case LitBool:
		return "bool"
	case LitNumber:
		return "number"
	case LitChar:
		return "char"
	case LitString:
		return "string"
	default:
		return "unknown"
	}
}

// Literal is a constant value. Only the field selected by Kind is meaningful.
type Literal struct {
	Kind LiteralKind
	Num  float64
	Bool bool
	Char rune
	Str  string
}

func Unit() Literal              { return Literal{Kind: LitUnit} }
func Bool(v bool) Literal        { return Literal{Kind: LitBool, Bool: v} }
func Number(v float64) Literal   { return Literal{Kind: LitNumber, Num: v} }
func Char(v rune) Literal        { return Literal{Kind: LitChar, Char: v} }
func String(v string) Literal    { return Literal{Kind: LitString, Str: v} }
func (l Literal) IsNumber() bool { return l.Kind == LitNumber }

// Equal compares the meaningful part of two literals.
func (l Literal) Equal(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case LitBool:
		return l.Bool == o.Bool
	case LitNumber:
		return l.Num == o.Num
	case LitChar:
		return l.Char == o.Char
	case LitString:
		return l.Str == o.Str
	default:
		return true
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case LitUnit:
		return "()"
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitNumber:
		return strconv.FormatFloat(l.Num, 'g', -1, 64)
	case LitChar:
		return strconv.QuoteRune(l.Char)
	case LitString:
		return strconv.Quote(l.Str)
	default:
		return "<invalid>"
	}
}
