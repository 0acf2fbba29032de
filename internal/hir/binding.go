package hir

import (
	"tao/internal/ast"
	"tao/internal/source"
	"tao/internal/types"
)

// PatKind enumerates pattern shapes.
type PatKind uint8

const (
	PatWildcard PatKind = iota
	PatLiteral
	PatTuple
	PatRecord
	PatList
	PatListFront
	PatDeconstruct
)

func (k PatKind) String() string {
	switch k {
	case PatWildcard:
		return "Wildcard"
	case PatLiteral:
		return "Literal"
	case PatTuple:
		return "Tuple"
	case PatRecord:
		return "Record"
	case PatList:
		return "List"
	case PatListFront:
		return "ListFront"
	case PatDeconstruct:
		return "Deconstruct"
	default:
		return "Unknown"
	}
}

// Binding is a typed pattern. Name, when set, binds the whole matched value
// (`x @ (a, b)` style); a plain variable binding is a wildcard with a Name.
type Binding struct {
	Kind PatKind
	Name source.StringID
	Type *types.Type
	Span source.Span
	Data PatData
}

// PatData is the kind-specific payload of a pattern.
type PatData interface {
	patData()
}

type LiteralPat struct {
	Value ast.Literal
}

type TuplePat struct {
	Items []*Binding
}

// FieldPat is one field of a record pattern.
type FieldPat struct {
	Name    source.StringID
	Binding *Binding
}

// RecordPat lists fields in the record type's declaration order.
type RecordPat struct {
	Fields []FieldPat
}

// ListPat matches a list of exactly len(Items) elements.
type ListPat struct {
	Items []*Binding
}

// ListFrontPat matches the leading Items and binds the remainder to Tail.
type ListFrontPat struct {
	Items []*Binding
	Tail  source.StringID
}

type DeconstructPat struct {
	Data    types.DataID
	Variant int
	Inner   *Binding
}

func (LiteralPat) patData()     {}
func (TuplePat) patData()       {}
func (RecordPat) patData()      {}
func (ListPat) patData()        {}
func (ListFrontPat) patData()   {}
func (DeconstructPat) patData() {}

// Children returns the sub-patterns in declaration order.
func (b *Binding) Children() []*Binding {
	if b == nil {
		return nil
	}
	switch data := b.Data.(type) {
	case TuplePat:
		return data.Items
	case RecordPat:
		out := make([]*Binding, 0, len(data.Fields))
		for _, f := range data.Fields {
			out = append(out, f.Binding)
		}
		return out
	case ListPat:
		return data.Items
	case ListFrontPat:
		return data.Items
	case DeconstructPat:
		return []*Binding{data.Inner}
	}
	return nil
}

// BoundNames lists every name introduced by the pattern, without duplicates.
func (b *Binding) BoundNames() []source.StringID {
	var out []source.StringID
	add := func(name source.StringID) {
		if name == source.NoStringID {
			return
		}
		for _, have := range out {
			if have == name {
				return
			}
		}
		out = append(out, name)
	}
	var walk func(*Binding)
	walk = func(b *Binding) {
		if b == nil {
			return
		}
		add(b.Name)
		if front, ok := b.Data.(ListFrontPat); ok {
			add(front.Tail)
		}
		for _, child := range b.Children() {
			walk(child)
		}
	}
	walk(b)
	return out
}
