// Package mir is the monomorphic, type-erased IR produced by the mono pass
// and consumed by code generation.
package mir

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"tao/internal/source"
	"tao/internal/types"
)

// TypeID identifies an interned RawType. Two TypeIDs are equal iff the types
// are structurally identical.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates RawType shapes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindList
	KindProduct
	KindSum
	KindFunc
	KindBoxed
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindList:
		return "list"
	case KindProduct:
		return "product"
	case KindSum:
		return "sum"
	case KindFunc:
		return "func"
	case KindBoxed:
		return "boxed"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// RawType is a concrete, name-erased type. It never contains a generic
// parameter.
type RawType struct {
	Kind  Kind
	Prim  types.Primitive // KindPrimitive
	Elem  TypeID          // KindList
	In    TypeID          // KindFunc
	Out   TypeID          // KindFunc
	Items []TypeID        // KindProduct fields, KindSum variants, KindBoxed args
	Name  source.StringID // KindBoxed
}

// TypeInterner hands out one TypeID per distinct RawType for the lifetime of
// a compilation run.
type TypeInterner struct {
	strs  *source.Interner
	types []RawType
	index map[string]TypeID
}

func NewTypeInterner(strs *source.Interner) *TypeInterner {
	if strs == nil {
		strs = source.NewInterner()
	}
	return &TypeInterner{
		strs:  strs,
		types: []RawType{{Kind: KindInvalid}},
		index: make(map[string]TypeID, 64),
	}
}

// Strings returns the identifier table boxed names are interned in.
func (in *TypeInterner) Strings() *source.Interner {
	return in.strs
}

// Intern returns the TypeID of t, adding it if it is new.
func (in *TypeInterner) Intern(t RawType) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("mir: type interner overflow: %w", err))
	}
	id := TypeID(n)
	t.Items = append([]TypeID(nil), t.Items...)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

func (in *TypeInterner) Primitive(p types.Primitive) TypeID {
	return in.Intern(RawType{Kind: KindPrimitive, Prim: p})
}

func (in *TypeInterner) List(elem TypeID) TypeID {
	return in.Intern(RawType{Kind: KindList, Elem: elem})
}

func (in *TypeInterner) Product(items ...TypeID) TypeID {
	return in.Intern(RawType{Kind: KindProduct, Items: items})
}

func (in *TypeInterner) Sum(variants ...TypeID) TypeID {
	return in.Intern(RawType{Kind: KindSum, Items: variants})
}

func (in *TypeInterner) Func(input, output TypeID) TypeID {
	return in.Intern(RawType{Kind: KindFunc, In: input, Out: output})
}

// Boxed interns a nominal reference. name may be a mangled "Type::Variant".
func (in *TypeInterner) Boxed(name string, args ...TypeID) TypeID {
	return in.Intern(RawType{Kind: KindBoxed, Name: in.strs.Intern(name), Items: args})
}

// Lookup returns the descriptor for id.
func (in *TypeInterner) Lookup(id TypeID) (RawType, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return RawType{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *TypeInterner) MustLookup(id TypeID) RawType {
	t, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("mir: invalid TypeID %d", id))
	}
	return t
}

// Len reports the number of interned types, excluding NoTypeID.
func (in *TypeInterner) Len() int {
	return len(in.types) - 1
}

// Mangle renders a canonical, deterministic description of id. It is meant
// for diagnostics and symbol naming, not for parsing back.
func (in *TypeInterner) Mangle(id TypeID) string {
	var b strings.Builder
	in.mangle(&b, id)
	return b.String()
}

func (in *TypeInterner) mangle(b *strings.Builder, id TypeID) {
	t, ok := in.Lookup(id)
	if !ok {
		b.WriteString("<?>")
		return
	}
	switch t.Kind {
	case KindPrimitive:
		b.WriteString(t.Prim.String())
	case KindList:
		b.WriteByte('[')
		in.mangle(b, t.Elem)
		b.WriteByte(']')
	case KindProduct, KindSum:
		sep := ", "
		if t.Kind == KindSum {
			sep = " | "
		}
		b.WriteByte('(')
		for i, item := range t.Items {
			if i > 0 {
				b.WriteString(sep)
			}
			in.mangle(b, item)
		}
		b.WriteByte(')')
	case KindFunc:
		in.mangle(b, t.In)
		b.WriteString(" -> ")
		in.mangle(b, t.Out)
	case KindBoxed:
		name, _ := in.strs.Lookup(t.Name)
		b.WriteString(name)
		for _, arg := range t.Items {
			b.WriteByte(' ')
			in.mangle(b, arg)
		}
	}
}

func typeKey(t RawType) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(t.Kind), 10))
	b.WriteByte('|')
	switch t.Kind {
	case KindPrimitive:
		b.WriteString(strconv.FormatUint(uint64(t.Prim), 10))
	case KindList:
		b.WriteString(strconv.FormatUint(uint64(t.Elem), 10))
	case KindFunc:
		b.WriteString(strconv.FormatUint(uint64(t.In), 10))
		b.WriteByte('>')
		b.WriteString(strconv.FormatUint(uint64(t.Out), 10))
	case KindBoxed:
		b.WriteString(strconv.FormatUint(uint64(t.Name), 10))
		b.WriteByte(':')
		writeIDs(&b, t.Items)
	default:
		writeIDs(&b, t.Items)
	}
	return b.String()
}

func writeIDs(b *strings.Builder, ids []TypeID) {
	for i, id := range ids {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
}
