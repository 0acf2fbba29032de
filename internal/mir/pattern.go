package mir

import (
	"strings"

	"tao/internal/ast"
	"tao/internal/source"
)

// MatcherKind enumerates refutability tests.
type MatcherKind uint8

const (
	MatcherWildcard MatcherKind = iota
	MatcherExactly
	MatcherProduct
	MatcherList
	MatcherListFront
)

// Matcher tests whether a value has a pattern's shape. It never binds.
type Matcher struct {
	Kind  MatcherKind
	Value ast.Literal // MatcherExactly
	Items []Matcher   // Product fields, List elements, ListFront prefix
}

var Wildcard = Matcher{Kind: MatcherWildcard}

func Exactly(v ast.Literal) Matcher { return Matcher{Kind: MatcherExactly, Value: v} }

// IsRefutable reports whether the test can fail at runtime. A List matcher
// always checks the length, so it is refutable even with no elements; a
// ListFront with an empty prefix accepts every list.
func (m Matcher) IsRefutable() bool {
	switch m.Kind {
	case MatcherWildcard:
		return false
	case MatcherExactly:
		return true
	case MatcherProduct:
		for _, item := range m.Items {
			if item.IsRefutable() {
				return true
			}
		}
		return false
	case MatcherList:
		return true
	case MatcherListFront:
		return len(m.Items) != 0
	}
	return false
}

func (m Matcher) String() string {
	var b strings.Builder
	m.write(&b)
	return b.String()
}

func (m Matcher) write(b *strings.Builder) {
	switch m.Kind {
	case MatcherWildcard:
		b.WriteByte('_')
	case MatcherExactly:
		b.WriteByte('=')
		b.WriteString(m.Value.String())
	case MatcherProduct:
		b.WriteByte('(')
		writeMatchers(b, m.Items)
		b.WriteByte(')')
	case MatcherList:
		b.WriteByte('[')
		writeMatchers(b, m.Items)
		b.WriteByte(']')
	case MatcherListFront:
		b.WriteByte('[')
		writeMatchers(b, m.Items)
		if len(m.Items) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("..]")
	}
}

func writeMatchers(b *strings.Builder, items []Matcher) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		item.write(b)
	}
}

// ExtractorKind enumerates binding extraction shapes.
type ExtractorKind uint8

const (
	ExtractJust ExtractorKind = iota
	ExtractProduct
	ExtractList
	ExtractListFront
)

// Extractor describes which names to bind from a value's shape, independent
// of whether the value matched. source.NoStringID means "no name".
type Extractor struct {
	Kind  ExtractorKind
	Name  source.StringID // binding for the whole value
	Items []Extractor
	Tail  source.StringID // ExtractListFront remainder
}

func Just(name source.StringID) Extractor { return Extractor{Kind: ExtractJust, Name: name} }

// ExtractsAnything reports whether any node binds a name.
func (e Extractor) ExtractsAnything() bool {
	if e.Name != source.NoStringID || e.Tail != source.NoStringID {
		return true
	}
	for _, item := range e.Items {
		if item.ExtractsAnything() {
			return true
		}
	}
	return false
}

// Bindings flattens bound names in pre-order: the node's own name, then its
// tail name, then its children in order.
func (e Extractor) Bindings() []source.StringID {
	var out []source.StringID
	e.collect(&out)
	return out
}

func (e Extractor) collect(out *[]source.StringID) {
	if e.Name != source.NoStringID {
		*out = append(*out, e.Name)
	}
	if e.Tail != source.NoStringID {
		*out = append(*out, e.Tail)
	}
	for _, item := range e.Items {
		item.collect(out)
	}
}

// Aligned reports whether m and e have corresponding shapes: leaves pair
// with Just, and composite nodes pair with the same composite kind and arity.
func Aligned(m Matcher, e Extractor) bool {
	switch m.Kind {
	case MatcherWildcard, MatcherExactly:
		return e.Kind == ExtractJust
	case MatcherProduct:
		if e.Kind != ExtractProduct {
			return false
		}
	case MatcherList:
		if e.Kind != ExtractList {
			return false
		}
	case MatcherListFront:
		if e.Kind != ExtractListFront {
			return false
		}
	default:
		return false
	}
	if len(m.Items) != len(e.Items) {
		return false
	}
	for i := range m.Items {
		if !Aligned(m.Items[i], e.Items[i]) {
			return false
		}
	}
	return true
}
