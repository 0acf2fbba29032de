package mir

import (
	"fmt"
	"slices"

	"tao/internal/source"
)

// Program is the output of monomorphization: the entry instance and one
// lowered body per reachable instance.
type Program struct {
	Entry   DefID
	Globals map[DefID]*Expr
	// Boxes maps every boxed type the program mentions to its payload layout.
	Boxes map[TypeID]TypeID

	Types   *TypeInterner
	Defs    *DefTable
	Strings *source.Interner
}

// Global is one entry of Program.Sorted.
type Global struct {
	ID   DefID
	Body *Expr
}

// Sorted returns the globals ordered by DefID, which is instantiation order.
// A missing body means instantiation never completed and is a bug.
func (p *Program) Sorted() []Global {
	ids := make([]DefID, 0, len(p.Globals))
	for id := range p.Globals {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Global, 0, len(ids))
	for _, id := range ids {
		body := p.Globals[id]
		if body == nil {
			panic(fmt.Sprintf("mir: global %s has no body", p.Name(id)))
		}
		out = append(out, Global{ID: id, Body: body})
	}
	return out
}

// Global returns the body of id.
func (p *Program) Global(id DefID) (*Expr, bool) {
	body, ok := p.Globals[id]
	return body, ok && body != nil
}

// Name renders id for humans.
func (p *Program) Name(id DefID) string {
	return p.Defs.Render(id, p.Types)
}

// Ident renders an interned identifier.
func (p *Program) Ident(id source.StringID) string {
	s, _ := p.Strings.Lookup(id)
	return s
}
