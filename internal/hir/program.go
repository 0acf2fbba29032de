package hir

import (
	"fmt"

	"tao/internal/source"
	"tao/internal/types"
)

// Def is a global definition, possibly generic over Generics.
type Def struct {
	Name     source.StringID
	Generics []source.StringID
	Body     *Expr
	Span     source.Span
}

// Program is a whole typed program: its definitions, its data types and the
// string table both refer to.
type Program struct {
	Strings *source.Interner
	Data    *types.DataCtx

	defs  map[source.StringID]*Def
	order []source.StringID
}

func NewProgram(strs *source.Interner, data *types.DataCtx) *Program {
	if strs == nil {
		strs = source.NewInterner()
	}
	if data == nil {
		data = types.NewDataCtx()
	}
	return &Program{
		Strings: strs,
		Data:    data,
		defs:    make(map[source.StringID]*Def),
	}
}

// AddDef registers a definition; names must be unique.
func (p *Program) AddDef(def *Def) error {
	if def == nil {
		return fmt.Errorf("hir: nil definition")
	}
	if _, dup := p.defs[def.Name]; dup {
		return fmt.Errorf("hir: duplicate definition %q", p.Strings.MustLookup(def.Name))
	}
	p.defs[def.Name] = def
	p.order = append(p.order, def.Name)
	return nil
}

// Def looks up a definition by name.
func (p *Program) Def(name source.StringID) (*Def, bool) {
	def, ok := p.defs[name]
	return def, ok
}

// Defs returns definitions in insertion order.
func (p *Program) Defs() []*Def {
	out := make([]*Def, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.defs[name])
	}
	return out
}

// Name is a convenience for rendering interned identifiers.
func (p *Program) Name(id source.StringID) string {
	s, _ := p.Strings.Lookup(id)
	return s
}
