package mono

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"tao/internal/hir"
	"tao/internal/mir"
)

// verifyInstances checks what lowering guarantees by construction: no
// instance is left in progress, every instance has as many type arguments
// as its definition has generic parameters, every interned type refers only
// to interned types and every boxed type has a payload layout.
func verifyInstances(p *mir.Program, src *hir.Program) error {
	var errs []error
	for id, body := range p.Globals {
		name := p.Name(id)
		if body == nil {
			errs = append(errs, fmt.Errorf("mono: %s is still in progress", name))
		}
		inst, ok := p.Defs.Lookup(id)
		if !ok {
			errs = append(errs, fmt.Errorf("mono: global #%d has no identity", id))
			continue
		}
		def, ok := src.Def(inst.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("mono: %s has no definition", name))
			continue
		}
		if len(def.Generics) != len(inst.Args) {
			errs = append(errs, fmt.Errorf("mono: %s has %d type arguments for %d parameters", name, len(inst.Args), len(def.Generics)))
		}
	}

	n, err := safecast.Conv[uint32](p.Types.Len())
	if err != nil {
		return fmt.Errorf("mono: too many types: %w", err)
	}
	for id := mir.TypeID(1); id <= mir.TypeID(n); id++ {
		t := p.Types.MustLookup(id)
		if err := typeIsClosed(p.Types, t); err != nil {
			errs = append(errs, fmt.Errorf("mono: type#%d: %w", id, err))
		}
		if t.Kind != mir.KindBoxed {
			continue
		}
		if payload, ok := p.Boxes[id]; !ok || payload == mir.NoTypeID {
			errs = append(errs, fmt.Errorf("mono: boxed type %s has no payload layout", p.Types.Mangle(id)))
		}
	}
	return errors.Join(errs...)
}

func typeIsClosed(typesIn *mir.TypeInterner, t mir.RawType) error {
	var refs []mir.TypeID
	switch t.Kind {
	case mir.KindPrimitive:
	case mir.KindList:
		refs = append(refs, t.Elem)
	case mir.KindFunc:
		refs = append(refs, t.In, t.Out)
	case mir.KindProduct, mir.KindSum, mir.KindBoxed:
		refs = append(refs, t.Items...)
	default:
		return fmt.Errorf("invalid kind %s", t.Kind)
	}
	for _, ref := range refs {
		if _, ok := typesIn.Lookup(ref); !ok {
			return fmt.Errorf("refers to unknown type#%d", ref)
		}
	}
	return nil
}
