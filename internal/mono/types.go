package mono

import (
	"tao/internal/mir"
	"tao/internal/source"
	"tao/internal/types"
)

// resolver maps a generic parameter name to its concrete type.
type resolver func(name source.StringID) mir.TypeID

// bindGenerics builds a resolver over params paired positionally with args.
func (b *builder) bindGenerics(owner string, params []source.StringID, args []mir.TypeID) resolver {
	if len(params) != len(args) {
		violate(source.Span{}, "%s expects %d type arguments, got %d", owner, len(params), len(args))
	}
	bound := make(map[source.StringID]mir.TypeID, len(params))
	for i, name := range params {
		bound[name] = args[i]
	}
	return func(name source.StringID) mir.TypeID {
		if id, ok := bound[name]; ok {
			return id
		}
		violate(source.Span{}, "generic parameter %q is not bound in %s", b.src.Name(name), owner)
		return mir.NoTypeID
	}
}

func (b *builder) instantiateType(t *types.Type, resolve resolver) mir.TypeID {
	if t == nil {
		violate(source.Span{}, "missing type")
	}
	switch t.Kind {
	case types.KindPrimitive:
		return b.types.Primitive(t.Prim)
	case types.KindGenParam:
		return resolve(t.Param)
	case types.KindTuple:
		return b.types.Product(b.instantiateTypes(t.Elems, resolve)...)
	case types.KindRecord:
		items := make([]mir.TypeID, 0, len(t.Fields))
		for _, f := range t.Fields {
			items = append(items, b.instantiateType(f.Type, resolve))
		}
		return b.types.Product(items...)
	case types.KindList:
		return b.types.List(b.instantiateType(t.Elem, resolve))
	case types.KindFunc:
		in := b.instantiateType(t.In, resolve)
		return b.types.Func(in, b.instantiateType(t.Out, resolve))
	case types.KindData:
		return b.instantiateData(t.Data, b.instantiateTypes(t.Args, resolve))
	}
	violate(source.Span{}, "unknown type kind %s", t.Kind)
	return mir.NoTypeID
}

func (b *builder) instantiateTypes(ts []*types.Type, resolve resolver) []mir.TypeID {
	if len(ts) == 0 {
		return nil
	}
	out := make([]mir.TypeID, 0, len(ts))
	for _, t := range ts {
		out = append(out, b.instantiateType(t, resolve))
	}
	return out
}

// instantiateData lowers a data type reference whose arguments are already
// concrete. One variant needs no discriminant and stays a single Boxed type;
// otherwise each variant becomes a Boxed "Type::Variant" member of a Sum.
func (b *builder) instantiateData(id types.DataID, args []mir.TypeID) mir.TypeID {
	def := b.src.Data.Get(id)
	name := b.src.Name(def.Name)
	if len(def.Generics) != len(args) {
		violate(source.Span{}, "data type %s expects %d type arguments, got %d", name, len(def.Generics), len(args))
	}
	if len(def.Variants) == 1 {
		boxed := b.types.Boxed(name, args...)
		b.recordBox(boxed, def, 0, args)
		return boxed
	}
	members := make([]mir.TypeID, 0, len(def.Variants))
	for i, v := range def.Variants {
		boxed := b.types.Boxed(name+"::"+b.src.Name(v.Name), args...)
		b.recordBox(boxed, def, i, args)
		members = append(members, boxed)
	}
	return b.types.Sum(members...)
}

// recordBox stores the payload layout of a boxed type once. The entry is
// reserved before the payload is instantiated so that recursive data types
// stop at their own box.
func (b *builder) recordBox(boxed mir.TypeID, def *types.DataDef, variant int, args []mir.TypeID) {
	if _, seen := b.out.Boxes[boxed]; seen {
		return
	}
	b.out.Boxes[boxed] = mir.NoTypeID
	local := b.bindGenerics(b.src.Name(def.Name), def.Generics, args)
	b.out.Boxes[boxed] = b.instantiateType(def.Variants[variant].Type, local)
}
