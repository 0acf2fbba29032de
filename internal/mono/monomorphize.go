// Package mono lowers a generic HIR program into monomorphic MIR. Every
// definition reachable from the entry point is instantiated once per
// distinct list of concrete type arguments.
package mono

import (
	"context"
	"fmt"
	"strconv"

	"tao/internal/hir"
	"tao/internal/mir"
	"tao/internal/source"
	"tao/internal/trace"
)

const DefaultEntry = "main"

type Options struct {
	// Entry names the non-generic definition lowering starts from.
	Entry string
	// Recorder, if set, observes every global reference.
	Recorder Recorder
}

// Lower instantiates opt.Entry and everything it reaches. A missing entry
// point is reported as an error wrapping ErrEntryNotFound; malformed HIR
// panics with *ContractError.
func Lower(ctx context.Context, prog *hir.Program, opt Options) (*mir.Program, error) {
	if prog == nil {
		return nil, fmt.Errorf("mono: nil program")
	}
	entry := opt.Entry
	if entry == "" {
		entry = DefaultEntry
	}

	ctx, span := trace.Start(ctx, trace.ScopeStage, "mono")
	b := newBuilder(prog, opt, trace.FromContext(ctx), trace.CurrentSpan(ctx))
	defer b.annotate()

	name := prog.Strings.Intern(entry)
	def, ok := prog.Def(name)
	if !ok {
		span.End("entry not found")
		return nil, fmt.Errorf("mono: cannot find entry point %q: %w", entry, ErrEntryNotFound)
	}
	if len(def.Generics) > 0 {
		span.End("generic entry")
		return nil, fmt.Errorf("mono: entry point %q has %d type parameters: %w", entry, len(def.Generics), ErrGenericEntry)
	}
	b.out.Entry = b.ensureDef(name, nil, def.Span)

	if err := verifyInstances(b.out, prog); err != nil {
		span.End("invalid")
		return nil, err
	}
	span.WithExtra("globals", strconv.Itoa(len(b.out.Globals))).
		WithExtra("types", strconv.Itoa(b.types.Len()))
	span.End("")
	return b.out, nil
}

// builder owns the state of one lowering run. A DefID present in
// out.Globals with a nil body is in progress; references to it resolve to
// the same DefID without re-entering instantiation.
type builder struct {
	src   *hir.Program
	out   *mir.Program
	types *mir.TypeInterner
	defs  *mir.DefTable
	rec   Recorder

	tracer trace.Tracer
	parent trace.SpanContext

	// current is the instance whose body is being lowered
	current mir.DefID
}

func newBuilder(prog *hir.Program, opt Options, tracer trace.Tracer, parent trace.SpanContext) *builder {
	typesIn := mir.NewTypeInterner(prog.Strings)
	defs := mir.NewDefTable()
	return &builder{
		src:   prog,
		types: typesIn,
		defs:  defs,
		rec:   opt.Recorder,
		out: &mir.Program{
			Globals: make(map[mir.DefID]*mir.Expr),
			Boxes:   make(map[mir.TypeID]mir.TypeID),
			Types:   typesIn,
			Defs:    defs,
			Strings: prog.Strings,
		},
		tracer: tracer,
		parent: parent,
	}
}

// ensureDef returns the instance of name at args, lowering its body first
// if this is the first request for it.
func (b *builder) ensureDef(name source.StringID, args []mir.TypeID, site source.Span) mir.DefID {
	id, _ := b.defs.Intern(name, args)
	if b.rec != nil && b.current != mir.NoDefID {
		b.rec.RecordUse(id, site, b.current)
	}
	if _, started := b.out.Globals[id]; started {
		return id
	}
	b.out.Globals[id] = nil

	def, ok := b.src.Def(name)
	if !ok {
		violate(site, "reference to unknown definition %q", b.src.Name(name))
	}
	label := b.defs.Render(id, b.types)
	resolve := b.bindGenerics(label, def.Generics, args)

	span := trace.Begin(b.tracer, trace.ScopeInstance, label, b.parent)
	outer, outerParent := b.current, b.parent
	b.current, b.parent = id, span.Context()

	body := b.lowerExpr(def.Body, resolve)

	b.current, b.parent = outer, outerParent
	span.End("")
	b.out.Globals[id] = body
	return id
}

// annotate attaches the instance being lowered to a ContractError raised
// below it and lets the panic continue.
func (b *builder) annotate() {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*ContractError); ok && ce.Def == "" && b.current != mir.NoDefID {
		ce.Def = b.defs.Render(b.current, b.types)
	}
	panic(r)
}
