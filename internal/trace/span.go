package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// SpanContext identifies the innermost recorded span. Spans that are not
// recorded at the current level pass their parent's context through, so
// children attach to the nearest recorded ancestor.
type SpanContext struct {
	SpanID uint64
	File   string
}

type tracerKey struct{}
type spanKey struct{}

// WithTracer attaches t to ctx. A nil t is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithSpanContext attaches sc to ctx.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey{}, sc)
}

// CurrentSpan returns the span context stored in ctx.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// Start begins a span under the span in ctx and returns a context that
// carries it.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx))
	return WithSpanContext(ctx, s.Context()), s
}

// StartFile begins the span for one input file. Events below it carry path.
func StartFile(ctx context.Context, path string) (context.Context, *Span) {
	parent := CurrentSpan(ctx)
	parent.File = path
	s := Begin(FromContext(ctx), ScopeFile, "file", parent)
	return WithSpanContext(ctx, s.Context()), s
}

// Span is an open span. Its methods are no-ops on spans that are not
// recorded.
type Span struct {
	tracer  Tracer
	ctx     SpanContext
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin emits the begin event of a span under parent.
func Begin(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{ctx: parent}
	}
	s := &Span{
		tracer:  t,
		ctx:     SpanContext{SpanID: spanIDs.Add(1), File: parent.File},
		parent:  parent.SpanID,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.ctx.SpanID,
		ParentID: s.parent,
		File:     s.ctx.File,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindEnd {
		ev.Extra = s.extra
	}
	return ev
}

func (s *Span) recorded() bool { return s != nil && s.tracer != nil }

// Context returns the context children of s should use.
func (s *Span) Context() SpanContext {
	if s == nil {
		return SpanContext{}
	}
	return s.ctx
}

// ID returns the span ID, 0 when the span is not recorded.
func (s *Span) ID() uint64 {
	if !s.recorded() {
		return 0
	}
	return s.ctx.SpanID
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.recorded() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.recorded() {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindEnd, now, detail))
	return now.Sub(s.started)
}

// EndErr ends the span with err as its detail.
func (s *Span) EndErr(err error) time.Duration {
	if err != nil {
		return s.End(err.Error())
	}
	return s.End("")
}

// Point emits an instant event under the span in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	sc := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: sc.SpanID,
		File:     sc.File,
		Name:     name,
		Detail:   detail,
	})
}
