// Package trace records a tao run as nested spans: the run itself, one span
// per input file, one per stage of that file and, at the debug level, one
// per instantiated definition.
//
//	tao lower --trace=- --trace-level=detail prog.toml
//
// A tracer travels in the context. Start reads the tracer and the enclosing
// span from ctx and returns a context carrying the new span:
//
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "lower")
//	defer span.End("")
//
// Sinks: Nop drops everything, StreamTracer writes each event as it happens,
// RingTracer keeps the last N events and writes them on Close, MultiTracer
// feeds several sinks.
package trace
