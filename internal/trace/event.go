package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Coarser scopes have smaller values.
type Scope uint8

const (
	// ScopeRun covers a whole batch of files.
	ScopeRun Scope = iota + 1
	// ScopeStage covers one stage (load, lower, validate, dump) of a file,
	// or the lowering pass itself.
	ScopeStage
	// ScopeFile covers everything done for one input file.
	ScopeFile
	// ScopeInstance covers the lowering of one definition instance.
	ScopeInstance
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeStage:
		return "stage"
	case ScopeFile:
		return "file"
	case ScopeInstance:
		return "inst"
	default:
		return "unknown"
	}
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the sink, increasing
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	File     string // input file the event belongs to, if any
	Name     string
	Detail   string
	Extra    map[string]string
}
