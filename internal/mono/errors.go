package mono

import (
	"errors"
	"fmt"
	"strings"

	"tao/internal/source"
)

// ErrEntryNotFound is returned when the configured entry symbol is not a
// definition of the program.
var ErrEntryNotFound = errors.New("entry point not found")

// ErrGenericEntry is returned when the entry definition has generic
// parameters; there is nothing to instantiate it with.
var ErrGenericEntry = errors.New("entry point is generic")

// ContractError describes HIR that a correct type checker never produces:
// an unbound generic parameter, an unknown field, an access on a value that
// is neither a record nor a single-shape data type. It is raised with panic
// and never returned as a partial result.
type ContractError struct {
	Def    string // instance being lowered, when known
	Span   source.Span
	Detail string
}

func (e *ContractError) Error() string {
	var b strings.Builder
	b.WriteString("mono: contract violation")
	if e.Def != "" {
		b.WriteString(" in ")
		b.WriteString(e.Def)
	}
	if e.Span != (source.Span{}) {
		b.WriteString(" at ")
		b.WriteString(e.Span.String())
	}
	b.WriteString(": ")
	b.WriteString(e.Detail)
	return b.String()
}

func violate(span source.Span, format string, args ...any) {
	panic(&ContractError{Span: span, Detail: fmt.Sprintf(format, args...)})
}
