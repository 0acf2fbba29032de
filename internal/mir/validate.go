package mir

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks Program invariants:
//  1. the entry instance has a body;
//  2. no global is left as an in-progress placeholder;
//  3. every GetGlobal targets a global with a body;
//  4. every node carries a type;
//  5. every match arm pairs aligned matcher/extractor shapes;
//  6. no closure captures a name its own parameter binds.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	var errs []error
	if _, ok := p.Global(p.Entry); !ok {
		errs = append(errs, fmt.Errorf("entry %s has no body", p.Name(p.Entry)))
	}
	for id, body := range p.Globals {
		if body == nil {
			errs = append(errs, fmt.Errorf("global %s: instantiation never completed", p.Name(id)))
			continue
		}
		if err := validateBody(p, body); err != nil {
			errs = append(errs, fmt.Errorf("global %s: %w", p.Name(id), err))
		}
	}
	return errors.Join(errs...)
}

func validateBody(p *Program, body *Expr) error {
	var errs []error
	Walk(body, func(e *Expr) bool {
		if e.Type == NoTypeID {
			errs = append(errs, fmt.Errorf("%s at %s: missing type", e.Kind, e.Span))
		}
		switch data := e.Data.(type) {
		case GlobalData:
			if _, ok := p.Global(data.Def); !ok {
				errs = append(errs, fmt.Errorf("%s at %s: dangling reference to %s", e.Kind, e.Span, p.Name(data.Def)))
			}
		case MatchData:
			for i, arm := range data.Arms {
				if !Aligned(arm.Matcher, arm.Extractor) {
					errs = append(errs, fmt.Errorf("match at %s: arm %d matcher %s does not align with its extractor", e.Span, i, arm.Matcher))
				}
			}
		case FuncData:
			bound := data.Param.Bindings()
			for _, name := range data.Env {
				if slices.Contains(bound, name) {
					errs = append(errs, fmt.Errorf("func at %s: captures its own parameter %q", e.Span, p.Ident(name)))
				}
			}
		}
		return true
	})
	return errors.Join(errs...)
}
