package testkit

import (
	"errors"
	"fmt"

	"tao/internal/mir"
)

// CheckLowered runs mir.Validate and then checks that node types agree with
// node shapes:
// 1) a tuple is typed as a product of the same arity
// 2) a list is typed as a list, a closure as a function
// 3) access and update indices are within the record's product arity
func CheckLowered(p *mir.Program) error {
	if p == nil {
		return fmt.Errorf("nil program")
	}
	if err := mir.Validate(p); err != nil {
		return err
	}
	var errs []error
	for _, g := range p.Sorted() {
		mir.Walk(g.Body, func(e *mir.Expr) bool {
			if err := checkNode(p, e); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s at %s: %w", p.Name(g.ID), e.Kind, e.Span, err))
			}
			return true
		})
	}
	return errors.Join(errs...)
}

func checkNode(p *mir.Program, e *mir.Expr) error {
	t := p.Types.MustLookup(e.Type)
	switch data := e.Data.(type) {
	case mir.TupleData:
		if t.Kind != mir.KindProduct {
			return fmt.Errorf("tuple typed as %s", p.Types.Mangle(e.Type))
		}
		if len(t.Items) != len(data.Items) {
			return fmt.Errorf("tuple of %d items typed as %s", len(data.Items), p.Types.Mangle(e.Type))
		}
	case mir.ListData:
		if t.Kind != mir.KindList {
			return fmt.Errorf("list typed as %s", p.Types.Mangle(e.Type))
		}
	case mir.FuncData:
		if t.Kind != mir.KindFunc {
			return fmt.Errorf("closure typed as %s", p.Types.Mangle(e.Type))
		}
	case mir.AccessData:
		return checkIndex(p, data.Record, data.Index)
	case mir.UpdateData:
		return checkIndex(p, data.Record, data.Index)
	}
	return nil
}

func checkIndex(p *mir.Program, record *mir.Expr, index int) error {
	t := p.Types.MustLookup(record.Type)
	if t.Kind == mir.KindBoxed {
		t = p.Types.MustLookup(p.Boxes[record.Type])
	}
	if t.Kind != mir.KindProduct {
		return fmt.Errorf("field of non-product %s", p.Types.Mangle(record.Type))
	}
	if index < 0 || index >= len(t.Items) {
		return fmt.Errorf("field index %d out of range for %s", index, p.Types.Mangle(record.Type))
	}
	return nil
}
