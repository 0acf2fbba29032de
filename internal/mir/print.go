package mir

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"tao/internal/source"
)

// DumpOptions configures Program dumping.
type DumpOptions struct {
	// TypeColumn aligns node types at this display column; 0 disables it.
	TypeColumn int
	// Spans appends source spans to every node.
	Spans bool
}

// Dump writes a deterministic, human-readable rendering of p.
func Dump(w io.Writer, p *Program, opt DumpOptions) error {
	if w == nil || p == nil {
		return nil
	}
	d := &dumper{p: p, opt: opt}
	d.line(0, "entry "+p.Name(p.Entry), NoTypeID, nil)
	d.line(0, fmt.Sprintf("globals=%d", len(p.Globals)), NoTypeID, nil)
	for _, g := range p.Sorted() {
		d.b.WriteByte('\n')
		d.line(0, "def "+p.Name(g.ID), g.Body.Type, nil)
		d.expr(1, g.Body)
	}
	if len(p.Boxes) > 0 {
		d.b.WriteString("\nboxes:\n")
		for _, id := range sortedTypeKeys(p.Boxes) {
			d.line(1, p.Types.Mangle(id)+" = "+p.Types.Mangle(p.Boxes[id]), NoTypeID, nil)
		}
	}
	_, err := io.WriteString(w, d.b.String())
	return err
}

type dumper struct {
	p   *Program
	opt DumpOptions
	b   strings.Builder
}

func (d *dumper) line(depth int, head string, ty TypeID, e *Expr) {
	text := strings.Repeat("  ", depth) + head
	if ty != NoTypeID {
		if d.opt.TypeColumn > 0 {
			if pad := d.opt.TypeColumn - runewidth.StringWidth(text); pad > 0 {
				text += strings.Repeat(" ", pad)
			}
		}
		text += " : " + d.p.Types.Mangle(ty)
	}
	if d.opt.Spans && e != nil {
		text += " @" + e.Span.String()
	}
	d.b.WriteString(text)
	d.b.WriteByte('\n')
}

func (d *dumper) expr(depth int, e *Expr) {
	if e == nil {
		d.line(depth, "<nil>", NoTypeID, nil)
		return
	}
	switch data := e.Data.(type) {
	case LiteralData:
		d.line(depth, "lit "+data.Value.String(), e.Type, e)
	case GlobalData:
		d.line(depth, "global "+d.p.Name(data.Def), e.Type, e)
	case LocalData:
		d.line(depth, "local "+d.p.Ident(data.Name), e.Type, e)
	case IntrinsicData:
		d.line(depth, "intrinsic "+data.Op.String(), e.Type, e)
		d.children(depth+1, data.Args)
	case UnaryData:
		d.line(depth, "unary "+data.Op.String(), e.Type, e)
		d.expr(depth+1, data.Operand)
	case BinaryData:
		d.line(depth, "binary "+data.Op.String(), e.Type, e)
		d.expr(depth+1, data.Left)
		d.expr(depth+1, data.Right)
	case TupleData:
		d.line(depth, "tuple", e.Type, e)
		d.children(depth+1, data.Items)
	case ListData:
		d.line(depth, "list", e.Type, e)
		d.children(depth+1, data.Items)
	case ApplyData:
		d.line(depth, "apply", e.Type, e)
		d.expr(depth+1, data.Func)
		d.expr(depth+1, data.Arg)
	case AccessData:
		d.line(depth, fmt.Sprintf("access .%d", data.Index), e.Type, e)
		d.expr(depth+1, data.Record)
	case UpdateData:
		d.line(depth, fmt.Sprintf("update .%d %s", data.Index, d.p.Ident(data.Field)), e.Type, e)
		d.expr(depth+1, data.Record)
		d.expr(depth+1, data.Value)
	case FuncData:
		d.line(depth, fmt.Sprintf("func %s env=%s", d.extractor(data.Param), d.names(data.Env)), e.Type, e)
		d.expr(depth+1, data.Body)
	case MatchData:
		d.line(depth, "match", e.Type, e)
		d.expr(depth+1, data.Scrutinee)
		for _, arm := range data.Arms {
			d.line(depth+1, fmt.Sprintf("arm %s => %s", arm.Matcher, d.extractor(arm.Extractor)), NoTypeID, nil)
			d.expr(depth+2, arm.Body)
		}
	default:
		d.line(depth, e.Kind.String(), e.Type, e)
	}
}

func (d *dumper) children(depth int, items []*Expr) {
	for _, item := range items {
		d.expr(depth, item)
	}
}

func (d *dumper) extractor(e Extractor) string {
	var b strings.Builder
	d.writeExtractor(&b, e)
	return b.String()
}

func (d *dumper) writeExtractor(b *strings.Builder, e Extractor) {
	if e.Kind == ExtractJust {
		if e.Name == source.NoStringID {
			b.WriteByte('_')
		} else {
			b.WriteString(d.p.Ident(e.Name))
		}
		return
	}
	if e.Name != source.NoStringID {
		b.WriteString(d.p.Ident(e.Name))
		b.WriteByte('@')
	}
	open, closing := "(", ")"
	if e.Kind != ExtractProduct {
		open, closing = "[", "]"
	}
	b.WriteString(open)
	for i, item := range e.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		d.writeExtractor(b, item)
	}
	if e.Kind == ExtractListFront {
		if len(e.Items) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("..")
		if e.Tail != source.NoStringID {
			b.WriteString(d.p.Ident(e.Tail))
		}
	}
	b.WriteString(closing)
}

func (d *dumper) names(ids []source.StringID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, d.p.Ident(id))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func sortedTypeKeys(m map[TypeID]TypeID) []TypeID {
	keys := make([]TypeID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
