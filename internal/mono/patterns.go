package mono

import (
	"tao/internal/ast"
	"tao/internal/hir"
	"tao/internal/mir"
	"tao/internal/source"
	"tao/internal/types"
)

// compileMatcher builds the refutability test of a pattern.
func compileMatcher(reg *types.DataCtx, p *hir.Binding) mir.Matcher {
	if p == nil {
		violate(source.Span{}, "missing pattern")
	}
	switch data := p.Data.(type) {
	case nil:
		return mir.Wildcard
	case hir.LiteralPat:
		return mir.Exactly(data.Value)
	case hir.TuplePat:
		return mir.Matcher{Kind: mir.MatcherProduct, Items: compileMatchers(reg, data.Items)}
	case hir.RecordPat:
		items := make([]mir.Matcher, 0, len(data.Fields))
		for _, f := range data.Fields {
			items = append(items, compileMatcher(reg, f.Binding))
		}
		return mir.Matcher{Kind: mir.MatcherProduct, Items: items}
	case hir.ListPat:
		return mir.Matcher{Kind: mir.MatcherList, Items: compileMatchers(reg, data.Items)}
	case hir.ListFrontPat:
		return mir.Matcher{Kind: mir.MatcherListFront, Items: compileMatchers(reg, data.Items)}
	case hir.DeconstructPat:
		variants := variantCount(reg, data.Data, data.Variant, p.Span)
		inner := compileMatcher(reg, data.Inner)
		if variants == 1 {
			return inner
		}
		return mir.Matcher{
			Kind:  mir.MatcherProduct,
			Items: []mir.Matcher{mir.Exactly(tagLiteral(data.Variant)), inner},
		}
	}
	violate(p.Span, "unsupported pattern %s", p.Kind)
	return mir.Wildcard
}

func compileMatchers(reg *types.DataCtx, ps []*hir.Binding) []mir.Matcher {
	out := make([]mir.Matcher, 0, len(ps))
	for _, p := range ps {
		out = append(out, compileMatcher(reg, p))
	}
	return out
}

// compileExtractor builds the binding plan of a pattern. Its shape mirrors
// compileMatcher node for node.
func compileExtractor(reg *types.DataCtx, p *hir.Binding) mir.Extractor {
	if p == nil {
		violate(source.Span{}, "missing pattern")
	}
	switch data := p.Data.(type) {
	case nil, hir.LiteralPat:
		return mir.Just(p.Name)
	case hir.TuplePat:
		return mir.Extractor{Kind: mir.ExtractProduct, Name: p.Name, Items: compileExtractors(reg, data.Items)}
	case hir.RecordPat:
		items := make([]mir.Extractor, 0, len(data.Fields))
		for _, f := range data.Fields {
			items = append(items, compileExtractor(reg, f.Binding))
		}
		return mir.Extractor{Kind: mir.ExtractProduct, Name: p.Name, Items: items}
	case hir.ListPat:
		return mir.Extractor{Kind: mir.ExtractList, Name: p.Name, Items: compileExtractors(reg, data.Items)}
	case hir.ListFrontPat:
		return mir.Extractor{
			Kind:  mir.ExtractListFront,
			Name:  p.Name,
			Items: compileExtractors(reg, data.Items),
			Tail:  data.Tail,
		}
	case hir.DeconstructPat:
		variants := variantCount(reg, data.Data, data.Variant, p.Span)
		inner := compileExtractor(reg, data.Inner)
		if variants == 1 {
			// the inner value is the whole value, so a name on the
			// constructor pattern lands on the inner node unless the
			// inner pattern already names it
			if inner.Name == source.NoStringID {
				inner.Name = p.Name
			}
			return inner
		}
		return mir.Extractor{
			Kind:  mir.ExtractProduct,
			Name:  p.Name,
			Items: []mir.Extractor{mir.Just(source.NoStringID), inner},
		}
	}
	violate(p.Span, "unsupported pattern %s", p.Kind)
	return mir.Extractor{}
}

func compileExtractors(reg *types.DataCtx, ps []*hir.Binding) []mir.Extractor {
	out := make([]mir.Extractor, 0, len(ps))
	for _, p := range ps {
		out = append(out, compileExtractor(reg, p))
	}
	return out
}

// variantCount returns the number of variants of id after checking that
// variant is one of them.
func variantCount(reg *types.DataCtx, id types.DataID, variant int, span source.Span) int {
	def := reg.Get(id)
	if variant < 0 || variant >= len(def.Variants) {
		violate(span, "data type has no variant #%d", variant)
	}
	return len(def.Variants)
}

// tagLiteral is the runtime discriminant of a variant: its declaration index.
func tagLiteral(variant int) ast.Literal {
	return ast.Number(float64(variant))
}
