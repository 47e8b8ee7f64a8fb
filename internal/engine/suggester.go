package engine

import (
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/adapter"
	"github.com/roach88/mathrw/internal/algebra"
	"github.com/roach88/mathrw/internal/mathml"
	"github.com/roach88/mathrw/internal/rules"
)

// Suggester runs catalog matching and the algorithmic generators. Construct
// one at startup with the loaded catalog and share it across requests; it
// holds no mutable state.
type Suggester struct {
	catalog *rules.Catalog
	logger  *zap.Logger
}

// NewSuggester builds a Suggester around an immutable catalog.
func NewSuggester(catalog *rules.Catalog, logger *zap.Logger) *Suggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{catalog: catalog, logger: logger}
}

// CatalogLen reports how many rules the suggester matches against.
func (s *Suggester) CatalogLen() int { return s.catalog.Len() }

// candidate is a suggestion before rendering and deduplication.
type candidate struct {
	id          string
	label       string
	ruleName    string
	priority    int
	alwaysShow  bool
	replacement algebra.Expr
}

// Suggest generates rewrite options for the target expression. Catalog
// rules run first, in definition order and in both directions, then the
// generators; the combined list is deduplicated by rendered structural
// markup with rule priority breaking ties.
func (s *Suggester) Suggest(target algebra.Expr, assumptions map[string]string) []Option {
	var cands []candidate
	for _, r := range s.catalog.Rules() {
		if c, ok := s.matchDirection(r, target, assumptions, r.LeftPattern, r.RightTemplate, r.Name+"_forward", r.Label); ok {
			cands = append(cands, c)
		}
		if c, ok := s.matchDirection(r, target, assumptions, r.RightPattern, r.LeftTemplate, r.Name+"_reverse", r.Label+" (reverse)"); ok {
			cands = append(cands, c)
		}
	}
	cands = append(cands, s.completeSquare(target)...)
	cands = append(cands, s.conjugateDistributivity(target)...)
	cands = append(cands, s.evaluateDerivative(target)...)

	return s.renderAndDedup(target, cands)
}

// matchDirection attempts one direction of one rule. A failed match or a
// rejected guard is a normal negative result.
func (s *Suggester) matchDirection(r *rules.Rule, target algebra.Expr, assumptions map[string]string, pattern, template algebra.Expr, id, label string) (candidate, bool) {
	b, ok := algebra.Match(pattern, target)
	if !ok {
		return candidate{}, false
	}
	if !r.Allowed(b, assumptions) {
		return candidate{}, false
	}
	replacement := r.Normalize(algebra.Instantiate(template, b))
	return candidate{
		id:          id,
		label:       label,
		ruleName:    r.Name,
		priority:    r.Priority,
		alwaysShow:  r.AlwaysShow(),
		replacement: replacement,
	}, true
}

// renderAndDedup drops structural no-ops (unless always-show), renders each
// surviving candidate, and deduplicates by exact structural markup. On a
// duplicate key, the higher-priority rule's option replaces the earlier one
// in place, so surviving order stays stable.
func (s *Suggester) renderAndDedup(target algebra.Expr, cands []candidate) []Option {
	var options []Option
	index := map[string]int{}
	for _, c := range cands {
		if c.replacement.Equal(target) && !c.alwaysShow {
			continue
		}
		content := mathml.RenderContent(adapter.FromExpr(c.replacement))
		opt := Option{
			ID:                            c.id,
			Label:                         c.label,
			RuleName:                      c.ruleName,
			ReplacementContentMathML:      content,
			ReplacementPresentationMathML: mathml.RenderPresentation(c.replacement),
		}
		if i, seen := index[content]; seen {
			if c.priority > rules.PriorityFor(options[i].RuleName) {
				options[i] = opt
			}
			continue
		}
		index[content] = len(options)
		options = append(options, opt)
	}
	return options
}
