package engine

import (
	"go.uber.org/zap"

	"github.com/roach88/mathrw/internal/adapter"
	"github.com/roach88/mathrw/internal/ast"
	"github.com/roach88/mathrw/internal/mathml"
)

// SuggestMarkup is the markup-level entry point the transport layer
// consumes: parse the structural markup, resolve the selected node, and
// generate options for it.
//
// An unparseable document is the caller's error and propagates as a
// *mathml.ParseError. An unknown selectedNodeID is not an error: the whole
// expression becomes the target.
func (s *Suggester) SuggestMarkup(contentMathML, selectedNodeID string, assumptions map[string]string) ([]Option, error) {
	parsed, err := mathml.Parse(contentMathML)
	if err != nil {
		return nil, err
	}
	tree := ast.AssignIDs(parsed)

	target := ast.FindByID(tree, selectedNodeID)
	if target == nil {
		s.logger.Debug("selected node not found, using whole expression",
			zap.String("selectedNodeId", selectedNodeID))
		target = tree
	}

	options := s.Suggest(adapter.ToExpr(target), assumptions)
	s.logger.Debug("generated rewrite options",
		zap.String("targetId", target.ID()),
		zap.Int("options", len(options)))
	return options, nil
}
