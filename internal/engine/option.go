package engine

// Option is one rewrite suggestion, ready for the wire. Field names follow
// the client contract.
type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	RuleName string `json:"ruleName"`

	ReplacementContentMathML      string `json:"replacementContentMathML"`
	ReplacementPresentationMathML string `json:"replacementPresentationMathML"`
}
