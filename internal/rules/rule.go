package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/mathrw/internal/algebra"
	"github.com/roach88/mathrw/internal/ast"
)

// Rule is one compiled bidirectional rewrite rule. Templates are the
// literal parses of the two sides; patterns are the same trees with every
// free variable replaced by a wildcard. Rules are immutable after
// compilation and shared read-only across requests.
type Rule struct {
	Name  string
	Label string

	LeftTemplate  algebra.Expr
	RightTemplate algebra.Expr
	LeftPattern   algebra.Expr
	RightPattern  algebra.Expr

	// WildcardNames is the sorted union of free variables across both sides.
	WildcardNames []string

	// Caps holds behavior variants attached from the registry at load time.
	Caps []Capability

	// Priority breaks ties when two rules render the same replacement.
	Priority int
}

// Capability is a sealed set of rule behavior variants. The matching loop
// dispatches on these instead of comparing rule names.
type Capability interface{ capability() }

// PlainRule marks a rule with no special behavior.
type PlainRule struct{}

// GuardedRule discards a match when its predicate rejects the binding.
type GuardedRule struct {
	Predicate func(b algebra.Binding, assumptions map[string]string) bool
}

// NormalizingRule post-processes the instantiated replacement.
type NormalizingRule struct {
	Post func(algebra.Expr) algebra.Expr
}

// AlwaysShowRule offers the rule even when the replacement is structurally
// identical to the target.
type AlwaysShowRule struct{}

func (PlainRule) capability()       {}
func (GuardedRule) capability()     {}
func (NormalizingRule) capability() {}
func (AlwaysShowRule) capability()  {}

// Allowed runs every guard capability against a match.
func (r *Rule) Allowed(b algebra.Binding, assumptions map[string]string) bool {
	for _, c := range r.Caps {
		if g, ok := c.(GuardedRule); ok && !g.Predicate(b, assumptions) {
			return false
		}
	}
	return true
}

// Normalize runs every normalizing capability over an instantiated
// replacement.
func (r *Rule) Normalize(e algebra.Expr) algebra.Expr {
	for _, c := range r.Caps {
		if n, ok := c.(NormalizingRule); ok {
			e = n.Post(e)
		}
	}
	return e
}

// AlwaysShow reports whether the rule is offered on structural identity.
func (r *Rule) AlwaysShow() bool {
	for _, c := range r.Caps {
		if _, ok := c.(AlwaysShowRule); ok {
			return true
		}
	}
	return false
}

// Compile builds a Rule from its parsed sides. An empty name derives a
// stable placeholder from the side text; an empty label derives a readable
// left-right arrow form.
func Compile(leftSrc, rightSrc, name, label string) (*Rule, error) {
	left, err := ParseSide(leftSrc)
	if err != nil {
		return nil, fmt.Errorf("left side: %w", err)
	}
	right, err := ParseSide(rightSrc)
	if err != nil {
		return nil, fmt.Errorf("right side: %w", err)
	}

	names := map[string]struct{}{}
	for n := range algebra.FreeSymbols(left) {
		names[n] = struct{}{}
	}
	for n := range algebra.FreeSymbols(right) {
		names[n] = struct{}{}
	}
	wildcards := make([]string, 0, len(names))
	for n := range names {
		wildcards = append(wildcards, n)
	}
	sort.Strings(wildcards)

	if name == "" {
		name = "rule_" + ast.HashID(leftSrc+" rewrite "+rightSrc)
	}
	if label == "" {
		label = leftSrc + " ↔ " + rightSrc
	}

	r := &Rule{
		Name:          name,
		Label:         label,
		LeftTemplate:  left,
		RightTemplate: right,
		LeftPattern:   algebra.ToPattern(left),
		RightPattern:  algebra.ToPattern(right),
		WildcardNames: wildcards,
	}
	r.Caps = capabilitiesFor(r.Name)
	r.Priority = PriorityFor(r.Name)
	return r, nil
}

// ParseLine parses one rule-definition line. A nil rule with nil error means
// the line carries no rule (blank or comment-only); parse failures come back
// as errors for the loader to log and skip.
func ParseLine(line string) (*Rule, error) {
	core, meta := line, ""
	if i := strings.Index(line, "#"); i >= 0 {
		core, meta = line[:i], line[i+1:]
	}
	core = strings.TrimSpace(core)
	if core == "" {
		return nil, nil
	}

	parts := strings.Split(core, "rewrite")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected exactly one rewrite keyword")
	}
	leftSrc := strings.TrimSpace(parts[0])
	rightSrc := strings.TrimSpace(parts[1])
	if leftSrc == "" || rightSrc == "" {
		return nil, fmt.Errorf("empty rule side")
	}

	var name, label string
	for _, chunk := range strings.Split(meta, "|") {
		chunk = strings.TrimSpace(chunk)
		lower := strings.ToLower(chunk)
		switch {
		case strings.HasPrefix(lower, "rule:"):
			name = strings.TrimSpace(chunk[len("rule:"):])
		case strings.HasPrefix(lower, "label:"):
			label = strings.TrimSpace(chunk[len("label:"):])
		}
	}

	return Compile(leftSrc, rightSrc, name, label)
}
