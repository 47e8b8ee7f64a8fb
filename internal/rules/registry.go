package rules

import (
	"strings"

	"github.com/roach88/mathrw/internal/algebra"
)

// The registry attaches capability variants and priorities to known rule
// names once, at compile time of the rule. Rules absent from both maps are
// plain, priority zero.

func capabilitiesFor(name string) []Capability {
	switch name {
	case "conjugate_exp_i_theta":
		// Only valid when the matched angle is a bare variable the caller
		// has declared real or positive.
		return []Capability{GuardedRule{Predicate: assumptionGuard("theta", "real", "positive")}}
	case "complete_square":
		// A composite binding for the variable slot means the quadratic
		// shape was accidental; and the raw instantiation carries unreduced
		// fractions worth normalizing away.
		return []Capability{
			GuardedRule{Predicate: bareVariableGuard("x")},
			NormalizingRule{Post: algebra.Simplify},
		}
	case "combine_like_terms_add":
		return []Capability{AlwaysShowRule{}}
	}
	return []Capability{PlainRule{}}
}

// PriorityFor returns the dedup precedence for a rule name. Domain-specific
// rules outrank generic algebraic ones when both render the same
// replacement.
func PriorityFor(name string) int {
	switch name {
	case "conjugate_linearity", "conjugate_multiplicative", "modulus_square":
		return 3
	case "trig_double_angle_sin", "trig_identity_sin2", "complete_square":
		return 2
	}
	return 0
}

// assumptionGuard requires the named wildcard to have bound a bare variable
// whose declared assumption is one of the accepted tags. No assumptions map
// means no declaration, which fails the guard.
func assumptionGuard(wildcard string, accepted ...string) func(algebra.Binding, map[string]string) bool {
	return func(b algebra.Binding, assumptions map[string]string) bool {
		if len(assumptions) == 0 {
			return false
		}
		bound, ok := b[wildcard]
		if !ok {
			return false
		}
		s, ok := bound.(*algebra.Sym)
		if !ok {
			return false
		}
		tag := strings.ToLower(assumptions[s.Name])
		for _, a := range accepted {
			if tag == a {
				return true
			}
		}
		return false
	}
}

// bareVariableGuard requires the named wildcard, when bound, to have
// captured a bare variable rather than a composite subexpression.
func bareVariableGuard(wildcard string) func(algebra.Binding, map[string]string) bool {
	return func(b algebra.Binding, _ map[string]string) bool {
		bound, ok := b[wildcard]
		if !ok {
			return true
		}
		_, isSym := bound.(*algebra.Sym)
		return isSym
	}
}
