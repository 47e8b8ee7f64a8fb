package engine

import (
	"github.com/roach88/mathrw/internal/algebra"
	"github.com/roach88/mathrw/internal/rules"
)

// completeSquare offers a(x + b/(2a))^2 - b^2/(4a) + c for any degree-2
// polynomial in a single preferred variable: x when free, else the
// alphabetically first free variable.
func (s *Suggester) completeSquare(target algebra.Expr) []candidate {
	v, ok := completionVariable(target)
	if !ok {
		return nil
	}
	coeffs, ok := algebra.PolyCoeffs(algebra.Expand(target), v)
	if !ok || len(coeffs) != 3 {
		return nil
	}
	a, b, c := coeffs[2], coeffs[1], coeffs[0]
	if n, isNum := a.(*algebra.Num); isNum && n.IsZero() {
		return nil
	}

	x := &algebra.Sym{Name: v}
	shift := &algebra.Mul{Factors: []algebra.Expr{b, &algebra.Pow{Base: &algebra.Mul{Factors: []algebra.Expr{algebra.N(2), a}}, Exp: algebra.N(-1)}}}
	square := &algebra.Pow{Base: &algebra.Add{Terms: []algebra.Expr{x, shift}}, Exp: algebra.N(2)}
	offset := &algebra.Mul{Factors: []algebra.Expr{
		algebra.N(-1),
		&algebra.Pow{Base: b, Exp: algebra.N(2)},
		&algebra.Pow{Base: &algebra.Mul{Factors: []algebra.Expr{algebra.N(4), a}}, Exp: algebra.N(-1)},
	}}
	completed := algebra.Simplify(&algebra.Add{Terms: []algebra.Expr{
		&algebra.Mul{Factors: []algebra.Expr{a, square}},
		offset,
		c,
	}})

	return []candidate{{
		id:          "complete_square_auto",
		label:       "Complete the square: ax^2+bx+c → a(x + b/(2a))^2 - b^2/(4a) + c",
		ruleName:    "complete_square",
		priority:    rules.PriorityFor("complete_square"),
		replacement: completed,
	}}
}

func completionVariable(e algebra.Expr) (string, bool) {
	free := algebra.FreeSymbols(e)
	if len(free) == 0 {
		return "", false
	}
	if _, ok := free["x"]; ok {
		return "x", true
	}
	first := ""
	for name := range free {
		if first == "" || name < first {
			first = name
		}
	}
	return first, true
}

// conjugateDistributivity detects both directions structurally: a conjugate
// head over a sum or product distributes inward; a sum or product whose
// every term carries the conjugate head folds outward.
func (s *Suggester) conjugateDistributivity(target algebra.Expr) []candidate {
	if f, ok := target.(*algebra.Func); ok && f.Name == "conjugate" {
		switch inner := f.Arg.(type) {
		case *algebra.Add:
			terms := make([]algebra.Expr, len(inner.Terms))
			for i, t := range inner.Terms {
				terms[i] = &algebra.Func{Name: "conjugate", Arg: t}
			}
			return []candidate{{
				id:          "conjugate_linearity_auto",
				label:       "Conjugation is linear: conj(a+b) = conj(a) + conj(b)",
				ruleName:    "conjugate_linearity",
				priority:    rules.PriorityFor("conjugate_linearity"),
				replacement: &algebra.Add{Terms: terms},
			}}
		case *algebra.Mul:
			factors := make([]algebra.Expr, len(inner.Factors))
			for i, f := range inner.Factors {
				factors[i] = &algebra.Func{Name: "conjugate", Arg: f}
			}
			return []candidate{{
				id:          "conjugate_multiplicative_auto",
				label:       "Conjugation distributes over product: conj(ab) = conj(a)·conj(b)",
				ruleName:    "conjugate_multiplicative",
				priority:    rules.PriorityFor("conjugate_multiplicative"),
				replacement: &algebra.Mul{Factors: factors},
			}}
		}
		return nil
	}

	switch v := target.(type) {
	case *algebra.Add:
		inner, ok := stripConjugates(v.Terms)
		if !ok {
			return nil
		}
		return []candidate{{
			id:          "conjugate_linearity_reverse_auto",
			label:       "Conjugation is linear (reverse): conj(a)+conj(b) → conj(a+b)",
			ruleName:    "conjugate_linearity",
			priority:    rules.PriorityFor("conjugate_linearity"),
			replacement: &algebra.Func{Name: "conjugate", Arg: &algebra.Add{Terms: inner}},
		}}
	case *algebra.Mul:
		inner, ok := stripConjugates(v.Factors)
		if !ok {
			return nil
		}
		return []candidate{{
			id:          "conjugate_multiplicative_reverse_auto",
			label:       "Conjugation over product (reverse): conj(a)·conj(b) → conj(ab)",
			ruleName:    "conjugate_multiplicative",
			priority:    rules.PriorityFor("conjugate_multiplicative"),
			replacement: &algebra.Func{Name: "conjugate", Arg: &algebra.Mul{Factors: inner}},
		}}
	}
	return nil
}

// stripConjugates unwraps every element's conjugate head, failing if any
// element carries a different head.
func stripConjugates(elems []algebra.Expr) ([]algebra.Expr, bool) {
	if len(elems) == 0 {
		return nil, false
	}
	inner := make([]algebra.Expr, len(elems))
	for i, e := range elems {
		f, ok := e.(*algebra.Func)
		if !ok || f.Name != "conjugate" {
			return nil, false
		}
		inner[i] = f.Arg
	}
	return inner, true
}

// evaluateDerivative offers the computed derivative for an unevaluated
// differentiation marker. Trigonometric results stay in expanded product
// form, so d/dx sin(x)^2 reads 2·sin(x)·cos(x) rather than a folded double
// angle; everything else gets a plain simplification pass.
func (s *Suggester) evaluateDerivative(target algebra.Expr) []candidate {
	d, ok := target.(*algebra.Deriv)
	if !ok {
		return nil
	}
	evaluated := algebra.Diff(d.Body, d.Var)
	if algebra.ContainsTrig(evaluated) {
		evaluated = algebra.Expand(evaluated)
	} else {
		evaluated = algebra.Simplify(evaluated)
	}
	return []candidate{{
		id:          "differentiate_do_it",
		label:       "Differentiate with respect to " + d.Var,
		ruleName:    "differentiate",
		replacement: evaluated,
	}}
}
