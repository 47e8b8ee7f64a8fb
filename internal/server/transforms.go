package server

import (
	"fmt"

	"github.com/roach88/mathrw/internal/algebra"
)

// applyTransform runs one named transform and returns the result with a
// human description of what happened. Transforms that do not apply (collect
// with no variables, complete_square on a non-quadratic) succeed as no-ops
// with an explanatory description; only an unknown name is an error.
func applyTransform(name string, e algebra.Expr) (algebra.Expr, string, error) {
	switch name {
	case "simplify":
		return algebra.Simplify(e), "Applied simplification", nil
	case "expand":
		return algebra.Expand(e), "Expanded expression", nil
	case "factor":
		return algebra.Factor(e), "Factored expression", nil
	case "collect":
		v, ok := algebra.PreferredVariable(e)
		if !ok {
			return e, "No variables to collect", nil
		}
		return algebra.Collect(e), fmt.Sprintf("Collected terms with respect to %s", v), nil
	case "complete_square":
		return completeSquareTransform(e)
	default:
		return nil, "", fmt.Errorf("unknown rule %q", name)
	}
}

// completeSquareTransform rewrites a quadratic a*x^2 + b*x + c as
// a*(x + b/(2a))^2 - b^2/(4a) + c, simplified.
func completeSquareTransform(e algebra.Expr) (algebra.Expr, string, error) {
	v, ok := algebra.PreferredVariable(e)
	if !ok {
		return e, "No variable to complete the square on", nil
	}
	coeffs, ok := algebra.PolyCoeffs(algebra.Expand(e), v)
	if !ok || len(coeffs) != 3 {
		return e, fmt.Sprintf("Not a quadratic in %s", v), nil
	}
	a, b, c := coeffs[2], coeffs[1], coeffs[0]
	x := &algebra.Sym{Name: v}

	twoA := &algebra.Mul{Factors: []algebra.Expr{algebra.N(2), a}}
	shifted := &algebra.Add{Terms: []algebra.Expr{
		x,
		&algebra.Mul{Factors: []algebra.Expr{b, &algebra.Pow{Base: twoA, Exp: algebra.N(-1)}}},
	}}
	square := &algebra.Mul{Factors: []algebra.Expr{a, &algebra.Pow{Base: shifted, Exp: algebra.N(2)}}}
	correction := &algebra.Mul{Factors: []algebra.Expr{
		algebra.N(-1),
		&algebra.Pow{Base: b, Exp: algebra.N(2)},
		&algebra.Pow{Base: &algebra.Mul{Factors: []algebra.Expr{algebra.N(4), a}}, Exp: algebra.N(-1)},
	}}
	completed := algebra.Simplify(&algebra.Add{Terms: []algebra.Expr{square, correction, c}})

	return completed, fmt.Sprintf("Completed the square in %s", v), nil
}
