package algebra

import "math/big"

// Factor rewrites a univariate quadratic with rational roots in factored
// form: x^2+2x+1 becomes (x+1)^2. Anything it cannot factor comes back
// simplified but otherwise unchanged. Variable choice prefers a free
// variable literally named x, then the alphabetically first.
func Factor(e Expr) Expr {
	simplified := Simplify(e)
	v, ok := preferredVariable(simplified)
	if !ok {
		return simplified
	}
	expanded := Expand(simplified)
	coeffs, ok := PolyCoeffs(expanded, v)
	if !ok || len(coeffs) != 3 {
		return simplified
	}
	a, aok := coeffs[2].(*Num)
	b, bok := coeffs[1].(*Num)
	c, cok := coeffs[0].(*Num)
	if !aok || !bok || !cok || a.IsZero() {
		return simplified
	}

	// roots = (-b ± sqrt(b^2-4ac)) / 2a, rational only when the
	// discriminant is a perfect square.
	disc := new(big.Rat).Mul(b.Val, b.Val)
	disc.Sub(disc, new(big.Rat).Mul(new(big.Rat).SetInt64(4), new(big.Rat).Mul(a.Val, c.Val)))
	root, ok := ratSqrt(disc)
	if !ok {
		return simplified
	}

	twoA := new(big.Rat).Mul(new(big.Rat).SetInt64(2), a.Val)
	r1 := new(big.Rat).Sub(root, b.Val)
	r1.Quo(r1, twoA)
	r2 := new(big.Rat).Sub(new(big.Rat).Neg(b.Val), root)
	r2.Quo(r2, twoA)

	x := &Sym{Name: v}
	lin1 := Simplify(&Add{Terms: []Expr{x, Neg(&Num{Val: r1})}})
	if r1.Cmp(r2) == 0 {
		return withLeadingCoeff(a, &Pow{Base: lin1, Exp: N(2)})
	}
	lin2 := Simplify(&Add{Terms: []Expr{x, Neg(&Num{Val: r2})}})
	return withLeadingCoeff(a, &Mul{Factors: []Expr{lin1, lin2}})
}

func withLeadingCoeff(a *Num, rest Expr) Expr {
	if a.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{Factors: append([]Expr{a}, m.Factors...)}
	}
	return &Mul{Factors: []Expr{a, rest}}
}

// ratSqrt returns the exact square root of a nonnegative rational, ok only
// when both numerator and denominator are perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	if r.Sign() < 0 {
		return nil, false
	}
	num := new(big.Int).Sqrt(r.Num())
	den := new(big.Int).Sqrt(r.Denom())
	check := new(big.Int).Mul(num, num)
	if check.Cmp(r.Num()) != 0 {
		return nil, false
	}
	check.Mul(den, den)
	if check.Cmp(r.Denom()) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

// Collect groups a polynomial by powers of its preferred variable, leaving
// non-polynomial input merely simplified.
func Collect(e Expr) Expr {
	simplified := Simplify(e)
	v, ok := preferredVariable(simplified)
	if !ok {
		return simplified
	}
	coeffs, ok := PolyCoeffs(Expand(simplified), v)
	if !ok {
		return simplified
	}
	x := &Sym{Name: v}
	var terms []Expr
	for d := len(coeffs) - 1; d >= 0; d-- {
		coeff := coeffs[d]
		if n, isNum := coeff.(*Num); isNum && n.IsZero() {
			continue
		}
		var power Expr
		switch d {
		case 0:
			terms = append(terms, coeff)
			continue
		case 1:
			power = x
		default:
			power = &Pow{Base: x, Exp: N(int64(d))}
		}
		if n, isNum := coeff.(*Num); isNum && n.IsOne() {
			terms = append(terms, power)
			continue
		}
		terms = append(terms, &Mul{Factors: []Expr{coeff, power}})
	}
	if len(terms) == 0 {
		return N(0)
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return &Add{Terms: terms}
}

// PreferredVariable reports the variable Collect and Factor operate on:
// x when free, else the alphabetically first free variable.
func PreferredVariable(e Expr) (string, bool) {
	return preferredVariable(e)
}

// preferredVariable picks x when free, else the alphabetically first free
// variable.
func preferredVariable(e Expr) (string, bool) {
	free := FreeSymbols(e)
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
