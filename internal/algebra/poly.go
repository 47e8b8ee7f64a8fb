package algebra

// PolyCoeffs views e as a polynomial in the named variable and returns its
// coefficient list, index i holding the coefficient of v^i. Coefficients may
// themselves be expressions in other symbols. ok is false when e is not
// polynomial in v: the variable appears inside a function argument, under a
// non-integer or negative exponent, or in an exponent position.
//
// Callers should Expand first; PolyCoeffs does not distribute.
func PolyCoeffs(e Expr, v string) ([]Expr, bool) {
	var terms []Expr
	if a, ok := e.(*Add); ok {
		terms = a.Terms
	} else {
		terms = []Expr{e}
	}

	byDeg := map[int][]Expr{}
	maxDeg := 0
	for _, t := range terms {
		deg, coeff, ok := termDegree(t, v)
		if !ok {
			return nil, false
		}
		byDeg[deg] = append(byDeg[deg], coeff)
		if deg > maxDeg {
			maxDeg = deg
		}
	}

	out := make([]Expr, maxDeg+1)
	for d := 0; d <= maxDeg; d++ {
		parts := byDeg[d]
		switch len(parts) {
		case 0:
			out[d] = N(0)
		case 1:
			out[d] = parts[0]
		default:
			out[d] = Simplify(&Add{Terms: parts})
		}
	}
	return out, true
}

// Degree returns the degree of e in v, or -1 with ok=false when e is not
// polynomial in v.
func Degree(e Expr, v string) (int, bool) {
	coeffs, ok := PolyCoeffs(e, v)
	if !ok {
		return -1, false
	}
	return len(coeffs) - 1, true
}

// termDegree splits one additive term into (degree in v, coefficient).
func termDegree(t Expr, v string) (int, Expr, bool) {
	switch x := t.(type) {
	case *Sym:
		if x.Name == v {
			return 1, N(1), true
		}
		return 0, t, true
	case *Num, *Imag:
		return 0, t, true
	case *Pow:
		if s, ok := x.Base.(*Sym); ok && s.Name == v {
			n, ok := x.Exp.(*Num)
			if !ok {
				return 0, nil, false
			}
			k, ok := n.Int64()
			if !ok || k < 0 {
				return 0, nil, false
			}
			return int(k), N(1), true
		}
		if mentions(x, v) {
			return 0, nil, false
		}
		return 0, t, true
	case *Mul:
		deg := 0
		coeff := make([]Expr, 0, len(x.Factors))
		for _, f := range x.Factors {
			d, c, ok := termDegree(f, v)
			if !ok {
				return 0, nil, false
			}
			deg += d
			if n, isNum := c.(*Num); !isNum || !n.IsOne() {
				coeff = append(coeff, c)
			}
		}
		switch len(coeff) {
		case 0:
			return deg, N(1), true
		case 1:
			return deg, coeff[0], true
		}
		return deg, Simplify(&Mul{Factors: coeff}), true
	case *Add:
		// Nested sums mean the caller skipped Expand.
		if mentions(t, v) {
			return 0, nil, false
		}
		return 0, t, true
	default:
		if mentions(t, v) {
			return 0, nil, false
		}
		return 0, t, true
	}
}

func mentions(e Expr, v string) bool {
	_, ok := FreeSymbols(e)[v]
	return ok
}
