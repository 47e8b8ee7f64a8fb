package algebra

import "math/big"

// Simplify performs a bottom-up structural normalization pass:
//
//   - sums and products flatten one level per nesting
//   - numeric subterms fold exactly over big.Rat
//   - like terms in a sum combine by extracting numeric coefficients and
//     keying on the rendered non-numeric part, so 2x + 3x collapses to 5x
//     and sin(x) + sin(x) to 2*sin(x)
//   - same-base power factors in a product combine into one power with a
//     summed exponent
//   - x^0 folds to 1, x^1 to x, 1*e and 0+e drop identities
//
// Factor order inside products is preserved apart from the leading numeric
// coefficient; simplification never reorders what the user wrote.
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case *Num, *Sym, *Imag, *Wild:
		return e
	case *Add:
		terms := make([]Expr, 0, len(v.Terms))
		for _, t := range v.Terms {
			terms = append(terms, Simplify(t))
		}
		return simplifySum(terms)
	case *Mul:
		factors := make([]Expr, 0, len(v.Factors))
		for _, f := range v.Factors {
			factors = append(factors, Simplify(f))
		}
		return simplifyProduct(factors)
	case *Pow:
		return simplifyPow(Simplify(v.Base), Simplify(v.Exp))
	case *Func:
		return &Func{Name: v.Name, Arg: Simplify(v.Arg)}
	case *Deriv:
		return &Deriv{Var: v.Var, Body: Simplify(v.Body)}
	}
	return e
}

func simplifySum(terms []Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(*Add); ok {
			flat = append(flat, a.Terms...)
			continue
		}
		flat = append(flat, t)
	}

	// Combine like terms, keeping first-appearance order of the keys.
	type bucket struct {
		coeff *big.Rat
		rest  Expr // nil for the pure-number bucket
	}
	var order []string
	buckets := map[string]*bucket{}
	for _, t := range flat {
		coeff, rest := splitCoeff(t)
		key := ""
		if rest != nil {
			key = rest.String()
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{coeff: new(big.Rat), rest: rest}
			buckets[key] = b
			order = append(order, key)
		}
		b.coeff.Add(b.coeff, coeff)
	}

	out := make([]Expr, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if b.rest == nil {
			if b.coeff.Sign() != 0 {
				out = append(out, &Num{Val: b.coeff})
			}
			continue
		}
		switch {
		case b.coeff.Sign() == 0:
		case b.coeff.Cmp(ratOne) == 0:
			out = append(out, b.rest)
		default:
			out = append(out, prependCoeff(&Num{Val: b.coeff}, b.rest))
		}
	}

	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{Terms: out}
}

// splitCoeff pulls the numeric coefficient off a term. A bare number is all
// coefficient; a product contributes the product of its numeric factors.
func splitCoeff(t Expr) (*big.Rat, Expr) {
	switch v := t.(type) {
	case *Num:
		return new(big.Rat).Set(v.Val), nil
	case *Mul:
		coeff := new(big.Rat).SetInt64(1)
		rest := make([]Expr, 0, len(v.Factors))
		for _, f := range v.Factors {
			if n, ok := f.(*Num); ok {
				coeff.Mul(coeff, n.Val)
				continue
			}
			rest = append(rest, f)
		}
		switch len(rest) {
		case 0:
			return coeff, nil
		case 1:
			return coeff, rest[0]
		}
		return coeff, &Mul{Factors: rest}
	}
	return new(big.Rat).SetInt64(1), t
}

// prependCoeff rebuilds coeff*rest without renesting products.
func prependCoeff(c *Num, rest Expr) Expr {
	if m, ok := rest.(*Mul); ok {
		return &Mul{Factors: append([]Expr{c}, m.Factors...)}
	}
	return &Mul{Factors: []Expr{c, rest}}
}

func simplifyProduct(factors []Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(*Mul); ok {
			flat = append(flat, m.Factors...)
			continue
		}
		flat = append(flat, f)
	}

	coeff := new(big.Rat).SetInt64(1)
	rest := make([]Expr, 0, len(flat))
	for _, f := range flat {
		if n, ok := f.(*Num); ok {
			coeff.Mul(coeff, n.Val)
			continue
		}
		rest = append(rest, f)
	}
	if coeff.Sign() == 0 {
		return N(0)
	}

	// I*I folds to -1.
	imagCount := 0
	kept := rest[:0]
	for _, f := range rest {
		if _, ok := f.(*Imag); ok {
			imagCount++
			continue
		}
		kept = append(kept, f)
	}
	rest = kept
	for imagCount >= 2 {
		coeff.Neg(coeff)
		imagCount -= 2
	}
	if imagCount == 1 {
		rest = append(rest, &Imag{})
	}

	rest = combinePowers(rest)

	out := make([]Expr, 0, len(rest)+1)
	if coeff.Cmp(ratOne) != 0 {
		out = append(out, &Num{Val: coeff})
	}
	out = append(out, rest...)

	switch len(out) {
	case 0:
		return N(1)
	case 1:
		return out[0]
	}
	return &Mul{Factors: out}
}

// combinePowers merges same-base factors: x * x^2 becomes x^3. Bases key on
// their rendered form; first appearance keeps its position.
func combinePowers(factors []Expr) []Expr {
	type entry struct {
		base Expr
		exps []Expr
	}
	var order []string
	slots := map[string]*entry{}
	for _, f := range factors {
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.Base, p.Exp
		}
		key := base.String()
		s, ok := slots[key]
		if !ok {
			s = &entry{base: base}
			slots[key] = s
			order = append(order, key)
		}
		s.exps = append(s.exps, exp)
	}

	out := make([]Expr, 0, len(order))
	for _, key := range order {
		s := slots[key]
		if len(s.exps) == 1 {
			out = append(out, powOrBase(s.base, s.exps[0]))
			continue
		}
		out = append(out, simplifyPow(s.base, simplifySum(s.exps)))
	}
	return out
}

func powOrBase(base, exp Expr) Expr {
	if n, ok := exp.(*Num); ok && n.IsOne() {
		return base
	}
	return &Pow{Base: base, Exp: exp}
}

func simplifyPow(base, exp Expr) Expr {
	if n, ok := exp.(*Num); ok {
		if n.IsZero() {
			return N(1)
		}
		if n.IsOne() {
			return base
		}
		if bn, ok := base.(*Num); ok {
			if k, ok := n.Int64(); ok && k != 0 && k >= -64 && k <= 64 && !(k < 0 && bn.IsZero()) {
				abs := k
				if abs < 0 {
					abs = -abs
				}
				v := new(big.Rat).SetInt64(1)
				for i := int64(0); i < abs; i++ {
					v.Mul(v, bn.Val)
				}
				if k < 0 {
					v.Inv(v)
				}
				return &Num{Val: v}
			}
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return N(1)
		}
	}
	// (x^a)^b flattens to x^(a*b).
	if p, ok := base.(*Pow); ok {
		return &Pow{Base: p.Base, Exp: Simplify(&Mul{Factors: []Expr{p.Exp, exp}})}
	}
	return &Pow{Base: base, Exp: exp}
}
