package algebra

// Expand distributes products over sums and multiplies out small positive
// integer powers of sums, then simplifies. (x+1)*(x+2) becomes x^2 + 3x + 2.
func Expand(e Expr) Expr {
	return Simplify(expand(e))
}

func expand(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, 0, len(v.Terms))
		for _, t := range v.Terms {
			terms = append(terms, expand(t))
		}
		return &Add{Terms: terms}
	case *Mul:
		factors := make([]Expr, 0, len(v.Factors))
		for _, f := range v.Factors {
			factors = append(factors, expand(f))
		}
		return distribute(factors)
	case *Pow:
		base := expand(v.Base)
		exp := expand(v.Exp)
		if n, ok := exp.(*Num); ok {
			if k, ok2 := n.Int64(); ok2 && k >= 2 && k <= 16 {
				if _, isSum := base.(*Add); isSum {
					factors := make([]Expr, k)
					for i := range factors {
						factors[i] = base
					}
					return distribute(factors)
				}
			}
		}
		return &Pow{Base: base, Exp: exp}
	case *Func:
		return &Func{Name: v.Name, Arg: expand(v.Arg)}
	case *Deriv:
		return &Deriv{Var: v.Var, Body: expand(v.Body)}
	}
	return e
}

// distribute multiplies the factor list out over any sum factors, producing
// a flat sum of products.
func distribute(factors []Expr) Expr {
	rows := [][]Expr{{}}
	for _, f := range factors {
		var terms []Expr
		if a, ok := f.(*Add); ok {
			terms = a.Terms
		} else {
			terms = []Expr{f}
		}
		next := make([][]Expr, 0, len(rows)*len(terms))
		for _, row := range rows {
			for _, t := range terms {
				nr := make([]Expr, len(row), len(row)+1)
				copy(nr, row)
				next = append(next, append(nr, t))
			}
		}
		rows = next
	}
	if len(rows) == 1 {
		return mulOf(rows[0])
	}
	out := make([]Expr, 0, len(rows))
	for _, row := range rows {
		out = append(out, mulOf(row))
	}
	return &Add{Terms: out}
}

func mulOf(factors []Expr) Expr {
	switch len(factors) {
	case 0:
		return N(1)
	case 1:
		return factors[0]
	}
	return &Mul{Factors: factors}
}
