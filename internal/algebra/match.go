package algebra

// Binding maps wildcard names to the subexpressions they captured during a
// successful match.
type Binding map[string]Expr

func (b Binding) clone() Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// ToPattern converts an expression into a matchable pattern by replacing
// every free symbol with a wildcard of the same name. The imaginary unit is
// a constant and stays fixed.
func ToPattern(e Expr) Expr {
	switch v := e.(type) {
	case *Sym:
		return &Wild{Name: v.Name}
	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = ToPattern(t)
		}
		return &Add{Terms: terms}
	case *Mul:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = ToPattern(f)
		}
		return &Mul{Factors: factors}
	case *Pow:
		return &Pow{Base: ToPattern(v.Base), Exp: ToPattern(v.Exp)}
	case *Func:
		return &Func{Name: v.Name, Arg: ToPattern(v.Arg)}
	case *Deriv:
		return &Deriv{Var: v.Var, Body: ToPattern(v.Body)}
	}
	return e
}

// Match attempts to unify pattern against target. On success the returned
// binding maps each wildcard name to what it captured. Matching is
// structural with two commutative affordances:
//
//   - an Add (or Mul) pattern matched against a non-Add (non-Mul) target
//     treats the target as a one-term sum (one-factor product)
//   - inside sums and products, structured pattern terms pair with distinct
//     target terms via backtracking, and bare wildcards absorb whatever
//     terms remain; when structured siblings anchor the match, a leftover
//     wildcard may capture the identity element (0 in sums, 1 in products),
//     but a pattern of only wildcards needs a real term per wildcard
//
// A Pow pattern whose exponent is a wildcard also matches a non-power
// target, binding the exponent to 1, so x matches _b^_e.
func Match(pattern, target Expr) (Binding, bool) {
	b := Binding{}
	if !match(pattern, target, b) {
		return nil, false
	}
	return b, true
}

func match(pattern, target Expr, b Binding) bool {
	switch p := pattern.(type) {
	case *Wild:
		if bound, ok := b[p.Name]; ok {
			return bound.Equal(target)
		}
		b[p.Name] = target
		return true
	case *Num:
		t, ok := target.(*Num)
		return ok && p.Val.Cmp(t.Val) == 0
	case *Sym:
		t, ok := target.(*Sym)
		return ok && p.Name == t.Name
	case *Imag:
		_, ok := target.(*Imag)
		return ok
	case *Add:
		terms := []Expr{target}
		if a, ok := target.(*Add); ok {
			terms = a.Terms
		}
		return matchNary(p.Terms, terms, b, sumOf, isZeroNum)
	case *Mul:
		factors := []Expr{target}
		if m, ok := target.(*Mul); ok {
			factors = m.Factors
		}
		return matchNary(p.Factors, factors, b, prodOf, isOneNum)
	case *Pow:
		if t, ok := target.(*Pow); ok {
			b2 := b.clone()
			if match(p.Base, t.Base, b2) && match(p.Exp, t.Exp, b2) {
				replace(b, b2)
				return true
			}
			return false
		}
		if _, ok := p.Exp.(*Wild); ok {
			b2 := b.clone()
			if match(p.Base, target, b2) && match(p.Exp, N(1), b2) {
				replace(b, b2)
				return true
			}
		}
		return false
	case *Func:
		t, ok := target.(*Func)
		return ok && p.Name == t.Name && match(p.Arg, t.Arg, b)
	case *Deriv:
		t, ok := target.(*Deriv)
		return ok && p.Var == t.Var && match(p.Body, t.Body, b)
	}
	return false
}

// matchNary unifies the term lists of a commutative n-ary node. identity is
// the element an unfed wildcard captures; rebuild folds leftover terms into
// the value a trailing wildcard absorbs.
func matchNary(pats, tgts []Expr, b Binding, rebuild func([]Expr) Expr, identity func(Expr) bool) bool {
	var wilds []*Wild
	var structured []Expr
	for _, p := range pats {
		if w, ok := p.(*Wild); ok {
			wilds = append(wilds, w)
			continue
		}
		structured = append(structured, p)
	}

	// With no structured terms to anchor the match, wildcards must split the
	// real target terms among themselves; conjuring identity elements here
	// would make _a*_b match any lone expression with _b = 1.
	strict := len(structured) == 0

	used := make([]bool, len(tgts))
	var assign func(i int, b Binding) (Binding, bool)
	assign = func(i int, b Binding) (Binding, bool) {
		if i == len(structured) {
			b2 := b.clone()
			if absorbWilds(wilds, tgts, used, b2, rebuild, identity, strict) {
				return b2, true
			}
			return nil, false
		}
		for j := range tgts {
			if used[j] {
				continue
			}
			b2 := b.clone()
			if !match(structured[i], tgts[j], b2) {
				continue
			}
			used[j] = true
			if out, ok := assign(i+1, b2); ok {
				used[j] = false
				return out, true
			}
			used[j] = false
		}
		return nil, false
	}

	out, ok := assign(0, b)
	if !ok {
		return false
	}
	replace(b, out)
	return true
}

// absorbWilds distributes the leftover target terms over the bare wildcard
// pattern terms. Bound wildcards must find an equal leftover term (or hold
// the identity element and take nothing). Unbound wildcards each take one
// leftover term, except the last which absorbs the remainder; with no
// leftovers a wildcard captures the identity.
func absorbWilds(wilds []*Wild, tgts []Expr, used []bool, b Binding, rebuild func([]Expr) Expr, identity func(Expr) bool, strict bool) bool {
	var leftover []Expr
	for j, t := range tgts {
		if !used[j] {
			leftover = append(leftover, t)
		}
	}

	var unbound []*Wild
	for _, w := range wilds {
		bound, ok := b[w.Name]
		if !ok {
			unbound = append(unbound, w)
			continue
		}
		consumed := false
		for i, t := range leftover {
			if bound.Equal(t) {
				leftover = append(leftover[:i], leftover[i+1:]...)
				consumed = true
				break
			}
		}
		if !consumed && !identity(bound) {
			return false
		}
	}

	if len(unbound) == 0 {
		return len(leftover) == 0
	}
	if strict && len(leftover) < len(unbound) {
		return false
	}
	for i, w := range unbound {
		if i == len(unbound)-1 {
			b[w.Name] = rebuild(leftover)
			return true
		}
		if len(leftover) == 0 {
			b[w.Name] = rebuild(nil)
			continue
		}
		b[w.Name] = leftover[0]
		leftover = leftover[1:]
	}
	return true
}

func sumOf(terms []Expr) Expr {
	switch len(terms) {
	case 0:
		return N(0)
	case 1:
		return terms[0]
	}
	return &Add{Terms: terms}
}

func prodOf(factors []Expr) Expr {
	switch len(factors) {
	case 0:
		return N(1)
	case 1:
		return factors[0]
	}
	return &Mul{Factors: factors}
}

func isZeroNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func isOneNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}

func replace(dst, src Binding) {
	for k := range dst {
		delete(dst, k)
	}
	for k, v := range src {
		dst[k] = v
	}
}

// Instantiate substitutes bound values into a template. Template sides of a
// rule keep their symbols; each free symbol whose name appears in the
// binding is replaced by the captured subexpression. Wildcards substitute
// the same way, so instantiating a pattern side also works.
func Instantiate(template Expr, b Binding) Expr {
	switch v := template.(type) {
	case *Sym:
		if bound, ok := b[v.Name]; ok {
			return bound
		}
		return v
	case *Wild:
		if bound, ok := b[v.Name]; ok {
			return bound
		}
		return v
	case *Add:
		terms := make([]Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = Instantiate(t, b)
		}
		return &Add{Terms: terms}
	case *Mul:
		factors := make([]Expr, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = Instantiate(f, b)
		}
		return &Mul{Factors: factors}
	case *Pow:
		return &Pow{Base: Instantiate(v.Base, b), Exp: Instantiate(v.Exp, b)}
	case *Func:
		return &Func{Name: v.Name, Arg: Instantiate(v.Arg, b)}
	case *Deriv:
		return &Deriv{Var: v.Var, Body: Instantiate(v.Body, b)}
	}
	return template
}
