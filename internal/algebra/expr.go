package algebra

import (
	"math/big"
	"strings"
)

// Expr is a sealed interface over the expression variants. Only Num, Sym,
// Imag, Wild, Add, Mul, Pow, Func, and Deriv implement it.
type Expr interface {
	// String renders a deterministic plain-text form. Used for display,
	// deduplication keys, and test assertions; not a parseable format.
	String() string

	// Equal reports exact structural equality, order-sensitive.
	Equal(other Expr) bool

	expr() // sealed
}

// Num is an exact rational literal.
type Num struct{ Val *big.Rat }

// Sym is a free variable.
type Sym struct{ Name string }

// Imag is the imaginary unit constant. It is not a free variable: rule
// loading never turns it into a wildcard and FreeSymbols skips it.
type Imag struct{}

// Wild is a pattern placeholder that matches any subexpression. Wilds only
// appear in compiled rule patterns, never in user input.
type Wild struct{ Name string }

// Add is an n-ary sum, order preserved.
type Add struct{ Terms []Expr }

// Mul is an n-ary product, order preserved.
type Mul struct{ Factors []Expr }

// Pow is base^exponent.
type Pow struct{ Base, Exp Expr }

// Func is a named unary function application. Names the engine knows natively
// get simplification and differentiation support; anything else is carried
// opaquely and round-trips untouched.
type Func struct {
	Name string
	Arg  Expr
}

// Deriv is an unevaluated derivative marker: d/d{Var} Body.
type Deriv struct {
	Var  string
	Body Expr
}

func (*Num) expr()   {}
func (*Sym) expr()   {}
func (*Imag) expr()  {}
func (*Wild) expr()  {}
func (*Add) expr()   {}
func (*Mul) expr()   {}
func (*Pow) expr()   {}
func (*Func) expr()  {}
func (*Deriv) expr() {}

// N builds an integer literal.
func N(n int64) *Num { return &Num{Val: new(big.Rat).SetInt64(n)} }

// Rat builds an exact fraction p/q. Panics on q == 0; callers validate first.
func Rat(p, q int64) *Num {
	if q == 0 {
		panic("algebra: zero denominator")
	}
	return &Num{Val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// ParseNum interprets a numeric literal: integer first, then p/q rational.
// ok=false means the text is not a supported numeral; callers fall back to
// treating it as an opaque identifier rather than erroring.
func ParseNum(lit string) (*Num, bool) {
	lit = strings.TrimSpace(lit)
	if lit == "" {
		return nil, false
	}
	if v, ok := new(big.Int).SetString(lit, 10); ok {
		return &Num{Val: new(big.Rat).SetInt(v)}, true
	}
	if v, ok := new(big.Rat).SetString(lit); ok {
		return &Num{Val: v}, true
	}
	return nil, false
}

func (n *Num) IsZero() bool    { return n.Val.Sign() == 0 }
func (n *Num) IsOne() bool     { return n.Val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool  { return n.Val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool { return n.Val.IsInt() }
func (n *Num) IsNegative() bool { return n.Val.Sign() < 0 }

// Int64 returns the integer value for integer literals in range.
func (n *Num) Int64() (int64, bool) {
	if !n.Val.IsInt() || !n.Val.Num().IsInt64() {
		return 0, false
	}
	return n.Val.Num().Int64(), true
}

// Neg builds the arithmetic negation of e without evaluating it, except for
// plain numbers which negate in place.
func Neg(e Expr) Expr {
	if n, ok := e.(*Num); ok {
		return &Num{Val: new(big.Rat).Neg(n.Val)}
	}
	return &Mul{Factors: []Expr{N(-1), e}}
}

func (n *Num) String() string {
	if n.Val.IsInt() {
		return n.Val.Num().String()
	}
	return n.Val.RatString()
}

func (s *Sym) String() string  { return s.Name }
func (*Imag) String() string   { return "I" }
func (w *Wild) String() string { return "_" + w.Name }

func (a *Add) String() string {
	if len(a.Terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.Terms {
		if i == 0 {
			sb.WriteString(t.String())
			continue
		}
		if neg, ok := negatedTerm(t); ok {
			sb.WriteString(" - ")
			sb.WriteString(maybeParen(neg))
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(t.String())
	}
	return sb.String()
}

// negatedTerm recognizes -n and (-1)*x shapes so sums print "a - b".
func negatedTerm(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return &Num{Val: new(big.Rat).Neg(v.Val)}, true
		}
	case *Mul:
		if len(v.Factors) >= 2 {
			if c, ok := v.Factors[0].(*Num); ok && c.IsNegOne() {
				if len(v.Factors) == 2 {
					return v.Factors[1], true
				}
				return &Mul{Factors: v.Factors[1:]}, true
			}
		}
	}
	return nil, false
}

func maybeParen(e Expr) string {
	if _, ok := e.(*Add); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (m *Mul) String() string {
	if len(m.Factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.Factors))
	for i, f := range m.Factors {
		parts[i] = maybeParen(f)
	}
	return strings.Join(parts, "*")
}

func (p *Pow) String() string {
	base := p.Base.String()
	switch p.Base.(type) {
	case *Add, *Mul:
		base = "(" + base + ")"
	}
	exp := p.Exp.String()
	switch p.Exp.(type) {
	case *Add, *Mul, *Pow:
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (f *Func) String() string { return f.Name + "(" + f.Arg.String() + ")" }

func (d *Deriv) String() string {
	return "Derivative(" + d.Body.String() + ", " + d.Var + ")"
}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.Val.Cmp(o.Val) == 0
}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.Name == o.Name
}

func (*Imag) Equal(other Expr) bool {
	_, ok := other.(*Imag)
	return ok
}

func (w *Wild) Equal(other Expr) bool {
	o, ok := other.(*Wild)
	return ok && w.Name == o.Name
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.Terms) != len(o.Terms) {
		return false
	}
	for i := range a.Terms {
		if !a.Terms[i].Equal(o.Terms[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.Factors) != len(o.Factors) {
		return false
	}
	for i := range m.Factors {
		if !m.Factors[i].Equal(o.Factors[i]) {
			return false
		}
	}
	return true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.Base.Equal(o.Base) && p.Exp.Equal(o.Exp)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.Name == o.Name && f.Arg.Equal(o.Arg)
}

func (d *Deriv) Equal(other Expr) bool {
	o, ok := other.(*Deriv)
	return ok && d.Var == o.Var && d.Body.Equal(o.Body)
}

// FreeSymbols returns the set of free variable names in e. The imaginary
// unit and wilds are not free variables.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.Name] = struct{}{}
	case *Add:
		for _, t := range v.Terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.Factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.Base, out)
		collectSymbols(v.Exp, out)
	case *Func:
		collectSymbols(v.Arg, out)
	case *Deriv:
		out[v.Var] = struct{}{}
		collectSymbols(v.Body, out)
	}
}

// ContainsTrig reports whether any trigonometric function application occurs
// anywhere in e.
func ContainsTrig(e Expr) bool {
	switch v := e.(type) {
	case *Func:
		switch v.Name {
		case "sin", "cos", "tan", "sec", "csc", "cot":
			return true
		}
		return ContainsTrig(v.Arg)
	case *Add:
		for _, t := range v.Terms {
			if ContainsTrig(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.Factors {
			if ContainsTrig(f) {
				return true
			}
		}
	case *Pow:
		return ContainsTrig(v.Base) || ContainsTrig(v.Exp)
	case *Deriv:
		return ContainsTrig(v.Body)
	}
	return false
}

var (
	ratOne    = new(big.Rat).SetInt64(1)
	ratNegOne = new(big.Rat).SetInt64(-1)
)
