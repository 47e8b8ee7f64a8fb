package algebra

// Diff differentiates e with respect to the named variable, applying the
// standard sum, product, power, and chain rules. Opaque functions the engine
// has no derivative table entry for come back wrapped in an unevaluated
// Deriv marker rather than erroring.
func Diff(e Expr, v string) Expr {
	return Simplify(diff(e, v))
}

func diff(e Expr, v string) Expr {
	switch x := e.(type) {
	case *Num, *Imag:
		return N(0)
	case *Sym:
		if x.Name == v {
			return N(1)
		}
		return N(0)
	case *Wild:
		return N(0)
	case *Add:
		terms := make([]Expr, 0, len(x.Terms))
		for _, t := range x.Terms {
			terms = append(terms, diff(t, v))
		}
		return &Add{Terms: terms}
	case *Mul:
		// Product rule over n factors.
		terms := make([]Expr, 0, len(x.Factors))
		for i := range x.Factors {
			fs := make([]Expr, len(x.Factors))
			copy(fs, x.Factors)
			fs[i] = diff(x.Factors[i], v)
			terms = append(terms, &Mul{Factors: fs})
		}
		return &Add{Terms: terms}
	case *Pow:
		if !mentions(x.Exp, v) {
			// d/dv b^n = n * b^(n-1) * b'
			return &Mul{Factors: []Expr{
				x.Exp,
				&Pow{Base: x.Base, Exp: Simplify(&Add{Terms: []Expr{x.Exp, N(-1)}})},
				diff(x.Base, v),
			}}
		}
		if !mentions(x.Base, v) {
			// d/dv b^u = b^u * ln(b) * u'
			return &Mul{Factors: []Expr{
				&Pow{Base: x.Base, Exp: x.Exp},
				&Func{Name: "log", Arg: x.Base},
				diff(x.Exp, v),
			}}
		}
		// General case via b^u = exp(u*ln(b)).
		return &Mul{Factors: []Expr{
			&Pow{Base: x.Base, Exp: x.Exp},
			diff(&Mul{Factors: []Expr{x.Exp, &Func{Name: "log", Arg: x.Base}}}, v),
		}}
	case *Func:
		inner := diff(x.Arg, v)
		outer, ok := funcDerivative(x.Name, x.Arg)
		if !ok {
			return &Deriv{Var: v, Body: x}
		}
		return &Mul{Factors: []Expr{outer, inner}}
	case *Deriv:
		return &Deriv{Var: v, Body: x}
	}
	return N(0)
}

// funcDerivative returns d f(u)/du for the natively known unary functions.
func funcDerivative(name string, u Expr) (Expr, bool) {
	switch name {
	case "sin":
		return &Func{Name: "cos", Arg: u}, true
	case "cos":
		return Neg(&Func{Name: "sin", Arg: u}), true
	case "tan":
		return &Pow{Base: &Func{Name: "cos", Arg: u}, Exp: N(-2)}, true
	case "exp":
		return &Func{Name: "exp", Arg: u}, true
	case "log", "ln":
		return &Pow{Base: u, Exp: N(-1)}, true
	case "sqrt":
		return &Mul{Factors: []Expr{Rat(1, 2), &Pow{Base: u, Exp: Rat(-1, 2)}}}, true
	case "sec":
		return &Mul{Factors: []Expr{&Func{Name: "sec", Arg: u}, &Func{Name: "tan", Arg: u}}}, true
	case "csc":
		return Neg(&Mul{Factors: []Expr{&Func{Name: "csc", Arg: u}, &Func{Name: "cot", Arg: u}}}), true
	case "cot":
		return Neg(&Pow{Base: &Func{Name: "sin", Arg: u}, Exp: N(-2)}), true
	case "sinh":
		return &Func{Name: "cosh", Arg: u}, true
	case "cosh":
		return &Func{Name: "sinh", Arg: u}, true
	}
	return nil, false
}

// EvalDerivatives replaces every Deriv marker whose body the engine can
// differentiate with the computed derivative.
func EvalDerivatives(e Expr) Expr {
	switch x := e.(type) {
	case *Deriv:
		return Diff(EvalDerivatives(x.Body), x.Var)
	case *Add:
		terms := make([]Expr, 0, len(x.Terms))
		for _, t := range x.Terms {
			terms = append(terms, EvalDerivatives(t))
		}
		return &Add{Terms: terms}
	case *Mul:
		factors := make([]Expr, 0, len(x.Factors))
		for _, f := range x.Factors {
			factors = append(factors, EvalDerivatives(f))
		}
		return &Mul{Factors: factors}
	case *Pow:
		return &Pow{Base: EvalDerivatives(x.Base), Exp: EvalDerivatives(x.Exp)}
	case *Func:
		return &Func{Name: x.Name, Arg: EvalDerivatives(x.Arg)}
	}
	return e
}
