package adapter

import (
	"github.com/roach88/mathrw/internal/algebra"
	"github.com/roach88/mathrw/internal/ast"
)

// ToExpr converts an addressed tree node into an algebra expression.
//
// The identifiers i and I become the imaginary unit constant. Numeric
// literals parse as exact rationals; a literal that fails to parse is
// carried as a symbol so it still round-trips instead of erroring.
func ToExpr(n ast.Node) algebra.Expr {
	switch v := n.(type) {
	case *ast.Ident:
		if v.Name == "i" || v.Name == "I" {
			return &algebra.Imag{}
		}
		return &algebra.Sym{Name: v.Name}
	case *ast.Number:
		if num, ok := algebra.ParseNum(v.Literal); ok {
			return num
		}
		return &algebra.Sym{Name: v.Literal}
	case *ast.Power:
		return &algebra.Pow{Base: ToExpr(v.Base), Exp: ToExpr(v.Exponent)}
	case *ast.Sum:
		terms := make([]algebra.Expr, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = ToExpr(t)
		}
		return &algebra.Add{Terms: terms}
	case *ast.Call:
		if factors, ok := ast.IsProduct(v); ok {
			fs := make([]algebra.Expr, len(factors))
			for i, f := range factors {
				fs[i] = ToExpr(f)
			}
			return &algebra.Mul{Factors: fs}
		}
		return &algebra.Func{Name: v.Fn, Arg: ToExpr(v.Arg)}
	case *ast.Deriv:
		name := "x"
		if id, ok := v.Var.(*ast.Ident); ok {
			name = id.Name
		}
		return &algebra.Deriv{Var: name, Body: ToExpr(v.Body)}
	}
	return &algebra.Num{Val: algebra.N(0).Val}
}

// FromExpr converts an algebra expression back into an addressed tree.
// Node ids are not assigned; run ast.AssignIDs on the result when identity
// is needed.
func FromExpr(e algebra.Expr) ast.Node {
	switch v := e.(type) {
	case *algebra.Num:
		return &ast.Number{Literal: v.String()}
	case *algebra.Sym:
		return &ast.Ident{Name: v.Name}
	case *algebra.Imag:
		return &ast.Ident{Name: "i"}
	case *algebra.Wild:
		return &ast.Ident{Name: "_" + v.Name}
	case *algebra.Add:
		terms := make([]ast.Node, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = FromExpr(t)
		}
		return &ast.Sum{Terms: terms}
	case *algebra.Mul:
		factors := make([]ast.Node, len(v.Factors))
		for i, f := range v.Factors {
			factors[i] = FromExpr(f)
		}
		return ast.Product(factors...)
	case *algebra.Pow:
		return &ast.Power{Base: FromExpr(v.Base), Exponent: FromExpr(v.Exp)}
	case *algebra.Func:
		return &ast.Call{Fn: v.Name, Arg: FromExpr(v.Arg)}
	case *algebra.Deriv:
		return &ast.Deriv{Var: &ast.Ident{Name: v.Var}, Body: FromExpr(v.Body)}
	}
	return &ast.Number{Literal: "0"}
}
