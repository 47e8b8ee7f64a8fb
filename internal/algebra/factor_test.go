package algebra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{
			"perfect square",
			&Add{Terms: []Expr{&Pow{Base: sym("x"), Exp: N(2)}, &Mul{Factors: []Expr{N(2), sym("x")}}, N(1)}},
			"(x + 1)^2",
		},
		{
			"distinct rational roots",
			&Add{Terms: []Expr{&Pow{Base: sym("x"), Exp: N(2)}, &Mul{Factors: []Expr{N(6), sym("x")}}, N(5)}},
			"(x + 1)*(x + 5)",
		},
		{
			"irrational roots stay put",
			&Add{Terms: []Expr{&Pow{Base: sym("x"), Exp: N(2)}, Neg(N(2))}},
			"x^2 - 2",
		},
		{
			"non-polynomial stays put",
			&Func{Name: "sin", Arg: sym("x")},
			"sin(x)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Factor(tt.expr).String())
		})
	}
}

func TestCollect(t *testing.T) {
	// x*y + x + 2*x collects coefficients on powers of x.
	e := &Add{Terms: []Expr{
		&Mul{Factors: []Expr{sym("x"), sym("y")}},
		sym("x"),
		&Mul{Factors: []Expr{N(2), sym("x")}},
	}}
	got := Collect(e)
	coeffs, ok := PolyCoeffs(got, "x")
	assert.True(t, ok)
	assert.Len(t, coeffs, 2)
}
