package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadratic() Node {
	// x^2 + y
	return &Sum{Terms: []Node{
		&Power{Base: &Ident{Name: "x"}, Exponent: &Number{Literal: "2"}},
		&Ident{Name: "y"},
	}}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"ident", &Ident{Name: "x"}, "ident:x"},
		{"number", &Number{Literal: "2"}, "number:2"},
		{
			"power",
			&Power{Base: &Ident{Name: "x"}, Exponent: &Number{Literal: "2"}},
			"power(ident:x,number:2)",
		},
		{"sum preserves order", quadratic(), "add(power(ident:x,number:2),ident:y)"},
		{
			"call",
			&Call{Fn: "sin", Arg: &Ident{Name: "x"}},
			"call:sin(ident:x)",
		},
		{
			"product encoding",
			Product(&Number{Literal: "2"}, &Ident{Name: "x"}),
			"call:times(add(number:2,ident:x))",
		},
		{
			"derivative",
			&Deriv{Var: &Ident{Name: "x"}, Body: &Ident{Name: "x"}},
			"diff(ident:x,ident:x)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.node))
		})
	}
}

func TestHashID(t *testing.T) {
	// Pinned values: the hash is a wire contract with the markup renderer,
	// so these must never change.
	tests := []struct {
		canonical string
		want      string
	}{
		{"ident:x", "8708596b"},
		{"number:2", "33c383ba"},
		{"power(ident:x,number:2)", "8d2691aa"},
		{"add(power(ident:x,number:2),ident:y)", "48481fd7"},
		{"call:sin(ident:x)", "4b19705c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HashID(tt.canonical), tt.canonical)
	}
}

func TestAssignIDs(t *testing.T) {
	tree := AssignIDs(quadratic())

	sum, ok := tree.(*Sum)
	require.True(t, ok)
	assert.Equal(t, "48481fd7", sum.ID())
	assert.Equal(t, "8d2691aa", sum.Terms[0].ID())
	assert.Equal(t, "8708596b", sum.Terms[0].(*Power).Base.ID())

	// Identical subtrees get identical ids.
	other := AssignIDs(&Power{Base: &Ident{Name: "x"}, Exponent: &Number{Literal: "2"}})
	assert.Equal(t, sum.Terms[0].ID(), other.ID())
}

func TestAssignIDsDoesNotMutateInput(t *testing.T) {
	original := quadratic()
	_ = AssignIDs(original)
	assert.Empty(t, original.ID())
}

func TestFindByID(t *testing.T) {
	tree := AssignIDs(quadratic())

	t.Run("finds nested node", func(t *testing.T) {
		found := FindByID(tree, "8708596b")
		require.NotNil(t, found)
		ident, ok := found.(*Ident)
		require.True(t, ok)
		assert.Equal(t, "x", ident.Name)
	})

	t.Run("root checked first", func(t *testing.T) {
		found := FindByID(tree, tree.ID())
		assert.Same(t, tree, found)
	})

	t.Run("absent id means whole tree for callers", func(t *testing.T) {
		assert.Nil(t, FindByID(tree, "deadbeef"))
	})
}

func TestProductRoundTrip(t *testing.T) {
	p := Product(&Number{Literal: "2"}, &Ident{Name: "x"}, &Ident{Name: "y"})

	got, ok := IsProduct(p)
	require.True(t, ok)
	require.Len(t, got, 3)
	assert.Equal(t, "ident:y", Canonical(got[2]))

	// A plain call is not a product.
	_, ok = IsProduct(&Call{Fn: "sin", Arg: &Ident{Name: "x"}})
	assert.False(t, ok)
}
