package ast

// ProductFn is the reserved function name used to encode an n-ary product as
// a Call wrapping a Sum-shaped argument list. Products are represented this
// way to keep them distinct from sums while reusing the ordered-children
// shape.
//
// Known ambiguity: a genuine unary function named "times" in the input would
// collide with this encoding. The bridge never produces such a call (the
// <times/> operator always wins), but the convention is observable to anyone
// constructing trees by hand.
const ProductFn = "times"

// Node is a sealed interface over the expression tree variants.
// Only Ident, Number, Power, Sum, Call, and Deriv implement it.
type Node interface {
	// ID returns the node id assigned by AssignIDs, or "" before assignment.
	ID() string

	node() // sealed
}

// Ident is an identifier leaf (a variable or constant name).
type Ident struct {
	Name   string
	NodeID string
}

// Number is a numeric literal leaf. The literal text is kept verbatim; no
// numeric interpretation happens at this layer.
type Number struct {
	Literal string
	NodeID  string
}

// Power is base^exponent.
type Power struct {
	Base     Node
	Exponent Node
	NodeID   string
}

// Sum is an n-ary sum. Term order is preserved verbatim.
type Sum struct {
	Terms  []Node
	NodeID string
}

// Call is a named unary function application. By the ProductFn convention it
// also encodes multiplication, with Arg holding a Sum-shaped factor list.
type Call struct {
	Fn     string
	Arg    Node
	NodeID string
}

// Deriv is an unevaluated derivative of Body with respect to Var.
type Deriv struct {
	Var    Node
	Body   Node
	NodeID string
}

func (n *Ident) node()  {}
func (n *Number) node() {}
func (n *Power) node()  {}
func (n *Sum) node()    {}
func (n *Call) node()   {}
func (n *Deriv) node()  {}

func (n *Ident) ID() string  { return n.NodeID }
func (n *Number) ID() string { return n.NodeID }
func (n *Power) ID() string  { return n.NodeID }
func (n *Sum) ID() string    { return n.NodeID }
func (n *Call) ID() string   { return n.NodeID }
func (n *Deriv) ID() string  { return n.NodeID }

// Product builds the Call/Sum encoding for an ordered factor list.
func Product(factors ...Node) *Call {
	return &Call{Fn: ProductFn, Arg: &Sum{Terms: factors}}
}

// IsProduct reports whether n is a product under the ProductFn convention
// and, if so, returns its ordered factors.
func IsProduct(n Node) ([]Node, bool) {
	call, ok := n.(*Call)
	if !ok || call.Fn != ProductFn {
		return nil, false
	}
	sum, ok := call.Arg.(*Sum)
	if !ok {
		return nil, false
	}
	return sum.Terms, true
}
