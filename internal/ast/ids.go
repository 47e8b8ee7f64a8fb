package ast

// AssignIDs returns a copy of the tree with a node id attached to every node,
// including the root. Ids are computed bottom-up from each node's canonical
// form. The input tree is not modified.
func AssignIDs(n Node) Node {
	switch v := n.(type) {
	case *Ident:
		return &Ident{Name: v.Name, NodeID: HashID(Canonical(v))}
	case *Number:
		return &Number{Literal: v.Literal, NodeID: HashID(Canonical(v))}
	case *Power:
		out := &Power{Base: AssignIDs(v.Base), Exponent: AssignIDs(v.Exponent)}
		out.NodeID = HashID(Canonical(out))
		return out
	case *Sum:
		terms := make([]Node, len(v.Terms))
		for i, t := range v.Terms {
			terms[i] = AssignIDs(t)
		}
		out := &Sum{Terms: terms}
		out.NodeID = HashID(Canonical(out))
		return out
	case *Call:
		out := &Call{Fn: v.Fn, Arg: AssignIDs(v.Arg)}
		out.NodeID = HashID(Canonical(out))
		return out
	case *Deriv:
		out := &Deriv{Var: AssignIDs(v.Var), Body: AssignIDs(v.Body)}
		out.NodeID = HashID(Canonical(out))
		return out
	}
	return n
}

// FindByID locates the node carrying the given id, searching depth-first
// with the root checked before its children. The first match wins. A nil
// result means the id is absent, which callers treat as "use the whole
// tree", not as an error.
func FindByID(n Node, id string) Node {
	if n == nil || n.ID() == id {
		return n
	}
	switch v := n.(type) {
	case *Power:
		if found := FindByID(v.Base, id); found != nil {
			return found
		}
		return FindByID(v.Exponent, id)
	case *Sum:
		for _, t := range v.Terms {
			if found := FindByID(t, id); found != nil {
				return found
			}
		}
	case *Call:
		return FindByID(v.Arg, id)
	case *Deriv:
		if found := FindByID(v.Var, id); found != nil {
			return found
		}
		return FindByID(v.Body, id)
	}
	return nil
}
