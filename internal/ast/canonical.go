package ast

import "strings"

// Canonical produces the canonical string form used for id derivation.
// CRITICAL: this is the ONLY serialization that may feed the node-id hash.
// The grammar is a cross-system contract with whatever renderer assigned the
// caller's selected id:
//
//	ident:<name>
//	number:<literal>
//	power(<base>,<exponent>)
//	add(<t1>,...,<tn>)        // order preserved, never sorted
//	call:<fn>(<arg>)
//	diff(<var>,<body>)
//
// Products canonicalize through their Call/Sum encoding, i.e. as
// call:times(add(...)).
func Canonical(n Node) string {
	var sb strings.Builder
	writeCanonical(&sb, n)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Ident:
		sb.WriteString("ident:")
		sb.WriteString(v.Name)
	case *Number:
		sb.WriteString("number:")
		sb.WriteString(v.Literal)
	case *Power:
		sb.WriteString("power(")
		writeCanonical(sb, v.Base)
		sb.WriteByte(',')
		writeCanonical(sb, v.Exponent)
		sb.WriteByte(')')
	case *Sum:
		sb.WriteString("add(")
		for i, t := range v.Terms {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, t)
		}
		sb.WriteByte(')')
	case *Call:
		sb.WriteString("call:")
		sb.WriteString(v.Fn)
		sb.WriteByte('(')
		writeCanonical(sb, v.Arg)
		sb.WriteByte(')')
	case *Deriv:
		sb.WriteString("diff(")
		writeCanonical(sb, v.Var)
		sb.WriteByte(',')
		writeCanonical(sb, v.Body)
		sb.WriteByte(')')
	default:
		sb.WriteString("unknown")
	}
}
