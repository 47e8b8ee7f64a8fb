package mathml

import (
	"strings"

	"github.com/roach88/mathrw/internal/algebra"
	"github.com/roach88/mathrw/internal/ast"
)

const namespace = "http://www.w3.org/1998/Math/MathML"

// RenderContent serializes a tree node as Content MathML. The output parses
// back to a tree with the same canonical form, so node ids survive a round
// trip through the client.
func RenderContent(n ast.Node) string {
	var sb strings.Builder
	sb.WriteString(`<math xmlns="` + namespace + `">`)
	writeContent(&sb, n)
	sb.WriteString("</math>")
	return sb.String()
}

func writeContent(sb *strings.Builder, n ast.Node) {
	switch v := n.(type) {
	case *ast.Ident:
		sb.WriteString("<ci>")
		xmlEscape(sb, v.Name)
		sb.WriteString("</ci>")
	case *ast.Number:
		sb.WriteString("<cn>")
		xmlEscape(sb, v.Literal)
		sb.WriteString("</cn>")
	case *ast.Power:
		sb.WriteString("<apply><power/>")
		writeContent(sb, v.Base)
		writeContent(sb, v.Exponent)
		sb.WriteString("</apply>")
	case *ast.Sum:
		sb.WriteString("<apply><plus/>")
		for _, t := range v.Terms {
			writeContent(sb, t)
		}
		sb.WriteString("</apply>")
	case *ast.Call:
		if factors, ok := ast.IsProduct(v); ok {
			sb.WriteString("<apply><times/>")
			for _, f := range factors {
				writeContent(sb, f)
			}
			sb.WriteString("</apply>")
			return
		}
		switch v.Fn {
		case "sin", "cos", "tan", "sec", "csc", "cot", "exp", "log", "abs":
			sb.WriteString("<apply><" + v.Fn + "/>")
			writeContent(sb, v.Arg)
			sb.WriteString("</apply>")
		default:
			sb.WriteString("<apply><ci>")
			xmlEscape(sb, v.Fn)
			sb.WriteString("</ci>")
			writeContent(sb, v.Arg)
			sb.WriteString("</apply>")
		}
	case *ast.Deriv:
		sb.WriteString("<apply><diff/>")
		writeContent(sb, v.Var)
		writeContent(sb, v.Body)
		sb.WriteString("</apply>")
	}
}

// RenderPresentation serializes an algebra expression as display
// Presentation MathML.
//
// Products render a leading numeric coefficient flush against the next
// factor, so 2*x comes out as <mn>2</mn><mi>x</mi>; remaining factor pairs
// get an explicit dot operator. A power whose base is a sum wraps the base
// in explicit parentheses.
func RenderPresentation(e algebra.Expr) string {
	var sb strings.Builder
	sb.WriteString(`<math xmlns="` + namespace + `" display="block">`)
	writePresentation(&sb, e)
	sb.WriteString("</math>")
	return sb.String()
}

func writePresentation(sb *strings.Builder, e algebra.Expr) {
	switch v := e.(type) {
	case *algebra.Sym:
		sb.WriteString("<mi>")
		xmlEscape(sb, v.Name)
		sb.WriteString("</mi>")
	case *algebra.Imag:
		sb.WriteString("<mi>i</mi>")
	case *algebra.Wild:
		sb.WriteString("<mi>_" + v.Name + "</mi>")
	case *algebra.Num:
		sb.WriteString("<mn>")
		xmlEscape(sb, v.String())
		sb.WriteString("</mn>")
	case *algebra.Add:
		if len(v.Terms) == 0 {
			sb.WriteString("<mn>0</mn>")
			return
		}
		sb.WriteString("<mrow>")
		for i, t := range v.Terms {
			if i == 0 {
				writePresentation(sb, t)
				continue
			}
			if pos, ok := positivePart(t); ok {
				sb.WriteString("<mo>-</mo>")
				writePresentation(sb, pos)
				continue
			}
			sb.WriteString("<mo>+</mo>")
			writePresentation(sb, t)
		}
		sb.WriteString("</mrow>")
	case *algebra.Mul:
		if len(v.Factors) == 0 {
			sb.WriteString("<mn>1</mn>")
			return
		}
		sb.WriteString("<mrow>")
		for i, f := range v.Factors {
			if i > 0 && !implicitAfter(v.Factors[i-1], f) {
				sb.WriteString("<mo>·</mo>")
			}
			writeFactor(sb, f)
		}
		sb.WriteString("</mrow>")
	case *algebra.Pow:
		sb.WriteString("<msup>")
		if _, isSum := v.Base.(*algebra.Add); isSum {
			sb.WriteString("<mrow><mo>(</mo>")
			writePresentation(sb, v.Base)
			sb.WriteString("<mo>)</mo></mrow>")
		} else {
			sb.WriteString("<mrow>")
			writePresentation(sb, v.Base)
			sb.WriteString("</mrow>")
		}
		writePresentation(sb, v.Exp)
		sb.WriteString("</msup>")
	case *algebra.Func:
		switch v.Name {
		case "abs":
			sb.WriteString("<mrow><mo>|</mo>")
			writePresentation(sb, v.Arg)
			sb.WriteString("<mo>|</mo></mrow>")
		case "conjugate":
			sb.WriteString("<mrow><mi>conj</mi><mo>(</mo>")
			writePresentation(sb, v.Arg)
			sb.WriteString("<mo>)</mo></mrow>")
		default:
			sb.WriteString("<mrow><mi>")
			xmlEscape(sb, v.Name)
			sb.WriteString("</mi><mo>(</mo>")
			writePresentation(sb, v.Arg)
			sb.WriteString("<mo>)</mo></mrow>")
		}
	case *algebra.Deriv:
		sb.WriteString("<mrow><mfrac><mi>d</mi><mrow><mi>d</mi><mi>")
		xmlEscape(sb, v.Var)
		sb.WriteString("</mi></mrow></mfrac><mrow>")
		writeFactor(sb, v.Body)
		sb.WriteString("</mrow></mrow>")
	default:
		sb.WriteString("<mtext>")
		xmlEscape(sb, e.String())
		sb.WriteString("</mtext>")
	}
}

// writeFactor parenthesizes sums appearing in factor position.
func writeFactor(sb *strings.Builder, f algebra.Expr) {
	if _, isSum := f.(*algebra.Add); isSum {
		sb.WriteString("<mrow><mo>(</mo>")
		writePresentation(sb, f)
		sb.WriteString("<mo>)</mo></mrow>")
		return
	}
	writePresentation(sb, f)
}

// implicitAfter reports whether the product operator between prev and next
// can be dropped: a numeric coefficient reads directly against a symbol,
// power, or function application.
func implicitAfter(prev, next algebra.Expr) bool {
	if _, ok := prev.(*algebra.Num); !ok {
		return false
	}
	switch next.(type) {
	case *algebra.Sym, *algebra.Pow, *algebra.Func, *algebra.Imag:
		return true
	}
	return false
}

// positivePart recognizes terms of the form -n or (-1)*rest so sums render
// with a minus operator instead of a plus against a negative term.
func positivePart(t algebra.Expr) (algebra.Expr, bool) {
	switch v := t.(type) {
	case *algebra.Num:
		if v.IsNegative() {
			return algebra.Neg(v), true
		}
	case *algebra.Mul:
		if len(v.Factors) >= 2 {
			if c, ok := v.Factors[0].(*algebra.Num); ok && c.IsNegative() {
				rest := v.Factors[1:]
				if c.IsNegOne() {
					if len(rest) == 1 {
						return rest[0], true
					}
					return &algebra.Mul{Factors: rest}, true
				}
				fs := append([]algebra.Expr{algebra.Neg(c)}, rest...)
				return &algebra.Mul{Factors: fs}, true
			}
		}
	}
	return nil, false
}

func xmlEscape(sb *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteRune(r)
		}
	}
}
