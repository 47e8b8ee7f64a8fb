package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/mathrw/internal/algebra"
)

// ParseSide parses one infix rule side into a literal expression. Nothing
// evaluates: 1-1 stays a two-term sum and a/b stays a*b^-1 structurally,
// preserving exactly what the rule author wrote.
//
// Grammar, loosest binding first:
//
//	expr   := term (('+'|'-') term)*
//	term   := unary (('*'|'/') unary)*
//	unary  := '-' unary | power
//	power  := atom (('^'|'**') unary)?
//	atom   := number | ident | ident '(' expr ')' | '(' expr ')'
//
// The identifier I is the imaginary unit; conj and Abs are accepted
// aliases for conjugate and abs.
func ParseSide(src string) (algebra.Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &sideParser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected %q in %q", p.peek(), src)
	}
	return e, nil
}

type sideParser struct {
	toks []string
	pos  int
}

func (p *sideParser) done() bool { return p.pos >= len(p.toks) }

func (p *sideParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *sideParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *sideParser) parseExpr() (algebra.Expr, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	terms := []algebra.Expr{first}
	for p.peek() == "+" || p.peek() == "-" {
		op := p.next()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			t = algebra.Neg(t)
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return &algebra.Add{Terms: terms}, nil
}

func (p *sideParser) parseTerm() (algebra.Expr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	factors := appendFactor(nil, first)
	for p.peek() == "*" || p.peek() == "/" {
		op := p.next()
		f, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			f = &algebra.Pow{Base: f, Exp: algebra.N(-1)}
		}
		factors = appendFactor(factors, f)
	}
	if len(factors) == 1 {
		return factors[0], nil
	}
	return &algebra.Mul{Factors: factors}, nil
}

// appendFactor flattens nested products introduced by unary minus, so
// -I*theta is one three-factor product rather than a product of products.
func appendFactor(factors []algebra.Expr, f algebra.Expr) []algebra.Expr {
	if m, ok := f.(*algebra.Mul); ok {
		return append(factors, m.Factors...)
	}
	return append(factors, f)
}

func (p *sideParser) parseUnary() (algebra.Expr, error) {
	if p.peek() == "-" {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return algebra.Neg(inner), nil
	}
	return p.parsePower()
}

func (p *sideParser) parsePower() (algebra.Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek() == "^" || p.peek() == "**" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &algebra.Pow{Base: base, Exp: exp}, nil
	}
	return base, nil
}

func (p *sideParser) parseAtom() (algebra.Expr, error) {
	tok := p.peek()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of rule side")
	case tok == "(":
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		return inner, nil
	case isNumberTok(tok):
		p.next()
		n, ok := algebra.ParseNum(tok)
		if !ok {
			return nil, fmt.Errorf("bad numeral %q", tok)
		}
		return n, nil
	case isIdentTok(tok):
		p.next()
		if p.peek() == "(" {
			p.next()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.next() != ")" {
				return nil, fmt.Errorf("missing closing parenthesis after %s(", tok)
			}
			return &algebra.Func{Name: canonicalFn(tok), Arg: arg}, nil
		}
		if tok == "I" {
			return &algebra.Imag{}, nil
		}
		return &algebra.Sym{Name: tok}, nil
	}
	return nil, fmt.Errorf("unexpected token %q", tok)
}

func canonicalFn(name string) string {
	switch name {
	case "conj":
		return "conjugate"
	case "Abs":
		return "abs"
	case "ln":
		return "log"
	}
	return name
}

func isNumberTok(t string) bool { return t != "" && unicode.IsDigit(rune(t[0])) }

func isIdentTok(t string) bool {
	r := rune(t[0])
	return t != "" && (unicode.IsLetter(r) || r == '_')
}

func tokenize(src string) ([]string, error) {
	var toks []string
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, "**")
			i += 2
		case strings.ContainsRune("+-*/^(),", r):
			toks = append(toks, string(r))
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}
