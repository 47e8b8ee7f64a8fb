package mathml

import (
	"encoding/xml"
	"html"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mathrw/internal/ast"
)

// element is a minimal DOM node. Namespaces are dropped; only the local tag
// name matters for dispatch.
type element struct {
	tag      string
	text     string
	children []*element
}

// Parse converts a Content MathML document or fragment into an expression
// tree. Input is unescaped and NFC-normalized first, so markup that went
// through an HTML layer still parses. Node ids are not assigned; callers
// that need addressing run ast.AssignIDs on the result.
func Parse(content string) (ast.Node, error) {
	content = norm.NFC.String(html.UnescapeString(strings.TrimSpace(content)))

	root, err := decodeFragment(content)
	if err != nil {
		return nil, err
	}
	if root.tag == "math" {
		if len(root.children) == 0 {
			return nil, &ParseError{Code: ErrCodeEmptyDocument, Message: "math element has no content"}
		}
		root = root.children[0]
	}
	return toNode(root)
}

func decodeFragment(content string) (*element, error) {
	root, err := decodeXML(content)
	if err == nil {
		return root, nil
	}
	// Bare fragments like "<ci>x</ci><cn>2</cn>" or text with an undeclared
	// entity fail the first pass; retry inside a math wrapper.
	root, werr := decodeXML("<math>" + content + "</math>")
	if werr != nil {
		return nil, &ParseError{Code: ErrCodeMalformed, Message: err.Error()}
	}
	return root, nil
}

func decodeXML(content string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var stack []*element
	var root *element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{tag: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, &ParseError{Code: ErrCodeMalformed, Message: "multiple root elements"}
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, &ParseError{Code: ErrCodeMalformed, Message: "no elements found"}
	}
	return root, nil
}

func toNode(el *element) (ast.Node, error) {
	switch el.tag {
	case "ci":
		name := strings.TrimSpace(el.text)
		if name == "" {
			name = "x"
		}
		return &ast.Ident{Name: name}, nil
	case "cn":
		lit := strings.TrimSpace(el.text)
		if lit == "" {
			lit = "0"
		}
		return &ast.Number{Literal: lit}, nil
	case "apply":
		return applyToNode(el)
	}
	// Skippable wrapper: annotation layers and similar single-child
	// containers descend to their payload.
	if len(el.children) == 1 {
		return toNode(el.children[0])
	}
	return nil, &ParseError{Code: ErrCodeUnsupportedTag, Message: "unsupported element", Tag: el.tag}
}

func applyToNode(el *element) (ast.Node, error) {
	if len(el.children) == 0 {
		return nil, &ParseError{Code: ErrCodeEmptyApply, Message: "apply element has no operator"}
	}
	head := el.children[0]
	args := make([]ast.Node, 0, len(el.children)-1)
	for _, ch := range el.children[1:] {
		n, err := toNode(ch)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}

	switch head.tag {
	case "power":
		if len(args) == 2 {
			return &ast.Power{Base: args[0], Exponent: args[1]}, nil
		}
	case "plus":
		return &ast.Sum{Terms: args}, nil
	case "times":
		return ast.Product(args...), nil
	case "sin", "cos", "tan", "sec", "csc", "cot", "exp", "log":
		if len(args) == 1 {
			return &ast.Call{Fn: head.tag, Arg: args[0]}, nil
		}
	case "ln":
		if len(args) == 1 {
			return &ast.Call{Fn: "log", Arg: args[0]}, nil
		}
	case "abs", "absolutevalue":
		if len(args) == 1 {
			return &ast.Call{Fn: "abs", Arg: args[0]}, nil
		}
	case "conjugate", "conj":
		if len(args) == 1 {
			return &ast.Call{Fn: "conjugate", Arg: args[0]}, nil
		}
	case "diff":
		// Both argument orders occur in the wild: variable first or last.
		if len(args) == 2 {
			if _, ok := args[0].(*ast.Ident); ok {
				return &ast.Deriv{Var: args[0], Body: args[1]}, nil
			}
			if _, ok := args[1].(*ast.Ident); ok {
				return &ast.Deriv{Var: args[1], Body: args[0]}, nil
			}
		}
		return nil, &ParseError{Code: ErrCodeUnsupportedOperator, Message: "diff needs a variable and a body", Tag: "diff"}
	case "ci":
		if fn := strings.TrimSpace(head.text); fn != "" && len(args) == 1 {
			return &ast.Call{Fn: fn, Arg: args[0]}, nil
		}
	}
	return nil, &ParseError{Code: ErrCodeUnsupportedOperator, Message: "unsupported operator", Tag: head.tag}
}
