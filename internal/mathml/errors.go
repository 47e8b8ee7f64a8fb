package mathml

import (
	"errors"
	"fmt"
)

// ParseError reports why a Content MathML document was rejected.
type ParseError struct {
	// Code identifies the error category.
	Code ParseErrorCode

	// Message is a human-readable description.
	Message string

	// Tag is the offending element name, when one is known.
	Tag string
}

// ParseErrorCode categorizes parse errors.
type ParseErrorCode string

const (
	// ErrCodeMalformed indicates the input was not well-formed XML even
	// after wrapping it as a fragment.
	ErrCodeMalformed ParseErrorCode = "MALFORMED_XML"

	// ErrCodeEmptyApply indicates an <apply> with no operator child.
	ErrCodeEmptyApply ParseErrorCode = "EMPTY_APPLY"

	// ErrCodeUnsupportedOperator indicates an apply head the parser has no
	// mapping for.
	ErrCodeUnsupportedOperator ParseErrorCode = "UNSUPPORTED_OPERATOR"

	// ErrCodeUnsupportedTag indicates an element that is neither a known
	// leaf nor a skippable single-child wrapper.
	ErrCodeUnsupportedTag ParseErrorCode = "UNSUPPORTED_TAG"

	// ErrCodeEmptyDocument indicates a <math> element with no children.
	ErrCodeEmptyDocument ParseErrorCode = "EMPTY_DOCUMENT"
)

func (e *ParseError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s (tag=%s)", e.Code, e.Message, e.Tag)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsParseError extracts a *ParseError from an error chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
