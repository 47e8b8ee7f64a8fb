// Package engine produces ranked rewrite suggestions for a selected
// subexpression.
//
// A Suggester holds the immutable rule catalog and a logger; everything
// else is request-scoped. Each suggestion pass runs the catalog rules in
// definition order, both directions, then a fixed sequence of algorithmic
// generators for shapes too parametric for static rule templates
// (complete-the-square, conjugate distributivity, derivative evaluation),
// then deduplicates candidates by their rendered structural markup, keeping
// the candidate whose rule carries the higher declared priority.
//
// Failures stay local: a rule that does not match is a normal negative
// result, and a candidate that cannot be rendered is dropped without
// affecting the others or the request.
package engine
