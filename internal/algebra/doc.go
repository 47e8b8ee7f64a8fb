// Package algebra implements the symbolic engine consumed by the suggestion
// pipeline: exact rational arithmetic, simplification, expansion, polynomial
// utilities, differentiation, and structural pattern matching.
//
// Constructors build literal trees and never evaluate. `a - b` written by a
// rule author stays Add(a, Mul(-1, b)) until someone asks for Simplify. This
// is load-bearing: rule templates must preserve the author's shape so that
// matching distinguishes forms that are mathematically equal but visually
// different.
//
// All values are immutable once constructed and safe to share across
// goroutines. Simplify and friends return new trees.
package algebra
