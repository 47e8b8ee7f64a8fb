// Package mathml bridges Content MathML and the expression tree.
//
// The parser accepts the small Content MathML subset the editor produces:
// ci, cn, and apply with power, plus, times, the trigonometric and
// exponential operator elements, abs, conjugate, and diff, plus a generic
// ci-headed function application. It is deliberately tolerant of real-world
// input: HTML-escaped markup is unescaped first, a bare fragment without a
// <math> wrapper parses fine, text is normalized to NFC, and an unknown
// wrapper element with a single child is skipped rather than rejected.
//
// Two renderers go the other way. RenderContent emits Content MathML from a
// tree node, structured so the canonical form and node ids of the output
// parse back identically. RenderPresentation emits display Presentation
// MathML from an algebra expression; products with a leading numeric
// coefficient render the coefficient adjacent to the next factor with no
// dot operator, matching textbook style.
package mathml
