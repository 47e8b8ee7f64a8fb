// Package rules loads the rewrite rule catalog from plain-text definition
// files.
//
// Each non-empty, non-comment line declares one bidirectional rule:
//
//	<left-side> rewrite <right-side> [# rule: <name> | label: <text>]
//
// Sides use ordinary infix notation (+, -, *, /, ^ or **, parentheses,
// single-argument function calls). Sides parse literally, with no
// simplification, so a rule author's a-b keeps its shape. The union of free
// variables across both sides becomes the rule's wildcard set; each side is
// kept twice, as a literal template for instantiating replacements and as a
// wildcard pattern for matching.
//
// Loading is resilient: a malformed line, an unreadable file, or a missing
// directory shrinks the catalog instead of failing startup. The loaded
// Catalog is immutable and safe for concurrent readers.
//
// Rules that need behavior beyond plain match-and-instantiate (assumption
// gating, degeneracy guards, post-instantiation normalization, always-show)
// get capability variants attached by name from a fixed registry at load
// time; the matching loop never compares rule names itself.
package rules
