// Package ast provides the expression tree and canonical addressing layer.
//
// This package contains type definitions and pure functions only. All other
// internal packages may import ast; ast imports nothing internal. This keeps
// the tree the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Term and argument order is preserved verbatim, never sorted. The
//     canonical form of a node is a pure function of its kind and its
//     children's canonical forms, so the same rendered position always
//     re-derives the same id.
//   - Node ids are a wire-level contract shared with the renderer that
//     assigned the caller's selected id. The canonical grammar and the
//     32-bit hash must not change unilaterally.
//   - All functions are side-effect free and safe for unsynchronized
//     concurrent use.
package ast
