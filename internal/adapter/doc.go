// Package adapter converts between the addressed expression tree used for
// node identity and the algebra engine's working representation.
//
// The two representations deliberately differ: the tree side preserves the
// exact surface the user typed (multiplication as a "times" application,
// numbers as literals), while the algebra side is the shape the matcher and
// simplifier want (n-ary products, exact rationals, the imaginary unit as a
// constant). Conversion is lossless in both directions for every form the
// parser can produce.
package adapter
