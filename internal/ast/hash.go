package ast

import "strconv"

// HashID computes the 32-bit node id for a canonical string.
//
// The hash is djb2 over the string's bytes (h = h*33 + c, seed 5381),
// truncated to uint32 and rendered as lowercase hex without zero padding.
// This exact function is part of the wire contract described in the package
// doc: changing the seed, the multiplier, the byte order, or the rendering
// requires a synchronized update on the renderer side.
//
// There is no collision handling. Two structurally distinct subtrees can in
// principle share an id; FindByID then returns whichever comes first in
// depth-first order. This limitation is inherited from the original contract
// and preserved deliberately.
func HashID(canonical string) string {
	var h uint32 = 5381
	for i := 0; i < len(canonical); i++ {
		h = h*33 + uint32(canonical[i])
	}
	return strconv.FormatUint(uint64(h), 16)
}
