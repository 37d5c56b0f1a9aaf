package mmr

import "math/bits"

// References:
// * https://github.com/proofchains/python-proofmarshal/blob/master/proofmarshal/mmr.py#L18
// * https://github.com/mimblewimble/grin/blob/0ff6763ee64e5a14e70ddd4642b99789a1648a32/core/src/core/pmmr.rs#L606

// bitLength returns the position of the highest set bit, 1-based, i.e. the
// smallest n such that num < 1<<n.
func bitLength(num uint64) uint64 {
	return uint64(bits.Len64(num))
}

// allOnes is true iff num, in binary, is of the form 0b0111...1 - every bit
// below the highest set bit is also set. Positions with this property are
// exactly the left-most peaks of a perfect subtree.
func allOnes(num uint64) bool {
	return (uint64(1)<<uint64(bits.OnesCount64(num)))-1 == num
}

// jumpLeftPerfect is used to iteratively discover the left most node at the
// same height as the node identified by pos1. This is how the height of a
// position is discovered without ever materializing the tree. It 'jumps left'
// by the size of the largest perfect subtree which would precede pos1.
//
// ** Note ** pos1 is the *one based* position, not the zero based Position.
func jumpLeftPerfect(pos1 uint64) uint64 {
	msb := uint64(1) << (bitLength(pos1) - 1)
	return pos1 - (msb - 1)
}

// posHeight1 obtains the tree height of a one-based position by repeatedly
// jumping left until an all-ones position (a left-most peak) is reached; the
// popcount of that position, minus one, is the height.
func posHeight1(pos1 uint64) uint64 {
	for !allOnes(pos1) {
		pos1 = jumpLeftPerfect(pos1)
	}
	return bitLength(pos1) - 1
}

// Height returns the height of the perfect subtree whose post-order root is
// pos. Leaves have height 0. This is the function on which every other
// position-arithmetic helper, and the MMR engine itself, is built: it is
// total over all uint64 positions and requires no storage access.
func Height(pos uint64) uint64 {
	return posHeight1(pos + 1)
}

// heightBitHack is an equivalent, branch-heavy formulation of Height, kept
// around because the two implementations were independently derived and
// cross-checking them against each other catches regressions that a single
// implementation's own test fixtures would not.
func heightBitHack(pos uint64) uint64 {
	peakSize := ^uint64(0) >> bits.LeadingZeros64(pos)
	for peakSize > 0 {
		if pos >= peakSize {
			pos -= peakSize
		}
		peakSize >>= 1
	}
	return pos
}

// jumpRightSibling moves from a one-based position to its right sibling at
// the same height.
func jumpRightSibling(pos1 uint64) uint64 {
	return pos1 + (uint64(1) << (posHeight1(pos1) + 1)) - 1
}

// leftChild returns the one-based position of the left child of the node at
// pos1. ok is false if pos1 is a leaf (height 0), in which case it has no
// children.
func leftChild(pos1 uint64) (uint64, bool) {
	h := posHeight1(pos1)
	if h == 0 {
		return 0, false
	}
	return pos1 - (uint64(1) << h), true
}

// SiblingOffset returns the distance between a position of the given height
// and its sibling: 2^(height+1) - 1.
func SiblingOffset(height uint64) uint64 {
	return (uint64(2) << height) - 1
}

// ParentOffset returns the distance between a left-child position of the
// given height and its parent: 2^(height+1).
func ParentOffset(height uint64) uint64 {
	return uint64(2) << height
}

// IsDescendantPos reports whether descendant lies within the perfect subtree
// rooted at ancestor (inclusive of ancestor itself). Both are zero-based
// positions. This is computable from positions and heights alone.
func IsDescendantPos(ancestor, descendant uint64) bool {
	if descendant > ancestor {
		return false
	}
	// a perfect subtree of this height always has exactly size = 2^(h+1)-1
	// nodes ending at (and including) ancestor, by construction of Height.
	size := (uint64(2) << Height(ancestor)) - 1
	leftmost := ancestor + 1 - size
	return descendant >= leftmost
}
