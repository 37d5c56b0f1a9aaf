package mmr

// leafPos returns the zero-based position at which the leaf with the given
// zero-based leafIndex is stored, ignoring the interior back-fill nodes that
// follow it. Adapted from the grin/mimblewimble MMRIndex construction: at
// each step we peel off the largest perfect subtree that fits the remaining
// leaves and account for its internal node count.
func leafPos(leafIndex uint64) uint64 {
	sum := uint64(0)
	for leafIndex > 0 {
		h := bitLength(leafIndex)
		sum += (uint64(1) << h) - 1
		half := uint64(1) << (h - 1)
		leafIndex -= half
	}
	return sum
}

// completeSizeContaining returns the smallest valid MMR size that contains
// pos along with every interior node that pos's presence completes. mmrSizes
// skip the positions that are siblings awaiting a parent, so this is not
// simply pos+1.
func completeSizeContaining(pos uint64) uint64 {
	h0 := Height(pos)
	h1 := Height(pos + 1)
	for h0 < h1 {
		pos++
		h0 = h1
		h1 = Height(pos + 1)
	}
	return pos + 1
}

// LeafPos returns the zero-based position at which the leaf with the given
// zero-based leafIndex is stored.
func LeafPos(leafIndex uint64) uint64 {
	return leafPos(leafIndex)
}

// LeafIndexToMMRSize returns the MMR size immediately after appending the
// leaf with the given zero-based leafIndex - i.e. it includes that leaf and
// every back-filled interior node its addition completes.
func LeafIndexToMMRSize(leafIndex uint64) uint64 {
	return completeSizeContaining(leafPos(leafIndex))
}

// LeafIndex returns the zero-based leaf ordinal of the leaf stored at pos.
// pos must be a leaf position (Height(pos) == 0); the result is undefined
// otherwise.
func LeafIndex(pos uint64) uint64 {
	return LeafCount(completeSizeContaining(pos)) - 1
}

// ExpectedAncestryProofSize predicts the number of proof items an ancestry
// proof between prevSize and newSize will carry, without touching a store or
// computing a single hash: it replays the same peak-walking and bagging
// discipline that gen_proof uses, counting positions instead of fetching
// items for them. Useful for callers estimating calldata size or gas before
// they have a root to query, e.g. an on-chain bridge sizing a transaction.
func ExpectedAncestryProofSize(prevSize, newSize uint64) (int, error) {
	posList := GetPeaks(prevSize)
	if len(posList) == 0 {
		return 0, ErrGenProofForInvalidNodes
	}
	plan, err := planProof(posList, newSize)
	if err != nil {
		return 0, err
	}
	return len(plan), nil
}
