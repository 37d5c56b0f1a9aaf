package mmr

import "reflect"

// AncestryProof demonstrates that an mmr of size PrevSize is a genuine
// prefix of the mmr Proof was generated against: every leaf PrevSize once
// committed to is still present, unmoved, in the larger tree. PrevPeaks
// carries the peak items of that smaller tree so a verifier holding only the
// current root (and the claimed prior root) can check both the prior root's
// own consistency and its membership in the current one.
type AncestryProof[T any] struct {
	PrevPeaks []T
	PrevSize  uint64
	Proof     MerkleProof[T]
}

// VerifyAncestor checks that prevRoot is the correct root for an mmr of size
// PrevSize, and that PrevPeaks - the nodes that prove it - are themselves
// genuine nodes of the mmr whose root is root. Node positions are always
// allowed here regardless of the caller's node-proof policy elsewhere: every
// prior peak above height 0 is an interior node of the current mmr, so an
// ancestry proof that rejected interior positions could only verify prior
// sizes whose peaks are all single leaves.
func (a *AncestryProof[T]) VerifyAncestor(root, prevRoot T) (bool, error) {
	currentLeafCount := PeakMap(a.Proof.mmrSize)
	if currentLeafCount <= uint64(len(a.PrevPeaks)) {
		return false, ErrCorruptedProof
	}

	prevPeaksPositions := GetPeaks(a.PrevSize)
	if len(prevPeaksPositions) != len(a.PrevPeaks) {
		return false, ErrCorruptedProof
	}

	calculatedPrevRoot, err := baggingPeaksHashes(append([]T(nil), a.PrevPeaks...), a.Proof.merge)
	if err != nil {
		return false, err
	}
	if !reflect.DeepEqual(calculatedPrevRoot, prevRoot) {
		return false, nil
	}

	nodes := make([]ProofItem[T], len(a.PrevPeaks))
	for i, peak := range a.PrevPeaks {
		nodes[i] = ProofItem[T]{Pos: prevPeaksPositions[i], Item: peak}
	}

	return a.Proof.Verify(root, nodes, AllowNodeProofs())
}
