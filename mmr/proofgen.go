package mmr

import "sort"

// sortUnique returns posList sorted ascending with duplicates removed. It
// does not mutate its argument.
func sortUnique(posList []uint64) []uint64 {
	cp := append([]uint64(nil), posList...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:0]
	for i, p := range cp {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// splitAtMost splits the ascending, deduplicated positions into the leading
// run that is <= maxPos and everything after it.
func splitAtMost(positions []uint64, maxPos uint64) (take, rest []uint64) {
	i := 0
	for i < len(positions) && positions[i] <= maxPos {
		i++
	}
	return positions[:i], positions[i:]
}

// sortProofItems orders a proof's items ascending by position, the canonical
// order MerkleProof.Verify expects.
func sortProofItems[T any](items []ProofItem[T]) {
	sort.Slice(items, func(i, j int) bool { return items[i].Pos < items[j].Pos })
}

// planPeakProof walks the subtree rooted at peakPos, collecting the minimum
// set of sibling positions an auditor needs to recompute peakPos's hash from
// the positions named in posList (a subset of that subtree, ascending and
// deduplicated). It never touches a store: the result is a position plan,
// not a proof.
//
// The walk is breadth-first from the leaves upward: each position's sibling
// is either already queued (the sibling is itself being proven, so nothing
// needs to be emitted) or it is not, in which case its value must be
// supplied as a witness - unless the next queued position lies inside the
// sibling's subtree, so the sibling is rebuilt from that position and no
// witness is emitted for it. Either way the pair's parent is enqueued to
// repeat the check one level up, stopping once it reaches peakPos.
//
// emitted accumulates positions already pushed into the proof across all
// peaks processed so far in this call, so the same sibling is never supplied
// twice when two different target positions happen to need it.
func planPeakProof(posList []uint64, peakPos uint64, emitted map[uint64]bool) []uint64 {
	if len(posList) == 1 && posList[0] == peakPos {
		return nil
	}

	inTarget := make(map[uint64]bool, len(posList))
	for _, p := range posList {
		inTarget[p] = true
	}

	type item struct{ pos, height uint64 }
	queue := make([]item, len(posList))
	for i, p := range posList {
		queue[i] = item{p, Height(p)}
	}

	var proof []uint64
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.pos == peakPos {
			if len(queue) == 0 {
				break
			}
			continue
		}

		var sibPos, parentPos uint64
		if Height(cur.pos+1) > cur.height {
			sibPos = cur.pos - SiblingOffset(cur.height)
			parentPos = cur.pos + 1
		} else {
			sibPos = cur.pos + SiblingOffset(cur.height)
			parentPos = cur.pos + ParentOffset(cur.height)
		}

		switch {
		case len(queue) > 0 && queue[0].pos == sibPos:
			queue = queue[1:]
		case len(queue) == 0 || !IsDescendantPos(sibPos, queue[0].pos):
			if cur.height == 0 || (!emitted[sibPos] && !inTarget[sibPos]) {
				proof = append(proof, sibPos)
				emitted[sibPos] = true
			}
		}

		if parentPos < peakPos {
			queue = append(queue, item{parentPos, cur.height + 1})
		}
	}
	return proof
}

// walkPeaks runs planPeakProof across every current peak against posList (an
// ascending, deduplicated subset of valid positions for mmrSize, split per
// peak). It does not itself collapse a trailing run of peaks that contribute
// nothing to the proof into a single bagged entry; it returns the
// flat, pre-bagging-collapse position list alongside bookkeeping the caller
// needs to perform that collapse: peakSpans is the number of proof positions
// contributed by each peak in order, and bagTrack is the length of the
// trailing run of peaks whose span is a lone stand-in entry rather than a
// real witness.
func walkPeaks(posList []uint64, peaks []uint64) (proofPos []uint64, peakSpans []int, bagTrack int, err error) {
	remaining := posList
	emitted := map[uint64]bool{}
	peakSpans = make([]int, 0, len(peaks))
	for _, peakPos := range peaks {
		var this []uint64
		this, remaining = splitAtMost(remaining, peakPos)
		if len(this) == 0 {
			bagTrack++
		} else {
			bagTrack = 0
		}

		var items []uint64
		if len(this) == 0 {
			items = []uint64{peakPos}
		} else {
			items = planPeakProof(this, peakPos, emitted)
		}
		proofPos = append(proofPos, items...)
		peakSpans = append(peakSpans, len(items))
	}
	if len(remaining) != 0 {
		return nil, nil, 0, ErrGenProofForInvalidNodes
	}
	return proofPos, peakSpans, bagTrack, nil
}

// planProof predicts the position plan a real proof generation against
// posList would produce for an mmr of size mmrSize, already collapsed by
// trailing-peak bagging. It is the store-free twin of genProofCore's
// planning phase, used by ExpectedAncestryProofSize to answer a sizing
// question without needing a populated store.
func planProof(posList []uint64, mmrSize uint64) ([]uint64, error) {
	peaks := GetPeaks(mmrSize)
	if peaks == nil {
		return nil, ErrGenProofForInvalidNodes
	}
	proofPos, peakSpans, bagTrack, err := walkPeaks(posList, peaks)
	if err != nil {
		return nil, err
	}
	if bagTrack > 1 {
		start := 0
		for i := 0; i < len(peakSpans)-bagTrack; i++ {
			start += peakSpans[i]
		}
		proofPos = append(proofPos[:start], peaks[len(peaks)-bagTrack])
	}
	return proofPos, nil
}

// genProofCore builds the proof for posList (already sorted, deduplicated,
// and valid for e.mmrSize) against the engine's store. GenProof and
// GenAncestryProof handle their own argument validation and identity cases
// before delegating here, so this never needs to special-case an empty or
// single-element mmr.
func (e *Engine[T]) genProofCore(posList []uint64) (*MerkleProof[T], error) {
	peaks := GetPeaks(e.mmrSize)
	if peaks == nil {
		return nil, ErrGenProofForInvalidNodes
	}
	proofPos, peakSpans, bagTrack, err := walkPeaks(posList, peaks)
	if err != nil {
		return nil, err
	}

	proof := make([]ProofItem[T], len(proofPos))
	for i, pos := range proofPos {
		item, ok, gerr := e.batch.GetElem(pos)
		if gerr != nil {
			return nil, newStoreError("get_elem", gerr)
		}
		if !ok {
			return nil, ErrInconsistentStore
		}
		proof[i] = ProofItem[T]{Pos: pos, Item: item}
	}

	if bagTrack > 1 {
		start := 0
		for i := 0; i < len(peakSpans)-bagTrack; i++ {
			start += peakSpans[i]
		}
		rhsItems := make([]T, len(proof)-start)
		for i, p := range proof[start:] {
			rhsItems[i] = p.Item
		}
		bagged, berr := e.bagItems(rhsItems)
		if berr != nil {
			return nil, berr
		}
		proof = append(proof[:start], ProofItem[T]{Pos: peaks[len(peaks)-bagTrack], Item: bagged})
	}

	sortProofItems(proof)
	return NewMerkleProof(e.mmrSize, proof, e.merge), nil
}

// GenProof builds an inclusion/consistency proof for an arbitrary set of
// positions. Duplicates are ignored and order does not matter. Positions
// beyond the current mmr size cause ErrGenProofForInvalidNodes. Interior
// positions are accepted here; the leaf-only default is enforced by
// MerkleProof.Verify, not by proof generation.
func (e *Engine[T]) GenProof(posList []uint64) (*MerkleProof[T], error) {
	if len(posList) == 0 {
		return nil, ErrGenProofForInvalidNodes
	}
	unique := sortUnique(posList)
	if e.mmrSize == 1 && len(unique) == 1 && unique[0] == 0 {
		return NewMerkleProof[T](e.mmrSize, nil, e.merge), nil
	}
	return e.genProofCore(unique)
}

// GenAncestryProof builds a proof that the MMR of size prevSize is a genuine
// prefix of the current MMR. Internally this is a proof over prevSize's
// peaks - each one is, after all, just another node of the current tree -
// bundled with the peak items themselves so a verifier who only knows the
// current root can recompute and check the prior one.
func (e *Engine[T]) GenAncestryProof(prevSize uint64) (*AncestryProof[T], error) {
	posList := GetPeaks(prevSize)
	if posList == nil {
		return nil, ErrGenProofForInvalidNodes
	}
	if e.mmrSize == 1 && len(posList) == 1 && posList[0] == 0 {
		return &AncestryProof[T]{
			PrevSize: prevSize,
			Proof:    *NewMerkleProof[T](e.mmrSize, nil, e.merge),
		}, nil
	}

	proof, err := e.genProofCore(posList)
	if err != nil {
		return nil, err
	}
	prevPeaks, _, err := e.GetAncestorPeaksAndRoot(prevSize)
	if err != nil {
		return nil, err
	}
	return &AncestryProof[T]{
		PrevPeaks: prevPeaks,
		PrevSize:  prevSize,
		Proof:     *proof,
	}, nil
}
