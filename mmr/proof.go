package mmr

import "reflect"

// ProofItem is one (position, item) pair: either a position the caller is
// asking to verify, or a witness the proof supplies to make that possible.
type ProofItem[T any] struct {
	Pos  uint64
	Item T
}

// VerifyOption configures a single Verify call.
type VerifyOption func(*verifyConfig)

type verifyConfig struct {
	allowNodeProofs bool
}

// AllowNodeProofs lifts the default restriction that Verify only accepts
// leaf positions. Proofs over interior positions are structurally sound -
// calculatePeakRoot does not care whether a position is a leaf - but most
// callers intend "prove these leaves", and a pos_list containing an interior
// position is far more often a caller bug than a deliberate ask. Ancestry
// verification always needs this, since a prior MMR's peaks are almost
// always interior nodes of the current one; AncestryProof.VerifyAncestor sets
// it unconditionally rather than asking the caller to remember to.
func AllowNodeProofs() VerifyOption {
	return func(c *verifyConfig) { c.allowNodeProofs = true }
}

// MerkleProof is a proof that a set of (position, item) pairs are consistent
// with a root of a given mmr size: either an inclusion proof for leaves, or
// the interior-position proof an AncestryProof carries over its prev_peaks.
type MerkleProof[T any] struct {
	mmrSize uint64
	proof   []ProofItem[T]
	merge   Merge[T]
}

// NewMerkleProof wraps a pre-built, position-sorted proof item list. Callers
// reconstructing a proof received over the wire should use this with the
// merge implementation appropriate to the item type, rather than building a
// MerkleProof by hand.
func NewMerkleProof[T any](mmrSize uint64, proof []ProofItem[T], merge Merge[T]) *MerkleProof[T] {
	return &MerkleProof[T]{mmrSize: mmrSize, proof: proof, merge: merge}
}

// MMRSize returns the size of the mmr this proof was generated against.
func (p *MerkleProof[T]) MMRSize() uint64 {
	return p.mmrSize
}

// ProofItems returns the witness items carried by the proof, ascending by
// position.
func (p *MerkleProof[T]) ProofItems() []ProofItem[T] {
	return p.proof
}

// CalculateRoot recomputes the mmr root implied by nodes (the positions
// being verified, each with its claimed item) and this proof's witnesses. It
// does not compare against any expected root; callers that want a
// pass/fail result should use Verify.
func (p *MerkleProof[T]) CalculateRoot(nodes []ProofItem[T]) (T, error) {
	return calculateRoot(nodes, p.mmrSize, p.proof, p.merge)
}

// CalculateRootWithNewLeaf re-derives the root of an mmr one leaf larger than
// the one this proof targets, without needing a fresh proof against the new
// size. It works because appending a leaf only ever touches the rightmost
// spine of peaks: if the new leaf starts a new perfect subtree of its own
// (its height doesn't immediately increase), it can simply be appended to
// nodes and verified against the unchanged peak proof; otherwise this proof's
// peaks are first reduced to hashes, placed at their positions in the old
// mmr, and used as the witnesses from which the new leaf's peak is rebuilt.
// In that second case every old peak hash must be recoverable: a proof whose
// rightmost peaks were bagged into one entry yields ErrCorruptedProof.
func (p *MerkleProof[T]) CalculateRootWithNewLeaf(nodes []ProofItem[T], newPos uint64, newElem T, newMMRSize uint64) (T, error) {
	var zero T
	posHeight := Height(newPos)
	nextHeight := Height(newPos + 1)
	if nextHeight <= posHeight {
		extended := append(append([]ProofItem[T]{}, nodes...), ProofItem[T]{Pos: newPos, Item: newElem})
		return calculateRoot(extended, newMMRSize, p.proof, p.merge)
	}

	peaksHashes, err := calculatePeaksHashes(nodes, p.mmrSize, p.proof, p.merge)
	if err != nil {
		return zero, err
	}
	peaksPos := GetPeaks(p.mmrSize)
	if len(peaksHashes) != len(peaksPos) {
		return zero, ErrCorruptedProof
	}

	peaks := make([]ProofItem[T], len(peaksPos))
	for j := range peaksPos {
		peaks[j] = ProofItem[T]{Pos: peaksPos[j], Item: peaksHashes[j]}
	}
	return calculateRoot([]ProofItem[T]{{Pos: newPos, Item: newElem}}, newMMRSize, peaks, p.merge)
}

// Verify checks that nodes is consistent with root under this proof. By
// default any position with Height > 0 is rejected with
// ErrNodeProofsNotSupported; pass AllowNodeProofs to lift that.
func (p *MerkleProof[T]) Verify(root T, nodes []ProofItem[T], opts ...VerifyOption) (bool, error) {
	var cfg verifyConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.allowNodeProofs {
		for _, n := range nodes {
			if Height(n.Pos) > 0 {
				return false, ErrNodeProofsNotSupported
			}
		}
	}
	calculated, err := p.CalculateRoot(nodes)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(calculated, root), nil
}

// reverseSlice reverses s in place.
func reverseSlice[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// splitProofAtMost splits an ascending, position-deduplicated proof item
// slice into the leading run <= maxPos and everything after it.
func splitProofAtMost[T any](items []ProofItem[T], maxPos uint64) (take, rest []ProofItem[T]) {
	i := 0
	for i < len(items) && items[i].Pos <= maxPos {
		i++
	}
	return items[:i], items[i:]
}

// dedupProofByPos collapses runs of equal-position entries in an
// already-sorted slice, keeping the first of each run.
func dedupProofByPos[T any](items []ProofItem[T]) []ProofItem[T] {
	if len(items) == 0 {
		return items
	}
	out := items[:1]
	for _, it := range items[1:] {
		if it.Pos != out[len(out)-1].Pos {
			out = append(out, it)
		}
	}
	return out
}

// peakQueueEntry is a position awaiting reduction to its parent during
// calculatePeakRoot.
type peakQueueEntry[T any] struct {
	pos    uint64
	item   T
	height uint64
}

// calculatePeakRoot folds nodes (a subset of the positions under peakPos,
// each already known) up to peakPos's own item, pulling whichever sibling
// witnesses it needs from nodes itself as it goes.
//
// nodes is processed as a deque rather than a plain queue because a needed
// sibling can arrive at either end: normal left-to-right reduction drains the
// front, but a witness can also have been appended after everything it
// needs to pair with, in which case it surfaces at the back first. Siblings
// consumed from the back are remembered in sibsProcessedFromBack so a parent
// produced from one is not re-enqueued a second time when it is later found
// sitting at the front under a different identity.
func calculatePeakRoot[T any](nodes []ProofItem[T], peakPos uint64, merge Merge[T]) (T, error) {
	var zero T
	if len(nodes) == 0 {
		return zero, ErrCorruptedProof
	}

	queue := make([]peakQueueEntry[T], len(nodes))
	for i, n := range nodes {
		queue[i] = peakQueueEntry[T]{pos: n.Pos, item: n.Item, height: Height(n.Pos)}
	}
	var sibsProcessedFromBack []peakQueueEntry[T]

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.pos == peakPos {
			if len(queue) == 0 {
				return cur.item, nil
			}
			allSame := true
			for _, e := range queue {
				if e.pos == peakPos && !reflect.DeepEqual(e.item, cur.item) {
					return zero, ErrCorruptedProof
				}
				if !(e.pos == peakPos && reflect.DeepEqual(e.item, cur.item) && e.height == cur.height) {
					allSame = false
				}
			}
			if allSame {
				return cur.item, nil
			}
			queue = append(queue, cur)
			continue
		}

		nextHeight := Height(cur.pos + 1)
		sibOffset := SiblingOffset(cur.height)

		var parentPos uint64
		var parentItem T
		if nextHeight > cur.height {
			sibPos := cur.pos - sibOffset
			parentPos = cur.pos + 1
			switch {
			case len(queue) > 0 && queue[0].pos == sibPos:
				sib := queue[0]
				queue = queue[1:]
				merged, err := merge.Merge(sib.item, cur.item)
				if err != nil {
					return zero, err
				}
				parentItem = merged
			case len(queue) > 0 && queue[len(queue)-1].pos == sibPos:
				sib := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				merged, err := merge.Merge(sib.item, cur.item)
				if err != nil {
					return zero, err
				}
				parentItem = merged
			case len(queue) > 0 && cur.height > 0 && IsDescendantPos(sibPos, queue[0].pos):
				queue = append(queue, cur)
				continue
			default:
				return zero, ErrCorruptedProof
			}
		} else {
			sibPos := cur.pos + sibOffset
			parentPos = cur.pos + ParentOffset(cur.height)
			switch {
			case len(queue) > 0 && queue[0].pos == sibPos:
				sib := queue[0]
				queue = queue[1:]
				merged, err := merge.Merge(cur.item, sib.item)
				if err != nil {
					return zero, err
				}
				parentItem = merged
			case len(queue) > 0 && queue[len(queue)-1].pos == sibPos:
				sib := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				merged, err := merge.Merge(cur.item, sib.item)
				if err != nil {
					return zero, err
				}
				parentItem = merged
				sibsProcessedFromBack = append(sibsProcessedFromBack, peakQueueEntry[T]{pos: sibPos, item: sib.item, height: cur.height})
			case len(queue) > 0 && cur.height > 0 && IsDescendantPos(sibPos, queue[0].pos):
				queue = append(queue, cur)
				continue
			default:
				return zero, ErrCorruptedProof
			}
		}

		if parentPos > peakPos {
			return zero, ErrCorruptedProof
		}
		parent := peakQueueEntry[T]{pos: parentPos, item: parentItem, height: cur.height + 1}
		if parentPos == peakPos {
			queue = append([]peakQueueEntry[T]{parent}, queue...)
			continue
		}
		alreadyFront := len(queue) > 0 && queue[0].pos == parent.pos && reflect.DeepEqual(queue[0].item, parent.item) && queue[0].height == parent.height
		processedFromBack := false
		for _, e := range sibsProcessedFromBack {
			if e.pos == parent.pos && reflect.DeepEqual(e.item, parent.item) && e.height == parent.height {
				processedFromBack = true
				break
			}
		}
		if !alreadyFront && !processedFromBack {
			queue = append([]peakQueueEntry[T]{parent}, queue...)
		}
	}
	return zero, ErrCorruptedProof
}

// calculatePeaksHashes reduces nodes plus proof's witnesses into one item per
// peak of mmrSize. A peak with nothing to prove under it - because gen_proof
// already collapsed it and its trailing neighbours into a single bagged
// witness at the leftmost of their positions - ends the reduction early; the
// loop does not manufacture entries for peaks it has no data for, leaving
// bagging to combine whatever peaksHashes it produced.
func calculatePeaksHashes[T any](nodes []ProofItem[T], mmrSize uint64, proof []ProofItem[T], merge Merge[T]) ([]T, error) {
	if mmrSize == 1 && len(nodes) == 1 && nodes[0].Pos == 0 {
		return []T{nodes[0].Item}, nil
	}

	combined := append(append([]ProofItem[T]{}, nodes...), proof...)
	sortProofItems(combined)
	combined = dedupProofByPos(combined)

	peaks := GetPeaks(mmrSize)
	if peaks == nil {
		return nil, ErrCorruptedProof
	}

	peaksHashes := make([]T, 0, len(peaks)+1)
	remaining := combined
	for _, peakPos := range peaks {
		var this []ProofItem[T]
		this, remaining = splitProofAtMost(remaining, peakPos)
		if len(this) == 0 {
			break
		}
		if len(this) == 1 && this[0].Pos == peakPos {
			peaksHashes = append(peaksHashes, this[0].Item)
			continue
		}
		root, err := calculatePeakRoot(this, peakPos, merge)
		if err != nil {
			return nil, err
		}
		peaksHashes = append(peaksHashes, root)
	}

	if len(remaining) != 0 {
		return nil, ErrCorruptedProof
	}
	return peaksHashes, nil
}

// baggingPeaksHashes folds peak hashes right to left via mergePeaks.
func baggingPeaksHashes[T any](peaksHashes []T, merge Merge[T]) (T, error) {
	var zero T
	stack := append([]T(nil), peaksHashes...)
	for len(stack) > 1 {
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		merged, err := mergePeaks(merge, right, left)
		if err != nil {
			return zero, err
		}
		stack = append(stack, merged)
	}
	if len(stack) == 0 {
		return zero, ErrCorruptedProof
	}
	return stack[0], nil
}

// calculateRoot is calculatePeaksHashes followed by baggingPeaksHashes - the
// two-stage reduction every root computation in this package goes through.
func calculateRoot[T any](nodes []ProofItem[T], mmrSize uint64, proof []ProofItem[T], merge Merge[T]) (T, error) {
	peaksHashes, err := calculatePeaksHashes(nodes, mmrSize, proof, merge)
	if err != nil {
		var zero T
		return zero, err
	}
	return baggingPeaksHashes(peaksHashes, merge)
}
