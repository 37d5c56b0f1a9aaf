// Package merge provides concrete mmr.Merge implementations over [32]byte
// items, each pinning a specific hash function and domain-separation scheme.
package merge

import "golang.org/x/crypto/blake2b"

// Blake2b256 merges two child hashes by hashing their plain concatenation:
// Merge(left, right) = blake2b_256(left || right). It does not
// domain-separate leaves from interior nodes or intra-tree merges from
// peak-bagging merges, matching the reference MMR's simple default combiner
// - the one a known-answer test vector is computed against.
type Blake2b256 struct{}

// HashLeaf hashes a raw leaf payload the same way the known-answer test
// vectors build their leaves: blake2b_256 of the payload bytes, unprefixed.
func (Blake2b256) HashLeaf(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Merge implements mmr.Merge[[32]byte].
func (Blake2b256) Merge(left, right [32]byte) ([32]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return blake2b.Sum256(buf), nil
}
