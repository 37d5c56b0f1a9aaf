package merge

import "lukechampine.com/blake3"

const (
	blake3LeafPrefix     = 0x00
	blake3InternalPrefix = 0x01
	blake3PeakPrefix     = 0x02
)

// Blake3 merges child hashes with a domain-separating prefix byte so that a
// leaf hash, an interior merge, and a peak-bagging merge can never collide
// even if their inputs happen to coincide: Merge writes 0x01, MergePeaks
// writes 0x02, and HashLeaf (provided for callers building the initial
// leaves) writes 0x00.
type Blake3 struct{}

// HashLeaf hashes a raw leaf payload as blake3(0x00 || data).
func (Blake3) HashLeaf(data []byte) [32]byte {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, blake3LeafPrefix)
	buf = append(buf, data...)
	return blake3.Sum256(buf)
}

// Merge implements mmr.Merge[[32]byte] as blake3(0x01 || left || right).
func (Blake3) Merge(left, right [32]byte) ([32]byte, error) {
	buf := make([]byte, 0, 1+64)
	buf = append(buf, blake3InternalPrefix)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return blake3.Sum256(buf), nil
}

// MergePeaks implements mmr.PeakMerger[[32]byte] as blake3(0x02 || right ||
// left), domain-separating the bagging fold from ordinary interior merges.
func (Blake3) MergePeaks(right, left [32]byte) ([32]byte, error) {
	buf := make([]byte, 0, 1+64)
	buf = append(buf, blake3PeakPrefix)
	buf = append(buf, right[:]...)
	buf = append(buf, left[:]...)
	return blake3.Sum256(buf), nil
}
