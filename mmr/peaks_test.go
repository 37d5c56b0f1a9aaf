package mmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// peakFixtures pins GetPeaks against the worked example from the doc comment
// plus a handful of other complete sizes, derived by hand from the 0-based
// layout used throughout this package.
var peakFixtures = []struct {
	mmrSize uint64
	peaks   []uint64
}{
	{0, nil},
	{1, []uint64{0}},
	{3, []uint64{2}},
	{4, []uint64{2, 3}},
	{7, []uint64{6}},
	{8, []uint64{6, 7}},
	{10, []uint64{6, 9}},
	{11, []uint64{6, 9, 10}},
	{15, []uint64{14}},
}

func TestGetPeaksFixtures(t *testing.T) {
	for _, f := range peakFixtures {
		assert.Equal(t, f.peaks, GetPeaks(f.mmrSize), "mmrSize %d", f.mmrSize)
	}
}

func TestGetPeaksRejectsInvalidSize(t *testing.T) {
	// 2 would require a sibling at pos 1 to have a parent, but no parent
	// position has been allocated yet - size 2 is never produced by Push.
	assert.Nil(t, GetPeaks(2))
}

func TestGetPeaksDescendingHeight(t *testing.T) {
	for _, mmrSize := range []uint64{1, 3, 4, 7, 8, 10, 11, 15, 18, 25, 31} {
		peaks := GetPeaks(mmrSize)
		for i := 1; i < len(peaks); i++ {
			assert.Greater(t, Height(peaks[i-1]), Height(peaks[i]),
				"peaks must strictly decrease in height left to right, mmrSize %d", mmrSize)
			assert.Less(t, peaks[i-1], peaks[i])
		}
	}
}

func TestPeakMapMatchesLeafCount(t *testing.T) {
	for _, f := range peakFixtures {
		assert.Equal(t, LeafCount(f.mmrSize), PeakMap(f.mmrSize), "mmrSize %d", f.mmrSize)
	}
}

func TestLeafCountKnownValues(t *testing.T) {
	assert.Equal(t, uint64(0), LeafCount(0))
	assert.Equal(t, uint64(1), LeafCount(1))
	assert.Equal(t, uint64(2), LeafCount(3))
	assert.Equal(t, uint64(3), LeafCount(4))
	assert.Equal(t, uint64(4), LeafCount(7))
	assert.Equal(t, uint64(7), LeafCount(11))
}

// TestLeafCountMatchesNodeCountIdentity checks the standard MMR identity
// nodeCount = 2*leafCount - popcount(leafCount) against every size this
// package considers valid.
func TestLeafCountMatchesNodeCountIdentity(t *testing.T) {
	for _, mmrSize := range []uint64{1, 3, 4, 7, 8, 10, 11, 15, 18, 25, 31} {
		leaves := LeafCount(mmrSize)
		assert.Equal(t, mmrSize, 2*leaves-uint64(popcount(leaves)), "mmrSize %d", mmrSize)
	}
}

func popcount(v uint64) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}
