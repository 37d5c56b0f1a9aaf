package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlake3DomainSeparation(t *testing.T) {
	var m Blake3
	left := m.HashLeaf([]byte("left"))
	right := m.HashLeaf([]byte("right"))

	leaf := m.HashLeaf([]byte{})
	merged, err := m.Merge(left, right)
	assert.NoError(t, err)
	bagged, err := m.MergePeaks(left, right)
	assert.NoError(t, err)

	assert.NotEqual(t, leaf, merged)
	assert.NotEqual(t, leaf, bagged)
	assert.NotEqual(t, merged, bagged, "interior merge and peak bagging must not collide even over the same inputs")
}

func TestBlake3MergeIsOrderSensitive(t *testing.T) {
	var m Blake3
	left := m.HashLeaf([]byte("left"))
	right := m.HashLeaf([]byte("right"))

	ab, err := m.Merge(left, right)
	assert.NoError(t, err)
	ba, err := m.Merge(right, left)
	assert.NoError(t, err)
	assert.NotEqual(t, ab, ba)
}

func TestBlake3ImplementsPeakMerger(t *testing.T) {
	var m interface{} = Blake3{}
	_, ok := m.(interface {
		MergePeaks(a, b [32]byte) ([32]byte, error)
	})
	assert.True(t, ok)
}
