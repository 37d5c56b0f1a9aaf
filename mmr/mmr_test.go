package mmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineIsEmpty(t *testing.T) {
	e := New[[32]byte](0, newTestStore(), testMerge{})
	assert.True(t, e.IsEmpty())
	_, err := e.GetRoot()
	assert.ErrorIs(t, err, ErrGetRootOnEmpty)
}

func TestPushReturnsLeafPositions(t *testing.T) {
	e := New[[32]byte](0, newTestStore(), testMerge{})
	for i := 0; i < 10; i++ {
		pos, err := e.Push(leafBytes(i))
		require.NoError(t, err)
		assert.Equal(t, LeafPos(uint64(i)), pos)
		require.NoError(t, e.Commit())
	}
	assert.Equal(t, LeafIndexToMMRSize(9), e.MMRSize())
}

func TestPushPropagatesMergeError(t *testing.T) {
	e := New[[32]byte](0, newTestStore(), failingMerge{})
	// The very first leaf never merges, so the failure only shows up once a
	// carry actually happens - at the second push, which completes a
	// height-1 parent.
	_, err := e.Push(leafBytes(0))
	require.NoError(t, err)
	require.NoError(t, e.Commit())
	_, err = e.Push(leafBytes(1))
	assert.Error(t, err)
}

func TestGetRootSingleLeaf(t *testing.T) {
	st := newTestStore()
	e := New[[32]byte](0, st, testMerge{})
	leaf := leafBytes(0)
	_, err := e.Push(leaf)
	require.NoError(t, err)
	require.NoError(t, e.Commit())

	root, err := e.GetRoot()
	require.NoError(t, err)
	assert.Equal(t, leaf, root)
}

func TestGetRootChangesOnEveryPush(t *testing.T) {
	e := New[[32]byte](0, newTestStore(), testMerge{})
	seen := map[[32]byte]bool{}
	for i := 0; i < 30; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
		require.NoError(t, e.Commit())
		root, err := e.GetRoot()
		require.NoError(t, err)
		assert.False(t, seen[root], "root repeated after push %d", i)
		seen[root] = true
	}
}

func TestGetRootDeterministic(t *testing.T) {
	build := func() [32]byte {
		e := New[[32]byte](0, newTestStore(), testMerge{})
		for i := 0; i < 17; i++ {
			_, err := e.Push(leafBytes(i))
			require.NoError(t, err)
		}
		require.NoError(t, e.Commit())
		root, err := e.GetRoot()
		require.NoError(t, err)
		return root
	}
	assert.Equal(t, build(), build())
}

func TestResumingEngineFromStoreMatchesContinuousBuild(t *testing.T) {
	st := newTestStore()
	e1 := New[[32]byte](0, st, testMerge{})
	for i := 0; i < 5; i++ {
		_, err := e1.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e1.Commit())
	midSize := e1.MMRSize()

	// Resume against the same store from a fresh handle positioned at
	// midSize, as a process restart would.
	e2 := New[[32]byte](midSize, st, testMerge{})
	for i := 5; i < 12; i++ {
		_, err := e2.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e2.Commit())
	resumedRoot, err := e2.GetRoot()
	require.NoError(t, err)

	continuous := New[[32]byte](0, newTestStore(), testMerge{})
	for i := 0; i < 12; i++ {
		_, err := continuous.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, continuous.Commit())
	continuousRoot, err := continuous.GetRoot()
	require.NoError(t, err)

	assert.Equal(t, continuousRoot, resumedRoot)
}

func TestGetAncestorPeaksAndRootRejectsFutureSize(t *testing.T) {
	e := New[[32]byte](0, newTestStore(), testMerge{})
	for i := 0; i < 4; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	_, _, err := e.GetAncestorPeaksAndRoot(e.MMRSize() + 1)
	assert.ErrorIs(t, err, ErrAncestorRootNotPredecessor)
}

func TestGetAncestorPeaksAndRootAgreesWithHistoricalRoot(t *testing.T) {
	st := newTestStore()
	e := New[[32]byte](0, st, testMerge{})

	var rootAt = map[uint64][32]byte{}
	for i := 0; i < 20; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
		require.NoError(t, e.Commit())
		root, err := e.GetRoot()
		require.NoError(t, err)
		rootAt[e.MMRSize()] = root
	}

	for size, want := range rootAt {
		_, gotRoot, err := e.GetAncestorPeaksAndRoot(size)
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, want, gotRoot, "size %d", size)
	}
}
