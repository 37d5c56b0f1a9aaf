package mmr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenAncestryProofVerifiesAgainstBothRoots(t *testing.T) {
	st := newTestStore()
	e := New[[32]byte](0, st, testMerge{})

	for i := 0; i < 6; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	prevSize := e.MMRSize()
	prevRoot, err := e.GetRoot()
	require.NoError(t, err)

	for i := 6; i < 20; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	root, err := e.GetRoot()
	require.NoError(t, err)

	ancestry, err := e.GenAncestryProof(prevSize)
	require.NoError(t, err)
	ok, err := ancestry.VerifyAncestor(root, prevRoot)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyAncestorRejectsWrongPrevRoot(t *testing.T) {
	st := newTestStore()
	e := New[[32]byte](0, st, testMerge{})
	for i := 0; i < 6; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	prevSize := e.MMRSize()

	for i := 6; i < 14; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	root, err := e.GetRoot()
	require.NoError(t, err)

	ancestry, err := e.GenAncestryProof(prevSize)
	require.NoError(t, err)

	var wrongPrevRoot [32]byte
	wrongPrevRoot[0] = 0xFF
	ok, err := ancestry.VerifyAncestor(root, wrongPrevRoot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAncestorRejectsTamperedPeak(t *testing.T) {
	st := newTestStore()
	e := New[[32]byte](0, st, testMerge{})
	for i := 0; i < 6; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	prevSize := e.MMRSize()
	prevRoot, err := e.GetRoot()
	require.NoError(t, err)

	for i := 6; i < 14; i++ {
		_, err := e.Push(leafBytes(i))
		require.NoError(t, err)
	}
	require.NoError(t, e.Commit())
	root, err := e.GetRoot()
	require.NoError(t, err)

	ancestry, err := e.GenAncestryProof(prevSize)
	require.NoError(t, err)
	ancestry.PrevPeaks[0][0] ^= 0xFF

	ok, err := ancestry.VerifyAncestor(root, prevRoot)
	if err != nil {
		// tampering may also be caught structurally, both are acceptable
		return
	}
	assert.False(t, ok)
}

func TestGenAncestryProofRejectsFutureSize(t *testing.T) {
	e, _ := buildEngine(t, 5)
	_, err := e.GenAncestryProof(e.MMRSize() + 100)
	assert.Error(t, err)
}

func TestExpectedAncestryProofSizeOnSingleLeaf(t *testing.T) {
	n, err := ExpectedAncestryProofSize(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
