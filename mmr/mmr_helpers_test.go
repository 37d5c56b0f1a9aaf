package mmr

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// testStore is a minimal in-memory Store[[32]byte], independent of the
// store package, so the mmr package's own tests don't reach outside the
// module boundary they're verifying.
type testStore struct {
	nodes map[uint64][32]byte
}

func newTestStore() *testStore {
	return &testStore{nodes: make(map[uint64][32]byte)}
}

func (s *testStore) Get(pos uint64) ([32]byte, bool, error) {
	item, ok := s.nodes[pos]
	return item, ok, nil
}

func (s *testStore) Append(startPos uint64, items [][32]byte) error {
	for i, item := range items {
		s.nodes[startPos+uint64(i)] = item
	}
	return nil
}

func (s *testStore) Commit() error { return nil }

// testMerge is a deterministic, order-sensitive sha256 combiner. It makes no
// attempt at the domain separation the real merge package implementations
// use - these tests are about the engine's position bookkeeping, not about
// any particular hash construction.
type testMerge struct{}

func (testMerge) Merge(left, right [32]byte) ([32]byte, error) {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// failingMerge always errors, used to exercise error propagation out of
// Push/GetRoot without needing a store failure.
type failingMerge struct{}

func (failingMerge) Merge([32]byte, [32]byte) ([32]byte, error) {
	return [32]byte{}, fmt.Errorf("merge: forced failure")
}

// leafBytes produces a distinct, deterministic leaf value for index i.
func leafBytes(i int) [32]byte {
	var out [32]byte
	binary.BigEndian.PutUint64(out[24:], uint64(i))
	out[0] = 0xAA
	return out
}
