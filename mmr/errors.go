package mmr

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine, proofs and verifiers. Callers
// should use errors.Is against these; StoreError additionally wraps the
// underlying store failure and should be unwrapped with errors.As/errors.Unwrap
// when more detail is needed.
var (
	ErrGetRootOnEmpty             = errors.New("mmr: get root on an empty mmr")
	ErrInconsistentStore          = errors.New("mmr: store is missing a position within its own size")
	ErrCorruptedProof             = errors.New("mmr: proof is structurally inconsistent")
	ErrGenProofForInvalidNodes    = errors.New("mmr: proof requested for an empty or out of range position set")
	ErrNodeProofsNotSupported     = errors.New("mmr: proof targets a non-leaf position and node proofs are not enabled")
	ErrAncestorRootNotPredecessor = errors.New("mmr: prev_size exceeds the current mmr size")
)

// StoreError wraps a failure surfaced by a NodeReader/NodeWriter during a
// read, append or commit. The engine never inspects the wrapped error; it exists
// purely so the caller's backing store can report its own failure modes.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("mmr: store error during %s: %s", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
