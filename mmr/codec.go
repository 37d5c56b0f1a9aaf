package mmr

import "github.com/fxamacker/cbor/v2"

// The wire types below mirror MerkleProof and AncestryProof field for field
// but drop the merge implementation, which cannot cross the wire: a decoded
// proof is only as good as the merge its receiver already trusts for the
// item type, so Unmarshal takes it as a parameter rather than guessing it.

type proofItemWire[T any] struct {
	Pos  uint64 `cbor:"1,keyasint"`
	Item T      `cbor:"2,keyasint"`
}

type merkleProofWire[T any] struct {
	MMRSize uint64              `cbor:"1,keyasint"`
	Proof   []proofItemWire[T]  `cbor:"2,keyasint"`
}

type ancestryProofWire[T any] struct {
	PrevPeaks []T                `cbor:"1,keyasint"`
	PrevSize  uint64             `cbor:"2,keyasint"`
	Proof     merkleProofWire[T] `cbor:"3,keyasint"`
}

// MarshalMerkleProof encodes a proof for wire transport or storage.
func MarshalMerkleProof[T any](p *MerkleProof[T]) ([]byte, error) {
	wire := merkleProofWire[T]{MMRSize: p.mmrSize, Proof: make([]proofItemWire[T], len(p.proof))}
	for i, it := range p.proof {
		wire.Proof[i] = proofItemWire[T]{Pos: it.Pos, Item: it.Item}
	}
	return cbor.Marshal(wire)
}

// UnmarshalMerkleProof decodes a proof produced by MarshalMerkleProof,
// attaching merge so the result is immediately usable with Verify.
func UnmarshalMerkleProof[T any](data []byte, merge Merge[T]) (*MerkleProof[T], error) {
	var wire merkleProofWire[T]
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	items := make([]ProofItem[T], len(wire.Proof))
	for i, it := range wire.Proof {
		items[i] = ProofItem[T]{Pos: it.Pos, Item: it.Item}
	}
	return NewMerkleProof(wire.MMRSize, items, merge), nil
}

// MarshalAncestryProof encodes an ancestry proof for wire transport or
// storage.
func MarshalAncestryProof[T any](a *AncestryProof[T]) ([]byte, error) {
	wire := ancestryProofWire[T]{
		PrevPeaks: a.PrevPeaks,
		PrevSize:  a.PrevSize,
	}
	wire.Proof.MMRSize = a.Proof.mmrSize
	wire.Proof.Proof = make([]proofItemWire[T], len(a.Proof.proof))
	for i, it := range a.Proof.proof {
		wire.Proof.Proof[i] = proofItemWire[T]{Pos: it.Pos, Item: it.Item}
	}
	return cbor.Marshal(wire)
}

// UnmarshalAncestryProof decodes an ancestry proof produced by
// MarshalAncestryProof, attaching merge to the embedded MerkleProof.
func UnmarshalAncestryProof[T any](data []byte, merge Merge[T]) (*AncestryProof[T], error) {
	var wire ancestryProofWire[T]
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	items := make([]ProofItem[T], len(wire.Proof.Proof))
	for i, it := range wire.Proof.Proof {
		items[i] = ProofItem[T]{Pos: it.Pos, Item: it.Item}
	}
	return &AncestryProof[T]{
		PrevPeaks: wire.PrevPeaks,
		PrevSize:  wire.PrevSize,
		Proof:     *NewMerkleProof(wire.Proof.MMRSize, items, merge),
	}, nil
}
