package commitment

import (
	"encoding/binary"

	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// Proof bytes carried in messages are a flat sequence of uvarint
// length-prefixed ics23 CommitmentProofs, outermost last. The format is an
// internal convention between the host and its relayers; proofs originate
// from untrusted input, so decoding is total.

// MarshalMerkleProof encodes a proof into its byte form.
func (proof MerkleProof) MarshalMerkleProof() ([]byte, error) {
	var out []byte
	var lenBuf [binary.MaxVarintLen64]byte
	for i, p := range proof.Proofs {
		if p == nil {
			return nil, sdkerrors.Wrapf(ErrInvalidMerkleProof, "subproof at position %d is nil", i)
		}
		bz, err := p.Marshal()
		if err != nil {
			return nil, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not marshal subproof at position %d: %v", i, err)
		}
		n := binary.PutUvarint(lenBuf[:], uint64(len(bz)))
		out = append(out, lenBuf[:n]...)
		out = append(out, bz...)
	}
	return out, nil
}

// UnmarshalMerkleProof decodes proof bytes. Any malformed input yields
// ErrInvalidMerkleProof, never a panic.
func UnmarshalMerkleProof(bz []byte) (MerkleProof, error) {
	if len(bz) == 0 {
		return MerkleProof{}, sdkerrors.Wrap(ErrInvalidMerkleProof, "proof bytes cannot be empty")
	}

	var proof MerkleProof
	for len(bz) > 0 {
		length, n := binary.Uvarint(bz)
		if n <= 0 {
			return MerkleProof{}, sdkerrors.Wrap(ErrInvalidMerkleProof, "malformed subproof length prefix")
		}
		bz = bz[n:]
		if length > uint64(len(bz)) {
			return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "subproof length %d exceeds remaining %d bytes", length, len(bz))
		}
		var sub ics23.CommitmentProof
		if err := sub.Unmarshal(bz[:length]); err != nil {
			return MerkleProof{}, sdkerrors.Wrapf(ErrInvalidMerkleProof, "could not unmarshal subproof: %v", err)
		}
		proof.Proofs = append(proof.Proofs, &sub)
		bz = bz[length:]
	}
	return proof, nil
}
