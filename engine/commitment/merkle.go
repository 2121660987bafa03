// Package commitment implements the ICS-23 commitment types: Merkle roots,
// store prefixes, key paths and chained existence/absence proofs.
package commitment

import (
	"bytes"
	"fmt"
	"strings"

	ics23 "github.com/confio/ics23/go"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// MerkleRoot is the app hash a light client has accepted for a counterparty
// height. All proofs at that height verify against this root.
type MerkleRoot struct {
	Hash []byte `json:"hash"`
}

// NewMerkleRoot constructs a root from a hash.
func NewMerkleRoot(hash []byte) MerkleRoot {
	return MerkleRoot{Hash: hash}
}

// Empty returns true if the root carries no hash.
func (r MerkleRoot) Empty() bool { return len(r.Hash) == 0 }

// MerklePrefix is the key prefix under which a chain stores its IBC state,
// e.g. the "ibc" store key. The counterparty prepends it to every proven path.
type MerklePrefix struct {
	KeyPrefix []byte `json:"key_prefix"`
}

// NewMerklePrefix constructs a prefix from raw bytes.
func NewMerklePrefix(keyPrefix []byte) MerklePrefix {
	return MerklePrefix{KeyPrefix: keyPrefix}
}

// Empty returns true if the prefix carries no bytes.
func (p MerklePrefix) Empty() bool { return len(p.KeyPrefix) == 0 }

// MerklePath is a slash-delimited key path into the counterparty's
// Merkleized store. The outermost key comes first.
type MerklePath struct {
	KeyPath []string `json:"key_path"`
}

// NewMerklePath constructs a path from ordered keys.
func NewMerklePath(keyPath ...string) MerklePath {
	return MerklePath{KeyPath: keyPath}
}

// String implements fmt.Stringer.
func (p MerklePath) String() string {
	return strings.Join(p.KeyPath, "/")
}

// Empty returns true if the path has no keys.
func (p MerklePath) Empty() bool { return len(p.KeyPath) == 0 }

// GetKey returns the key at the given index.
func (p MerklePath) GetKey(i uint64) (string, error) {
	if i >= uint64(len(p.KeyPath)) {
		return "", fmt.Errorf("index out of range. %d (index) >= %d (len)", i, len(p.KeyPath))
	}
	return p.KeyPath[i], nil
}

// ApplyPrefix prepends a store prefix to a path, yielding the full key path
// proven on the counterparty.
func ApplyPrefix(prefix MerklePrefix, path string) (MerklePath, error) {
	if prefix.Empty() {
		return MerklePath{}, sdkerrors.Wrap(ErrInvalidPrefix, "prefix can't be empty")
	}
	return NewMerklePath(string(prefix.KeyPrefix), path), nil
}

// MerkleProof is a chained ICS-23 proof: one commitment proof per nesting
// level of the counterparty's store, innermost last in path order.
type MerkleProof struct {
	Proofs []*ics23.CommitmentProof
}

// Empty returns true if the proof carries no subproofs.
func (proof MerkleProof) Empty() bool { return len(proof.Proofs) == 0 }

// VerifyMembership verifies that the value is committed under the path in
// the tree with the given root. It is total over malformed proofs.
func (proof MerkleProof) VerifyMembership(specs []*ics23.ProofSpec, root MerkleRoot, path MerklePath, value []byte) error {
	if err := proof.validateVerificationArgs(specs, root); err != nil {
		return err
	}

	// the subproof chain must consume exactly one path key per level
	if len(path.KeyPath) != len(specs) {
		return sdkerrors.Wrapf(ErrInvalidProof, "path length %d not same as proof %d", len(path.KeyPath), len(specs))
	}
	if len(value) == 0 {
		return sdkerrors.Wrap(ErrInvalidProof, "empty value in membership proof")
	}

	return verifyChainedMembershipProof(root.Hash, specs, proof.Proofs, path, value, 0)
}

// VerifyNonMembership verifies the absence of any value under the path.
// Only the innermost proof may be a nonexistence proof; the commitment of
// the empty subtree is then proven to exist up the chain.
func (proof MerkleProof) VerifyNonMembership(specs []*ics23.ProofSpec, root MerkleRoot, path MerklePath) error {
	if err := proof.validateVerificationArgs(specs, root); err != nil {
		return err
	}
	if len(path.KeyPath) != len(specs) {
		return sdkerrors.Wrapf(ErrInvalidProof, "path length %d not same as proof %d", len(path.KeyPath), len(specs))
	}

	switch proof.Proofs[0].Proof.(type) {
	case *ics23.CommitmentProof_Nonexist:
		// verify the absence of key in lowest subtree
		subroot, err := proof.Proofs[0].Calculate()
		if err != nil {
			return sdkerrors.Wrapf(ErrInvalidProof, "could not calculate root for proof index 0, merkle tree is likely empty. %v", err)
		}
		key, err := path.GetKey(uint64(len(path.KeyPath) - 1))
		if err != nil {
			return sdkerrors.Wrapf(ErrInvalidProof, "could not retrieve key bytes for key: %s", path.KeyPath[len(path.KeyPath)-1])
		}
		if ok := ics23.VerifyNonMembership(specs[0], subroot, proof.Proofs[0], []byte(key)); !ok {
			return sdkerrors.Wrapf(ErrInvalidProof, "could not verify absence of key %s", key)
		}
		// verify the proof of the subroot up the chain
		return verifyChainedMembershipProof(root.Hash, specs, proof.Proofs, path, subroot, 1)
	case *ics23.CommitmentProof_Exist:
		return sdkerrors.Wrap(ErrInvalidProof, "got existence proof in VerifyNonMembership, expected nonexistence proof")
	default:
		return sdkerrors.Wrapf(ErrInvalidProof, "expected proof type: %T, got: %T", &ics23.CommitmentProof_Exist{}, proof.Proofs[0].Proof)
	}
}

// verifyChainedMembershipProof verifies the chain of proofs from index up to
// the root. The value proven at each level is the calculated subroot of the
// level below it.
func verifyChainedMembershipProof(root []byte, specs []*ics23.ProofSpec, proofs []*ics23.CommitmentProof, keys MerklePath, value []byte, index int) error {
	var (
		subroot []byte
		err     error
	)
	subroot = value
	for i := index; i < len(proofs); i++ {
		switch proofs[i].Proof.(type) {
		case *ics23.CommitmentProof_Exist:
			subroot, err = proofs[i].Calculate()
			if err != nil {
				return sdkerrors.Wrapf(ErrInvalidProof, "could not calculate proof root at index %d. %v", i, err)
			}
			// keys are consumed from the end: the innermost proof uses the
			// last key of the path
			key, err := keys.GetKey(uint64(len(keys.KeyPath) - 1 - i))
			if err != nil {
				return sdkerrors.Wrapf(ErrInvalidProof, "could not retrieve key bytes for key at index %d", i)
			}
			if ok := ics23.VerifyMembership(specs[i], subroot, proofs[i], []byte(key), value); !ok {
				return sdkerrors.Wrapf(ErrInvalidProof, "chained membership proof failed to verify membership of value: %X in subroot %X at index %d", value, subroot, i)
			}
			// the subroot is the value proven at the next level
			value = subroot
		case *ics23.CommitmentProof_Nonexist:
			return sdkerrors.Wrapf(ErrInvalidProof, "chained membership proof contains nonexistence proof at index %d. If this is unexpected, please ensure that proof was queried from a height that contained the value in store", i)
		default:
			return sdkerrors.Wrapf(ErrInvalidProof, "expected proof type: %T, got: %T", &ics23.CommitmentProof_Exist{}, proofs[i].Proof)
		}
	}
	if !bytes.Equal(root, subroot) {
		return sdkerrors.Wrapf(ErrInvalidProof, "proof did not commit to expected root: %X, got: %X", root, subroot)
	}
	return nil
}

func (proof MerkleProof) validateVerificationArgs(specs []*ics23.ProofSpec, root MerkleRoot) error {
	if proof.Empty() {
		return sdkerrors.Wrap(ErrInvalidMerkleProof, "proof cannot be empty")
	}
	if root.Empty() {
		return sdkerrors.Wrap(ErrInvalidMerkleProof, "root cannot be empty")
	}
	if len(specs) != len(proof.Proofs) {
		return sdkerrors.Wrapf(ErrInvalidMerkleProof, "length of specs: %d not equal to length of proof: %d", len(specs), len(proof.Proofs))
	}
	for i, spec := range specs {
		if spec == nil {
			return sdkerrors.Wrapf(ErrInvalidProof, "spec at position %d is nil", i)
		}
	}
	return nil
}

// GetSDKSpecs returns the two-level proof spec of an SDK chain: an IAVL
// substore under a simple-Merkle multistore.
func GetSDKSpecs() []*ics23.ProofSpec {
	return []*ics23.ProofSpec{ics23.IavlSpec, ics23.TendermintSpec}
}
