package commitment

import (
	"testing"

	ics23 "github.com/confio/ics23/go"
	"github.com/stretchr/testify/require"
)

func TestApplyPrefix(t *testing.T) {
	prefix := NewMerklePrefix([]byte("storePrefixKey"))
	pathStr := "path1/path2/path3/key"

	prefixedPath, err := ApplyPrefix(prefix, pathStr)
	require.NoError(t, err)
	require.Equal(t, "storePrefixKey/"+pathStr, prefixedPath.String())

	// a nested path is a single key of the merkle path, not re-split
	key, err := prefixedPath.GetKey(1)
	require.NoError(t, err)
	require.Equal(t, pathStr, key)

	_, err = ApplyPrefix(MerklePrefix{}, pathStr)
	require.Error(t, err)
}

func TestMerklePath(t *testing.T) {
	path := NewMerklePath("ibc", "connections/connection-0")
	require.Equal(t, "ibc/connections/connection-0", path.String())
	require.False(t, path.Empty())
	require.True(t, NewMerklePath().Empty())

	_, err := path.GetKey(2)
	require.Error(t, err)
}

func TestVerifyMembershipRejections(t *testing.T) {
	root := NewMerkleRoot([]byte("deadbeef"))
	path := NewMerklePath("ibc", "key")
	value := []byte("value")

	existProof := &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: &ics23.ExistenceProof{}}}
	nonexistProof := &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Nonexist{Nonexist: &ics23.NonExistenceProof{}}}

	testCases := []struct {
		name  string
		proof MerkleProof
		specs []*ics23.ProofSpec
		path  MerklePath
		value []byte
	}{
		{"empty proof", MerkleProof{}, GetSDKSpecs(), path, value},
		{"spec length mismatch", MerkleProof{Proofs: []*ics23.CommitmentProof{existProof}}, GetSDKSpecs(), path, value},
		{"nil spec", MerkleProof{Proofs: []*ics23.CommitmentProof{existProof, existProof}}, []*ics23.ProofSpec{nil, nil}, path, value},
		{"path length mismatch", MerkleProof{Proofs: []*ics23.CommitmentProof{existProof, existProof}}, GetSDKSpecs(), NewMerklePath("ibc"), value},
		{"empty value", MerkleProof{Proofs: []*ics23.CommitmentProof{existProof, existProof}}, GetSDKSpecs(), path, nil},
		{"nonexistence subproof", MerkleProof{Proofs: []*ics23.CommitmentProof{nonexistProof, nonexistProof}}, GetSDKSpecs(), path, value},
		{"malformed existence subproof", MerkleProof{Proofs: []*ics23.CommitmentProof{existProof, existProof}}, GetSDKSpecs(), path, value},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.proof.VerifyMembership(tc.specs, root, tc.path, tc.value)
			require.Error(t, err)
		})
	}
}

func TestVerifyNonMembershipRejections(t *testing.T) {
	root := NewMerkleRoot([]byte("deadbeef"))
	path := NewMerklePath("ibc", "key")

	existProof := &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Exist{Exist: &ics23.ExistenceProof{}}}
	nonexistProof := &ics23.CommitmentProof{Proof: &ics23.CommitmentProof_Nonexist{Nonexist: &ics23.NonExistenceProof{}}}

	// an existence proof where a nonexistence proof is required is rejected
	// before any hashing happens
	proof := MerkleProof{Proofs: []*ics23.CommitmentProof{existProof, existProof}}
	err := proof.VerifyNonMembership(GetSDKSpecs(), root, path)
	require.ErrorIs(t, err, ErrInvalidProof)

	// an empty nonexistence proof cannot calculate a subroot
	proof = MerkleProof{Proofs: []*ics23.CommitmentProof{nonexistProof, existProof}}
	err = proof.VerifyNonMembership(GetSDKSpecs(), root, path)
	require.Error(t, err)

	// empty root
	err = proof.VerifyNonMembership(GetSDKSpecs(), MerkleRoot{}, path)
	require.ErrorIs(t, err, ErrInvalidMerkleProof)
}
