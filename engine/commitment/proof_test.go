package commitment

import (
	"testing"

	ics23 "github.com/confio/ics23/go"
	"github.com/stretchr/testify/require"
)

func TestMerkleProofRoundTrip(t *testing.T) {
	proof := MerkleProof{Proofs: []*ics23.CommitmentProof{
		{Proof: &ics23.CommitmentProof_Exist{Exist: &ics23.ExistenceProof{
			Key:   []byte("key"),
			Value: []byte("value"),
		}}},
		{Proof: &ics23.CommitmentProof_Exist{Exist: &ics23.ExistenceProof{
			Key:   []byte("ibc"),
			Value: []byte("subroot"),
		}}},
	}}

	bz, err := proof.MarshalMerkleProof()
	require.NoError(t, err)
	require.NotEmpty(t, bz)

	decoded, err := UnmarshalMerkleProof(bz)
	require.NoError(t, err)
	require.Len(t, decoded.Proofs, 2)
	require.Equal(t, []byte("key"), decoded.Proofs[0].GetExist().Key)
	require.Equal(t, []byte("ibc"), decoded.Proofs[1].GetExist().Key)
}

func TestMarshalMerkleProofNilSubproof(t *testing.T) {
	proof := MerkleProof{Proofs: []*ics23.CommitmentProof{nil}}
	_, err := proof.MarshalMerkleProof()
	require.ErrorIs(t, err, ErrInvalidMerkleProof)
}

// Unmarshal runs on relayer-supplied bytes and must reject garbage without
// panicking.
func TestUnmarshalMerkleProofTotality(t *testing.T) {
	testCases := []struct {
		name string
		bz   []byte
	}{
		{"empty", nil},
		{"truncated length prefix", []byte{0xff}},
		{"length exceeds remaining", []byte{0x0a, 0x01}},
		{"garbage payload", []byte{0x03, 0xde, 0xad, 0xbe}},
		{"zero length then garbage", []byte{0x00, 0xff}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := UnmarshalMerkleProof(tc.bz)
			require.ErrorIs(t, err, ErrInvalidMerkleProof)
		})
	}
}
