package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	got, err := NormalizeAddress("0xDAC17F958D2EE523A2206206994597C13D831EC7")
	require.NoError(t, err)
	assert.Equal(t, "0xdac17f958d2ee523a2206206994597c13d831ec7", got)

	// idempotent on already-canonical input
	again, err := NormalizeAddress(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestNormalizeAddressRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"",
		"not-an-address",
		"0x1234",
		"dac17f958d2ee523a2206206994597c13d831ec7",           // missing prefix
		"0xdac17f958d2ee523a2206206994597c13d831ec7aa",       // too long
		"0xzac17f958d2ee523a2206206994597c13d831ec7",         // non-hex
		"0x dac17f958d2ee523a2206206994597c13d831ec",         // embedded space
	} {
		_, err := NormalizeAddress(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, "input %q", in)
	}
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()

	require.Len(t, r.All(), 2)
	assert.Equal(t, KeyEthereum, r.Primary().Key)

	eth, err := r.ByKey("ethereum")
	require.NoError(t, err)
	assert.EqualValues(t, 1, eth.ID)
	assert.NotEmpty(t, eth.RPCEndpoints)

	base, err := r.ByID(8453)
	require.NoError(t, err)
	assert.Equal(t, "Base", base.Name)
	assert.True(t, base.ExplorerAPI.Multichain)

	_, err = r.ByKey("solana")
	assert.Error(t, err)
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xABC0000000000000000000000000000000000001", "0xabc0000000000000000000000000000000000001"))
	assert.False(t, SameAddress("0xabc0000000000000000000000000000000000001", "0xabc0000000000000000000000000000000000002"))
}
