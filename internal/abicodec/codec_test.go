package abicodec

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Selectors below are the well-known ERC-20 values; they pin the codec to
// real Keccak-256, not SHA3-256.
func TestSelectorKnownValues(t *testing.T) {
	assert.Equal(t, "0x06fdde03", Selector("name()"))
	assert.Equal(t, "0x95d89b41", Selector("symbol()"))
	assert.Equal(t, "0x313ce567", Selector("decimals()"))
	assert.Equal(t, "0x18160ddd", Selector("totalSupply()"))
	assert.Equal(t, "0x70a08231", Selector("balanceOf(address)"))
}

func TestEncodeCallNoArgs(t *testing.T) {
	data, err := EncodeCall("totalSupply()")
	require.NoError(t, err)
	assert.Equal(t, "0x18160ddd", data)

	_, err = EncodeCall("totalSupply()", "0xdac17f958d2ee523a2206206994597c13d831ec7")
	assert.ErrorIs(t, err, ErrUnsupportedSignature)
}

func TestEncodeCallSingleAddress(t *testing.T) {
	data, err := EncodeCall("balanceOf(address)", "0xDAC17F958D2EE523A2206206994597C13D831EC7")
	require.NoError(t, err)
	assert.Equal(t,
		"0x70a08231000000000000000000000000dac17f958d2ee523a2206206994597c13d831ec7",
		data)

	_, err = EncodeCall("balanceOf(address)")
	assert.ErrorIs(t, err, ErrUnsupportedSignature)

	_, err = EncodeCall("balanceOf(address)", "nope")
	assert.Error(t, err)
}

func TestEncodeCallRejectsArbitrarySignatures(t *testing.T) {
	for _, sig := range []string{
		"transfer(address,uint256)",
		"approve(address,uint256)",
		"allowance(address,address)",
	} {
		_, err := EncodeCall(sig, "0xdac17f958d2ee523a2206206994597c13d831ec7", "1")
		assert.ErrorIs(t, err, ErrUnsupportedSignature, sig)
	}
}

func TestDecodeUint(t *testing.T) {
	n, err := DecodeUint("0x" + strings.Repeat("0", 63) + "9")
	require.NoError(t, err)
	assert.EqualValues(t, 9, n.Int64())

	n, err = DecodeUint("0x0de0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", n.String())

	_, err = DecodeUint("0x")
	assert.Error(t, err)
	_, err = DecodeUint("0xzz")
	assert.Error(t, err)
}

func TestDecodeDynamicString(t *testing.T) {
	s := "Tether USD"
	payload := fmt.Sprintf("0x%064x%064x%s%s",
		32, len(s),
		hex.EncodeToString([]byte(s)),
		strings.Repeat("0", 64-len(s)*2))

	got, err := DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeBytes32String(t *testing.T) {
	// MKR-style fixed-width return: "MKR" right-padded with zeros.
	raw := hex.EncodeToString([]byte("MKR")) + strings.Repeat("0", 64-6)
	got, err := DecodeString("0x" + raw)
	require.NoError(t, err)
	assert.Equal(t, "MKR", got)
}

func TestDecodeStringMalformed(t *testing.T) {
	_, err := DecodeString("0x")
	assert.Error(t, err)
	_, err = DecodeString("deadbeef")
	assert.Error(t, err)
}
