// Package abicodec is a deliberately small ERC-20 call codec for the raw
// RPC fallback. It supports exactly two call shapes: no-argument reads
// (name(), symbol(), decimals(), totalSupply()) and single-address-argument
// reads (balanceOf(address)). Anything else returns
// ErrUnsupportedSignature instead of silently producing bad calldata.
package abicodec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrUnsupportedSignature is returned for call shapes the codec does not
// encode. Callers must not work around it by hand-rolling calldata.
var ErrUnsupportedSignature = errors.New("abicodec: unsupported method signature")

const wordHexLen = 64 // one 32-byte ABI word in hex digits

// Selector returns the 4-byte method selector for a canonical signature,
// as 0x-prefixed hex.
func Selector(signature string) string {
	sum := crypto.Keccak256([]byte(signature))
	return "0x" + hex.EncodeToString(sum[:4])
}

// EncodeCall builds eth_call data for the supported shapes.
// A no-argument call takes no args; a "(address)" call takes exactly one
// hex address argument.
func EncodeCall(signature string, args ...string) (string, error) {
	switch {
	case strings.HasSuffix(signature, "()"):
		if len(args) != 0 {
			return "", fmt.Errorf("%w: %s takes no arguments", ErrUnsupportedSignature, signature)
		}
		return Selector(signature), nil

	case strings.HasSuffix(signature, "(address)"):
		if len(args) != 1 {
			return "", fmt.Errorf("%w: %s takes exactly one address", ErrUnsupportedSignature, signature)
		}
		if !common.IsHexAddress(args[0]) {
			return "", fmt.Errorf("abicodec: %q is not an address", args[0])
		}
		addr := common.HexToAddress(args[0])
		word := common.LeftPadBytes(addr.Bytes(), 32)
		return Selector(signature) + hex.EncodeToString(word), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSignature, signature)
	}
}

// DecodeUint decodes a single uint256 return word.
func DecodeUint(data string) (*big.Int, error) {
	raw, err := stripHex(data)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, errors.New("abicodec: empty uint return data")
	}
	n, ok := new(big.Int).SetString(raw, 16)
	if !ok {
		return nil, fmt.Errorf("abicodec: malformed uint return data %q", data)
	}
	return n, nil
}

// DecodeString decodes a dynamically-encoded string return value
// (offset word, length word, then the bytes). Fixed 32-byte string
// returns (bytes32-style name/symbol) are handled as a fallback.
func DecodeString(data string) (string, error) {
	raw, err := stripHex(data)
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", errors.New("abicodec: empty string return data")
	}

	if len(raw) >= 3*wordHexLen {
		length, err := parseWord(raw[wordHexLen : 2*wordHexLen])
		if err == nil && length.IsInt64() {
			n := length.Int64()
			if n >= 0 && int64(len(raw)-2*wordHexLen) >= n*2 {
				b, err := hex.DecodeString(raw[2*wordHexLen : 2*wordHexLen+n*2])
				if err == nil && utf8.Valid(b) {
					return string(b), nil
				}
			}
		}
	}

	// bytes32-style: trim trailing zero padding.
	if len(raw) == wordHexLen {
		b, err := hex.DecodeString(raw)
		if err == nil {
			trimmed := strings.TrimRight(string(b), "\x00")
			if utf8.ValidString(trimmed) && trimmed != "" {
				return trimmed, nil
			}
		}
	}

	return "", fmt.Errorf("abicodec: malformed string return data %q", data)
}

func parseWord(word string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(word, 16)
	if !ok {
		return nil, fmt.Errorf("abicodec: malformed word %q", word)
	}
	return n, nil
}

func stripHex(data string) (string, error) {
	data = strings.TrimSpace(data)
	if data == "" || data == "0x" {
		return "", nil
	}
	if !strings.HasPrefix(data, "0x") {
		return "", fmt.Errorf("abicodec: return data %q lacks 0x prefix", data)
	}
	return data[2:], nil
}
