package chain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress is returned for anything that is not a 20-byte hex
// account identifier. Analyze fails with it before any network call.
var ErrInvalidAddress = errors.New("invalid contract address")

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// NormalizeAddress validates s and returns the canonical form: lowercase
// hex with the 0x prefix. Equality on canonical addresses is therefore
// case-insensitive equality on the inputs.
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !addressPattern.MatchString(s) || !common.IsHexAddress(s) {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(s).Hex()), nil
}

// SameAddress reports case-insensitive equality of two hex addresses.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
