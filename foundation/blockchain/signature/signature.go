// Package signature provides the hashing support every other blockchain
// package builds on. Blocks and transactions define their own canonical
// concatenation of fields and hand the result to Hash.
package signature

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// HashLength is the number of hex characters in a hash produced by Hash.
const HashLength = 2 * sha256.Size

// ZeroHash represents a hash code of zeros.
const ZeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns the SHA-256 digest of the data as 64 lowercase hex characters
// with no 0x prefix. Changing how callers concatenate their fields changes
// every downstream hash, so the inputs must stay fixed.
func Hash[T ~string | ~[]byte](data T) string {
	hash := sha256.Sum256([]byte(data))
	return common.Bytes2Hex(hash[:])
}

// IsHash validates the value looks like a hash produced by Hash.
func IsHash(value string) bool {
	if len(value) != HashLength {
		return false
	}

	for _, c := range []byte(value) {
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}

	return true
}
