// Package digest provides helper functions for producing the canonical
// hashes used to link and secure blocks in the chain.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros. It's used as the previous
// block hash for the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Length is the number of hex characters in every hash produced.
const Length = 64

// =============================================================================

// Algorithm identifies the hash function used to produce a digest.
type Algorithm string

// Set of supported algorithms.
const (
	SHA256    Algorithm = "sha256"
	Keccak256 Algorithm = "keccak256"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch alg := Algorithm(s); alg {
	case SHA256, Keccak256:
		return alg, nil
	case "":
		return SHA256, nil
	}

	return "", fmt.Errorf("unknown digest algorithm %q", s)
}

// Sum hashes the raw bytes with the algorithm and returns the hex encoding.
func (alg Algorithm) Sum(data []byte) string {
	switch alg {
	case Keccak256:
		return hex.EncodeToString(crypto.Keccak256(data))
	default:
		hash := sha256.Sum256(data)
		return hex.EncodeToString(hash[:])
	}
}

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to
// JSON first, so struct field order defines the canonical serialization.
func Hash(alg Algorithm, value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return alg.Sum(data)
}
