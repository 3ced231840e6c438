// Package cryptox implements the password key derivation used for stored
// credentials.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Supported key derivation algorithms.
const (
	AlgorithmPBKDF2SHA256 = "pbkdf2-sha256"
	AlgorithmArgon2id     = "argon2id"
)

// KeyLength is the size in bytes of every derived key.
const KeyLength = 32

// DefaultIterations is the PBKDF2 iteration count for new credentials.
const DefaultIterations = 100_000

// MaxIterations caps the PBKDF2 iteration count.
const MaxIterations = 10_000_000

// Argon2id time cost. Each pass touches the full argon2Memory, so the
// usable range is far below PBKDF2 iteration counts.
const (
	DefaultArgon2TimeCost = 3
	MaxArgon2TimeCost     = 10
)

const (
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

var (
	ErrUnknownAlgorithm = errors.New("unknown key derivation algorithm")
	ErrInvalidCost      = errors.New("key derivation cost out of range")
)

// Params are the deployment-wide cost parameters. They are stored next to
// every credential so verification always uses the parameters the key was
// derived with. For argon2id, Iterations is the time cost.
type Params struct {
	Algorithm  string
	Iterations int
}

// DefaultParams returns PBKDF2-HMAC-SHA256 with DefaultIterations.
func DefaultParams() Params {
	return Params{Algorithm: AlgorithmPBKDF2SHA256, Iterations: DefaultIterations}
}

// DefaultIterationsFor returns the cost used for algorithm when none is
// configured, or 0 for an unknown algorithm.
func DefaultIterationsFor(algorithm string) int {
	switch algorithm {
	case AlgorithmPBKDF2SHA256:
		return DefaultIterations
	case AlgorithmArgon2id:
		return DefaultArgon2TimeCost
	default:
		return 0
	}
}

// Validate reports whether p names a supported algorithm with a cost inside
// that algorithm's range.
func (p Params) Validate() error {
	if !IsSupported(p.Algorithm) {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}

	limit := MaxIterations
	if p.Algorithm == AlgorithmArgon2id {
		limit = MaxArgon2TimeCost
	}
	if p.Iterations < 1 || p.Iterations > limit {
		return fmt.Errorf("%w: %s cost must be between 1 and %d, got %d",
			ErrInvalidCost, p.Algorithm, limit, p.Iterations)
	}
	return nil
}

// IsSupported reports whether algorithm can be passed to DeriveKey.
func IsSupported(algorithm string) bool {
	return algorithm == AlgorithmPBKDF2SHA256 || algorithm == AlgorithmArgon2id
}

// DeriveKey stretches password with salt into a KeyLength-byte key. The
// call is deliberately slow.
func DeriveKey(p Params, password, salt []byte) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch p.Algorithm {
	case AlgorithmArgon2id:
		return argon2.IDKey(password, salt, uint32(p.Iterations), argon2Memory, argon2Threads, KeyLength), nil
	default:
		return pbkdf2.Key(password, salt, p.Iterations, KeyLength, sha256.New), nil
	}
}

// NewSalt returns a fresh random salt of common.SaltSize bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(common.SaltSize)
}

// Equal compares two derived keys in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
