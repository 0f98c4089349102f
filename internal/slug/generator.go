// Package slug allocates paste identifiers: short random tokens generated
// from crypto/rand. Uniqueness is enforced by the store's insert, not here;
// the service retries on a reported collision.
package slug

import (
	"crypto/rand"
	"math/big"
)

// Symbols used for identifier generation (lowercase alphanumeric).
const defaultSymbols = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength matches the 8-character tokens the public URLs use.
const DefaultLength = 8

// Generator produces random paste identifiers.
type Generator struct {
	symbols string
	length  int
}

// New creates a generator for identifiers of the given length.
func New(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{
		symbols: defaultSymbols,
		length:  length,
	}
}

// Generate creates a new random identifier of the configured length.
func (g *Generator) Generate() (string, error) {
	return g.GenerateLength(g.length)
}

// GenerateLength creates a random identifier of the specified length.
func (g *Generator) GenerateLength(length int) (string, error) {
	if length <= 0 {
		length = g.length
	}

	result := make([]byte, length)
	symbolsLen := big.NewInt(int64(len(g.symbols)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, symbolsLen)
		if err != nil {
			return "", err
		}
		result[i] = g.symbols[n.Int64()]
	}
	return string(result), nil
}

// IsValid reports whether id looks like an identifier this service could
// have issued: lowercase alphanumeric, 3 to 32 characters.
func IsValid(id string) bool {
	if len(id) < 3 || len(id) > 32 {
		return false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
