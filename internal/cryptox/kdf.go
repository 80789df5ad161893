package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used for the vault.
	DefaultIterations = 250000
	// KeySize is the AES-256 key length.
	KeySize = 32
	// SaltSize is the length of the per-envelope random salt.
	SaltSize = 16
	// NonceSize is the GCM nonce length.
	NonceSize = 12
)

// DeriveKey stretches password with PBKDF2-HMAC-SHA256 into a 256-bit key.
// Same password, salt and iteration count always yield the same key.
func DeriveKey(password, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
}
