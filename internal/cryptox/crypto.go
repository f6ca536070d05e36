// Package cryptox contains the password hashing primitives used by the
// credential store: per-account random salts, an argon2id one-way hash over
// (salt, password), and a constant-time comparison for verification.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the number of random bytes generated per salt.
const SaltSize = 16

// argon2id parameters (RFC 9106 low-memory profile).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// GenerateSalt returns a fresh random salt. A new salt must be generated for
// every account and for every password update; salts are never reused.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashPassword derives the stored password hash from the plaintext password
// and the account's salt. Same inputs always produce the same output, so two
// accounts with equal passwords but different salts never share a hash.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword recomputes the hash for the candidate password and compares
// it to the stored hash in constant time, so the comparison does not leak
// how many leading bytes match.
func VerifyPassword(hash, salt []byte, password string) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(hash, candidate) == 1
}
