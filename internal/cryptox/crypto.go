// Package cryptox holds the password hashing used by the server.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32
)

// DeriveKey stretches password with argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// HashPassword returns a fresh random salt and the derived key for password.
func HashPassword(password []byte) (salt, hash []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return salt, DeriveKey(password, salt)
}

// VerifyPassword reports whether password derives to hash under salt. The
// comparison is constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := DeriveKey(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
