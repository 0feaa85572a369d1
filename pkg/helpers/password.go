package helpers

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLength  = 64
	saltBytes        = 16
)

// HashPassword derives a PBKDF2-SHA512 hash from the plain text password.
// Returns the hash and the generated salt, both hex-encoded.
func HashPassword(plain string) (hash string, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)
	key := pbkdf2.Key([]byte(plain), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	return hex.EncodeToString(key), salt, nil
}

// VerifyPassword re-derives the key with the stored salt and compares it to
// the stored hash in constant time.
func VerifyPassword(plain, storedHash, storedSalt string) bool {
	key := pbkdf2.Key([]byte(plain), []byte(storedSalt), pbkdf2Iterations, pbkdf2KeyLength, sha512.New)
	expected, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}
