// Package auth provides the credential primitives used by the API:
// bcrypt password hashing and signed session tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed so credential verification cost stays predictable.
const bcryptCost = 12

// HashPassword hashes a plaintext password with a fresh random salt.
// Two calls on the same input produce different hashes.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
