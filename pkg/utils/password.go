package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password (or a one-time code) with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash compares a plaintext value against its bcrypt hash.
// bcrypt's compare is constant-time, the same primitive guards OTP and
// verification codes.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
