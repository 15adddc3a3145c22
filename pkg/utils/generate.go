package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// GenerateVerificationCode returns a 6-digit code uniformly distributed in
// [100000, 999999]. Codes leave the process only by email; callers persist
// the bcrypt hash.
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("read random: %v", err))
	}
	return fmt.Sprintf("%d", n.Int64()+100000)
}

// GenerateState returns a 128-bit CSRF state token for the OAuth flow.
func GenerateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// ValidateState checks the shape of a returned OAuth state token.
func ValidateState(state string) bool {
	if len(state) != 22 {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(state)
	return err == nil
}
