package util

import (
	"golang.org/x/crypto/bcrypt"
)

// Cost 12 keeps a hash around 250ms on current hardware, slow enough
// for stolen-dump resistance without hurting login latency.
const bcryptCost = 12

// HashPassword returns the bcrypt hash to store for a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
