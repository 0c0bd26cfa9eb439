package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost bounds brute-force risk while keeping interactive login latency acceptable.
const bcryptCost = 8

// PasswordHasher produces and verifies salted one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, digest string) bool
}

type bcryptHasher struct{}

func NewPasswordHasher() PasswordHasher {
	return bcryptHasher{}
}

func (bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (bcryptHasher) Check(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
