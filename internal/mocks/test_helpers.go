package mocks

import (
	"crypto/rand"
	"crypto/rsa"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

// NewTestUser builds an active user with a fresh id and no usable password.
func NewTestUser(email string, role domain.Role) domain.User {
	return domain.User{
		ID:           uuid.NewString(),
		Username:     email,
		Email:        email,
		FirstName:    "Test",
		LastName:     string(role),
		Role:         role,
		PasswordHash: domain.UnusablePassword(),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
}

// WithPassword returns user with a bcrypt hash of password. MinCost keeps the
// tests fast.
func WithPassword(user domain.User, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	user.PasswordHash = string(hash)
	return user
}

// GenerateTestKey returns a throwaway RSA key pair for signing test tokens.
func GenerateTestKey() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func StringPtr(s string) *string {
	return &s
}
