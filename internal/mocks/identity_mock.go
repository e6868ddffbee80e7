package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// MockIDTokenVerifier implements ports.IDTokenVerifier for testing. A token
// verifies for an audience only when Tokens maps that token to claims whose
// Audience matches.
type MockIDTokenVerifier struct {
	mu sync.RWMutex

	Tokens map[string]domain.IdentityClaims

	// Call tracking for verification
	VerifiedAudiences []string

	// Error injection for testing error scenarios
	VerifyError error
}

var _ ports.IDTokenVerifier = (*MockIDTokenVerifier)(nil)

func NewMockIDTokenVerifier() *MockIDTokenVerifier {
	return &MockIDTokenVerifier{
		Tokens: make(map[string]domain.IdentityClaims),
	}
}

// AddToken registers claims for a raw token.
func (m *MockIDTokenVerifier) AddToken(raw string, claims domain.IdentityClaims) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[raw] = claims
}

func (m *MockIDTokenVerifier) Verify(ctx context.Context, rawToken, audience string) (*domain.IdentityClaims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.VerifiedAudiences = append(m.VerifiedAudiences, audience)
	if m.VerifyError != nil {
		return nil, m.VerifyError
	}
	claims, ok := m.Tokens[rawToken]
	if !ok {
		return nil, errors.New("malformed token")
	}
	if claims.Audience != audience {
		return nil, errors.New("audience mismatch")
	}
	return &claims, nil
}

// MockRevocationStore implements ports.RevocationStore for testing.
type MockRevocationStore struct {
	mu sync.RWMutex

	revoked map[string]time.Duration

	// Error injection for testing error scenarios
	RevokeError    error
	IsRevokedError error
}

var _ ports.RevocationStore = (*MockRevocationStore)(nil)

func NewMockRevocationStore() *MockRevocationStore {
	return &MockRevocationStore{
		revoked: make(map[string]time.Duration),
	}
}

func (m *MockRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// RevokedCount returns the number of revoked token ids.
func (m *MockRevocationStore) RevokedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.revoked)
}

// TTL returns the lifetime the token id was revoked with.
func (m *MockRevocationStore) TTL(tokenID string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ttl, ok := m.revoked[tokenID]
	return ttl, ok
}

// MockTokenParser implements ports.AccessTokenParser for testing. Tokens maps
// a bearer token to the caller it names; anything else is rejected.
type MockTokenParser struct {
	Tokens map[string]domain.Principal
}

var _ ports.AccessTokenParser = (*MockTokenParser)(nil)

func NewMockTokenParser() *MockTokenParser {
	return &MockTokenParser{Tokens: make(map[string]domain.Principal)}
}

func (m *MockTokenParser) ParseAccess(token string) (*domain.Principal, error) {
	p, ok := m.Tokens[token]
	if !ok {
		return nil, domain.ErrInvalidAccessToken.Wrap(errors.New("unknown token"))
	}
	return &p, nil
}
