package services

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type tokenClaims struct {
	Role string `json:"role,omitempty"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the service's own RS256 credentials: a
// short-lived access token and a longer-lived refresh token.
type TokenService struct {
	privateKey  *rsa.PrivateKey
	publicKey   *rsa.PublicKey
	issuer      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	users       ports.UserRepository
	revocations ports.RevocationStore
	now         func() time.Time
}

var _ ports.AccessTokenParser = (*TokenService)(nil)

func NewTokenService(
	privateKey *rsa.PrivateKey,
	publicKey *rsa.PublicKey,
	issuer string,
	accessTTL, refreshTTL time.Duration,
	users ports.UserRepository,
	revocations ports.RevocationStore,
) *TokenService {
	return &TokenService{
		privateKey:  privateKey,
		publicKey:   publicKey,
		issuer:      issuer,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		users:       users,
		revocations: revocations,
		now:         time.Now,
	}
}

// IssuePair signs a new access and refresh token for user.
func (s *TokenService) IssuePair(user domain.User) (domain.TokenPair, error) {
	access, err := s.issueAccess(user.ID, user.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	now := s.now()
	refresh, err := s.sign(tokenClaims{
		Type: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// Renew exchanges a refresh token for a new access token. The user must
// still exist and be active; the new token carries the user's current role.
func (s *TokenService) Renew(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken.Wrap(err)
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", domain.ErrInvalidRefreshToken.Wrap(err)
		}
		if revoked {
			return "", domain.ErrInvalidRefreshToken.Wrap(errors.New("token revoked"))
		}
	}

	subject, ok := canonicalID(claims.Subject)
	if !ok {
		return "", domain.ErrInvalidRefreshToken.Wrap(errors.New("malformed subject"))
	}
	user, err := s.users.FindByID(ctx, subject)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidRefreshToken.Wrap(err)
	}
	if err != nil {
		return "", fmt.Errorf("load refresh token subject: %w", err)
	}
	if !user.Active {
		return "", domain.ErrInvalidRefreshToken.Wrap(errors.New("account disabled"))
	}

	return s.issueAccess(user.ID, user.Role)
}

// Revoke invalidates a refresh token for the rest of its lifetime.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return domain.ErrInvalidRefreshToken.Wrap(err)
	}
	if s.revocations == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

// ParseAccess verifies an access token and returns the caller it names.
func (s *TokenService) ParseAccess(token string) (*domain.Principal, error) {
	claims, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return nil, domain.ErrInvalidAccessToken.Wrap(err)
	}
	return &domain.Principal{
		UserID: claims.Subject,
		Role:   domain.Role(claims.Role),
	}, nil
}

func (s *TokenService) issueAccess(userID string, role domain.Role) (string, error) {
	now := s.now()
	return s.sign(tokenClaims{
		Role: string(role),
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
}

func (s *TokenService) sign(claims tokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

func (s *TokenService) parse(tokenString, tokenType string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("unexpected token type %q", claims.Type)
	}
	if claims.Subject == "" {
		return nil, errors.New("missing subject")
	}
	return claims, nil
}
