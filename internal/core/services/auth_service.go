package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// AuthService authenticates callers by password or third-party identity
// token and links identity-token logins to student accounts.
type AuthService struct {
	userRepo ports.UserRepository
	tokens   *TokenService
	identity *IdentityVerifier
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(userRepo ports.UserRepository, tokens *TokenService, identity *IdentityVerifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		identity: identity,
	}
}

// Register creates a student account with a password and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.AuthResult, error) {
	user, err := createAccount(ctx, s.userRepo, newAccount{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      domain.RoleStudent,
		Source:    sourceRegistration,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(*user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.HasUsablePassword() {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(*user)
}

// LoginWithIdentityToken verifies a third-party identity token and logs in
// the student account registered under its email, creating one without a
// usable password on first use. Accounts of any other role are refused and
// left untouched.
func (s *AuthService) LoginWithIdentityToken(ctx context.Context, rawToken string) (*domain.AuthResult, error) {
	claims, err := s.identity.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(claims.Email)

	user, err := s.userRepo.FindByUsername(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = createAccount(ctx, s.userRepo, newAccount{
			Email:     email,
			FirstName: claims.GivenName,
			LastName:  claims.FamilyName,
			Role:      domain.RoleStudent,
			Source:    sourceIdentityToken,
		})
		if errors.Is(err, domain.ErrEmailTaken) {
			// another request created the account first
			user, err = s.userRepo.FindByUsername(ctx, email)
		}
	}
	if err != nil {
		return nil, err
	}

	if user.Role != domain.RoleStudent {
		return nil, domain.ErrIdentityLoginStudentsOnly
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}
	if user.Email == "" {
		if err := s.userRepo.UpdateEmail(ctx, user.ID, email); err != nil {
			return nil, fmt.Errorf("backfill email: %w", err)
		}
		user.Email = email
	}
	return s.issue(*user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.tokens.Renew(ctx, refreshToken)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	userID, ok := canonicalID(userID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) issue(user domain.User) (*domain.AuthResult, error) {
	tokens, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &domain.AuthResult{Tokens: tokens, User: user}, nil
}
