package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

const (
	sourceRegistration  = "registration"
	sourceAdmin         = "admin"
	sourceIdentityToken = "identity_token"
)

const minPasswordLength = 8

type AccountService struct {
	userRepo ports.UserRepository
}

var _ ports.AccountService = (*AccountService)(nil)

func NewAccountService(userRepo ports.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

func (s *AccountService) ListUsers(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	filter = filter.Normalize()
	results, total, err := s.userRepo.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.UserSummary{}
	}
	return &domain.UserPage{
		Count:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Results:  results,
	}, nil
}

func (s *AccountService) CreateUser(
	ctx context.Context,
	email, password, firstName, lastName string,
	role domain.Role,
) (*domain.UserSummary, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("invalid role")
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	user, err := createAccount(ctx, s.userRepo, newAccount{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		Source:    sourceAdmin,
	})
	if err != nil {
		return nil, err
	}
	return &domain.UserSummary{User: *user}, nil
}

type newAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
	Source    string
}

// createAccount stores a new active account keyed by the normalized email.
// An empty password leaves the account without a usable password.
func createAccount(ctx context.Context, users ports.UserRepository, acc newAccount) (*domain.User, error) {
	email := domain.NormalizeEmail(acc.Email)
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}

	if acc.Source != sourceIdentityToken {
		exists, err := users.ExistsByUsernameOrEmail(ctx, email, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
	}

	passwordHash := domain.UnusablePassword()
	if acc.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hash)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     email,
		Email:        email,
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		Role:         acc.Role,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(ports.AccountCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		Source: acc.Source,
	})
	if err != nil {
		return nil, err
	}

	if err := users.CreateUser(ctx, user, payload); err != nil {
		return nil, err
	}
	return &user, nil
}
