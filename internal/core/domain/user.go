package domain

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"
)

// unusablePasswordPrefix marks a password hash that can never match. Accounts
// created through identity-token login carry one.
const unusablePasswordPrefix = "!"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"-"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// DisplayName is "First Last", falling back to the email when both are blank.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func (u User) Status() UserStatus {
	if u.Active {
		return UserStatusActive
	}
	return UserStatusInactive
}

func (u User) HasUsablePassword() bool {
	return u.PasswordHash != "" && !strings.HasPrefix(u.PasswordHash, unusablePasswordPrefix)
}

// UnusablePassword returns a random sentinel hash that disables password login.
func UnusablePassword() string {
	b := make([]byte, 30)
	if _, err := rand.Read(b); err != nil {
		return unusablePasswordPrefix
	}
	return unusablePasswordPrefix + base64.RawURLEncoding.EncodeToString(b)
}

// NormalizeEmail trims and lower-cases an email used as a login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// UserFilter narrows the admin user listing. Empty fields do not filter.
type UserFilter struct {
	Role     Role
	Status   UserStatus
	Search   string
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Normalize clamps paging to page >= 1 and 1 <= page size <= MaxPageSize and
// drops filter values that name no role or status.
func (f UserFilter) Normalize() UserFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize < 1 {
		f.PageSize = 1
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if !f.Role.Valid() {
		f.Role = ""
	}
	if f.Status != UserStatusActive && f.Status != UserStatusInactive {
		f.Status = ""
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func (f UserFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// UserSummary is a row of the admin user listing.
type UserSummary struct {
	User
	ProfessorID *string
}

type UserPage struct {
	Count    int
	Page     int
	PageSize int
	Results  []UserSummary
}
