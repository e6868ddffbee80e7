package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
)

// googleClaims is the subset of a Google ID token payload the service reads.
type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	jwt.RegisteredClaims
}

func (c googleClaims) identity(audience string) *domain.IdentityClaims {
	return &domain.IdentityClaims{
		Issuer:        c.Issuer,
		Subject:       c.Subject,
		Audience:      audience,
		Email:         c.Email,
		EmailVerified: parseClaimBool(c.EmailVerified),
		GivenName:     c.GivenName,
		FamilyName:    c.FamilyName,
	}
}

// parseClaimBool accepts both JSON booleans and the "true"/"false" strings some
// issuers still emit. Anything else counts as absent.
func parseClaimBool(v any) *bool {
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			b = true
		case "false":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}
