package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

var acceptedIdentityIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// IdentityVerifier checks third-party identity tokens against the trusted
// audiences it was built with. With no audiences the identity login path is
// disabled.
type IdentityVerifier struct {
	audiences []string
	verifier  ports.IDTokenVerifier
	log       logrus.FieldLogger
}

func NewIdentityVerifier(audiences []string, verifier ports.IDTokenVerifier, log logrus.FieldLogger) *IdentityVerifier {
	trusted := make([]string, 0, len(audiences))
	for _, aud := range audiences {
		if aud = strings.TrimSpace(aud); aud != "" {
			trusted = append(trusted, aud)
		}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IdentityVerifier{
		audiences: trusted,
		verifier:  verifier,
		log:       log,
	}
}

func (v *IdentityVerifier) Enabled() bool {
	return len(v.audiences) > 0 && v.verifier != nil
}

// Verify returns the token's claims once it verifies for one of the trusted
// audiences (tried in order), comes from an accepted issuer, carries an email
// and does not mark that email as unverified. All of those failures are
// reported as the same invalid-token error.
func (v *IdentityVerifier) Verify(ctx context.Context, rawToken string) (*domain.IdentityClaims, error) {
	if len(v.audiences) == 0 {
		return nil, domain.ErrIdentityLoginNotConfigured
	}
	if v.verifier == nil {
		return nil, domain.ErrIdentityVerifierUnavailable
	}

	var claims *domain.IdentityClaims
	var errs []error
	for _, aud := range v.audiences {
		c, err := v.verifier.Verify(ctx, rawToken, aud)
		if err == nil {
			claims = c
			break
		}
		errs = append(errs, err)
	}
	if claims == nil {
		return nil, v.reject("verification failed", errors.Join(errs...))
	}

	if _, ok := acceptedIdentityIssuers[claims.Issuer]; !ok {
		return nil, v.reject("unexpected issuer", errors.New(claims.Issuer))
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, v.reject("email not verified", nil)
	}
	if domain.NormalizeEmail(claims.Email) == "" {
		return nil, v.reject("missing email", nil)
	}
	return claims, nil
}

func (v *IdentityVerifier) reject(reason string, cause error) error {
	entry := v.log.WithField("reason", reason)
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Debug("identity token rejected")

	if cause == nil {
		cause = errors.New(reason)
	}
	return domain.ErrInvalidIdentityToken.Wrap(cause)
}
