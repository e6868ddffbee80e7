package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindMisconfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindMisconfiguration:
		return "misconfiguration"
	default:
		return "internal"
	}
}

// Error is a failure the HTTP boundary can turn into a status code and a
// reason string. Err keeps the underlying cause for logging only.
type Error struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind and reason, so the sentinels
// below work with errors.Is even after Wrap attaches a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Reason: e.Reason, Err: cause}
}

func NewValidationError(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrInvalidProfessor  = &Error{Kind: KindValidation, Reason: "invalid professor"}
	ErrInvalidStudentSet = &Error{Kind: KindValidation, Reason: "invalid student set"}
	ErrNoStudents        = &Error{Kind: KindValidation, Reason: "student_ids must not be empty"}
	ErrPasswordTooShort  = &Error{Kind: KindValidation, Reason: "password must be at least 8 characters"}

	ErrEmailTaken = &Error{Kind: KindConflict, Reason: "email already registered"}

	ErrInvalidCredentials   = &Error{Kind: KindAuthentication, Reason: "invalid credentials"}
	ErrInvalidRefreshToken  = &Error{Kind: KindAuthentication, Reason: "invalid or expired refresh token"}
	ErrInvalidAccessToken   = &Error{Kind: KindAuthentication, Reason: "invalid or expired token"}
	ErrInvalidIdentityToken = &Error{Kind: KindAuthentication, Reason: "invalid identity token"}
	ErrAccountDisabled      = &Error{Kind: KindAuthentication, Reason: "account disabled"}

	ErrIdentityLoginStudentsOnly = &Error{Kind: KindAuthorization, Reason: "identity token login is only available to students"}

	ErrUserNotFound     = &Error{Kind: KindNotFound, Reason: "user not found"}
	ErrMaterialNotFound = &Error{Kind: KindNotFound, Reason: "material not found"}

	ErrIdentityLoginNotConfigured  = &Error{Kind: KindMisconfiguration, Reason: "identity token login not configured"}
	ErrIdentityVerifierUnavailable = &Error{Kind: KindMisconfiguration, Reason: "identity token verifier unavailable"}
)
