package domain

// Principal is the caller identity carried by a verified access credential.
type Principal struct {
	UserID string
	Role   Role
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResult is returned by every successful login flow.
type AuthResult struct {
	Tokens TokenPair
	User   User
}

// IdentityClaims are the claims of a verified third-party identity token.
// EmailVerified is nil when the token does not carry the claim.
type IdentityClaims struct {
	Issuer        string
	Subject       string
	Audience      string
	Email         string
	EmailVerified *bool
	GivenName     string
	FamilyName    string
}
