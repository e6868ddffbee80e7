package config

import (
	"crypto/rsa"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

const (
	IdentityVerifierOIDC        = "oidc"
	IdentityVerifierGoogleCerts = "google-certs"
)

type Config struct {
	JWTPrivateKey   *rsa.PrivateKey
	JWTPublicKey    *rsa.PublicKey
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DatabaseURL   string
	RedisAddress  string
	RedisPassword string
	Port          string

	// GoogleClientIDs are the trusted audiences for identity-token login.
	// Empty disables that login path.
	GoogleClientIDs  []string
	GoogleIssuerURL  string
	IdentityVerifier string

	CORSAllowedOrigins []string
	LogLevel           string
	AppVersion         string
}

// Load reads the service configuration from the environment, after loading a
// local .env file when one exists. Missing required values panic.
func Load() *Config {
	_ = godotenv.Load()

	privateKey, err := loadPrivateKey(getenv("PRIVATE_KEY_PATH", "/etc/certs/private.pem"))
	if err != nil {
		panic("Failed to load private key: " + err.Error())
	}

	publicKey, err := loadPublicKey(getenv("PUBLIC_KEY_PATH", "/etc/certs/public.pem"))
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	return &Config{
		JWTPrivateKey:      privateKey,
		JWTPublicKey:       publicKey,
		JWTIssuer:          getenv("JWT_ISSUER", "academy-service"),
		AccessTokenTTL:     getenvDuration("ACCESS_TOKEN_TTL", 5*time.Minute),
		RefreshTokenTTL:    getenvDuration("REFRESH_TOKEN_TTL", 24*time.Hour),
		DatabaseURL:        dbURL,
		RedisAddress:       getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		Port:               getenv("PORT", "8080"),
		GoogleClientIDs:    GoogleClientIDs(),
		GoogleIssuerURL:    getenv("GOOGLE_ISSUER_URL", "https://accounts.google.com"),
		IdentityVerifier:   getenv("IDENTITY_VERIFIER", IdentityVerifierOIDC),
		CORSAllowedOrigins: getenvList("CORS_ALLOWED_ORIGINS"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		AppVersion:         getenv("APP_VERSION", "unknown"),
	}
}

// GoogleClientIDs merges GOOGLE_CLIENT_IDS (comma separated) and
// GOOGLE_CLIENT_ID, keeping order and dropping blanks and duplicates.
func GoogleClientIDs() []string {
	ids := getenvList("GOOGLE_CLIENT_IDS")
	ids = append(ids, getenvList("GOOGLE_CLIENT_ID")...)

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getenvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
