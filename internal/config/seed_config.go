package config

import (
	"os"

	"github.com/joho/godotenv"
)

type SeedAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SeedConfig describes the demo accounts created by cmd/seed.
type SeedConfig struct {
	DatabaseURL string
	LogLevel    string
	Admin       SeedAccount
	Professor   SeedAccount
	Student     SeedAccount
}

func LoadSeedConfig() *SeedConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	return &SeedConfig{
		DatabaseURL: dbURL,
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Admin: SeedAccount{
			Email:     getenv("SEED_ADMIN_EMAIL", "admin@academy.local"),
			Password:  getenv("SEED_ADMIN_PASSWORD", "admin-password"),
			FirstName: "Academy",
			LastName:  "Admin",
		},
		Professor: SeedAccount{
			Email:     getenv("SEED_PROFESSOR_EMAIL", "professor@academy.local"),
			Password:  getenv("SEED_PROFESSOR_PASSWORD", "professor-password"),
			FirstName: "Clara",
			LastName:  "Schumann",
		},
		Student: SeedAccount{
			Email:     getenv("SEED_STUDENT_EMAIL", "student@academy.local"),
			Password:  getenv("SEED_STUDENT_PASSWORD", "student-password"),
			FirstName: "Felix",
			LastName:  "Mendelssohn",
		},
	}
}
