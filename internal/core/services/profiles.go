package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/domain"
	"github.com/AchilleasB/tutoring-academy/academy-service/internal/core/ports"
)

// FindOrInitializeProfile returns the student's profile, first storing the
// default profile when the student has none. Two concurrent first calls for
// the same student both end up with the single stored profile.
func FindOrInitializeProfile(ctx context.Context, profiles ports.ProfileRepository, studentID string) (*domain.StudentProfile, error) {
	profile, err := profiles.FindProfile(ctx, studentID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return profiles.CreateProfile(ctx, domain.NewStudentProfile(studentID))
}

// canonicalID returns the lower-case hyphenated form of id, the only
// spelling stored rows are keyed by. ok is false when id is not a UUID.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func uniqueIDs(ids []string) []string {
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
