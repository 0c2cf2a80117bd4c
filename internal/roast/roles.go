package roast

import (
	"errors"
	"strings"
)

const (
	DefaultRole       = "Software Engineer"
	MinExperience     = 0
	MaxExperience     = 15
	DefaultExperience = 3
)

var (
	ErrInvalidRole       = errors.New("target role is invalid")
	ErrInvalidExperience = errors.New("experience years out of range")
)

var roles = []string{
	"Software Engineer",
	"Data Engineer",
	"Product Manager",
	"Data Scientist",
	"Full Stack Developer",
	"DevOps Engineer",
	"ML Engineer",
	"Frontend Developer",
	"Backend Developer",
	"System Designer",
}

// Roles returns the selectable target roles in display order.
func Roles() []string {
	return append([]string(nil), roles...)
}

// ParseRole normalizes raw to one of the known role labels.
func ParseRole(raw string) (string, error) {
	normalized := strings.TrimSpace(raw)
	for _, r := range roles {
		if strings.EqualFold(r, normalized) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// ValidateExperience checks years against the slider bounds.
func ValidateExperience(years int) error {
	if years < MinExperience || years > MaxExperience {
		return ErrInvalidExperience
	}
	return nil
}
