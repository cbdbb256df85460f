package domain

import "strings"

const (
	// PasswordMinLen / PasswordMaxLen bound raw password length; bcrypt
	// truncates input beyond 72 bytes, so longer values are rejected
	// outright rather than silently weakened.
	PasswordMinLen = 8
	PasswordMaxLen = 72

	passwordSpecials = "~!@#$%^&*()_+-={}[]|:;\"'<>,.?/"
)

// CheckPasswordStrength validates the password policy: 8-72 characters with
// at least one lowercase letter, one uppercase letter, one digit, and one
// special character. Returns a human-readable reason, or "" when the
// password passes.
func CheckPasswordStrength(raw string) string {
	if len(raw) < PasswordMinLen || len(raw) > PasswordMaxLen {
		return "must be 8-72 characters"
	}

	var lower, upper, digit, special bool
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	switch {
	case !lower:
		return "must contain a lowercase letter"
	case !upper:
		return "must contain an uppercase letter"
	case !digit:
		return "must contain a digit"
	case !special:
		return "must contain a special character (" + passwordSpecials + ")"
	}
	return ""
}
