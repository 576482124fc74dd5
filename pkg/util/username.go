package util

import (
	"fmt"
	"strings"
)

const defaultUsername = "shopper"

// DeriveUsername builds a username from the supplied display name, falling
// back to the local part of the email address, then to a fixed default.
// Mirrors the signup-hook behavior: metadata first, contact address second.
func DeriveUsername(displayName, email string) string {
	if name := sanitizeUsername(displayName); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		if name := sanitizeUsername(email[:at]); name != "" {
			return name
		}
	}
	return defaultUsername
}

// UniquifyUsername appends a random numeric suffix for collision retries
func UniquifyUsername(username string) string {
	return fmt.Sprintf("%s%d", username, GenerateRandomNumber(1000, 9999))
}

func sanitizeUsername(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._-")
}
