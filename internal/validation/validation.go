package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks if a username is acceptable. Usernames are
// case-sensitive identifiers; surrounding whitespace is not allowed.
func ValidateUsername(username string) error {
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if username != strings.TrimSpace(username) {
		return ValidationError{Field: "username", Message: "username must not contain surrounding whitespace"}
	}
	if len(username) < 3 {
		return ValidationError{Field: "username", Message: "username must be at least 3 characters"}
	}
	if len(username) > 64 {
		return ValidationError{Field: "username", Message: "username must be at most 64 characters"}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username may only contain letters, digits, '.', '_' and '-'"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateEmail checks if an email address is valid. Email is optional on
// accounts, so the empty string is accepted.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateCardText checks a flashcard face. Blank or whitespace-only text is
// rejected.
func ValidateCardText(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}
