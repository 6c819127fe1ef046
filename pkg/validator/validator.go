package validator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ParsePositiveInt parses a base-10 integer greater than zero that fits
// a 32-bit INTEGER column
func ParsePositiveInt(field, value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%s is required", field)
	}

	n, err := strconv.ParseInt(trimmed, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%s is out of range", field)
	}
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", field)
	}
	return int(n), nil
}

// ValidateOneOf checks that value is one of allowed
func ValidateOneOf(field, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// SanitizeText removes null bytes, which PostgreSQL text columns reject.
// Surrounding whitespace is kept since answers are free text.
func SanitizeText(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// SanitizeEmail trims and lower-cases an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(SanitizeText(email)))
}
