package client

import (
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateUsername validates usernames according to API specification:
// 3-50 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("username must be 3-50 characters")
	}
	return nil
}

// ValidatePassword enforces the minimum credential length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// ValidateEmail performs a shallow shape check; the server owns uniqueness.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email is not valid")
	}
	return nil
}

// ValidateCountry validates country names: 2-100 characters.
func ValidateCountry(country string) error {
	if len(country) < 2 || len(country) > 100 {
		return fmt.Errorf("country must be 2-100 characters")
	}
	return nil
}

// ValidateRegistration checks all fields of a registration payload.
func ValidateRegistration(req RegisterRequest) error {
	if err := ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := ValidateCountry(req.Country); err != nil {
		return err
	}
	return ValidatePassword(req.Password)
}
