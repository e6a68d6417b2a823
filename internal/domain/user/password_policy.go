package user

import (
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 6
	passwordSpecials  = "!@#$%^&*()_+."
)

// ValidatePassword enforces the account password policy: at least six
// characters drawn only from ASCII letters, digits and passwordSpecials, with
// at least one of each class.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ErrPasswordWeak
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return ErrPasswordWeak
		}
	}
	if !lower || !upper || !digit || !special {
		return ErrPasswordWeak
	}
	return nil
}
