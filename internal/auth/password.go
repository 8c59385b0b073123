package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const specialRunes = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored hash.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// StrongPassword reports whether password satisfies the account policy:
// at least 8 characters with an upper-case letter, a lower-case letter,
// a digit and a special character.
func StrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			for _, s := range specialRunes {
				if r == s {
					hasSpecial = true
					break
				}
			}
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}
