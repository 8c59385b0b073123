package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateEmployeeNumber returns a fresh employee number in the form
// "EE" followed by six digits, drawn from crypto/rand. Uniqueness against
// the store is the caller's responsibility.
func GenerateEmployeeNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate employee number: %w", err)
	}
	return fmt.Sprintf("EE%06d", n.Int64()), nil
}
