// Package bcrypt contains password hashing and checking logic for stored passwords.
package bcrypt

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHandler can hash and check passwords.
type PasswordHandler struct {
	cost int
}

// NewPasswordHandler creates a password handler with the default cost.
func NewPasswordHandler() PasswordHandler {
	ph, _ := NewPasswordHandlerWithCost(bcrypt.DefaultCost)
	return *ph
}

// NewPasswordHandlerWithCost creates a password handler with a specific cost.
// Tests use the minimum cost so hashing stays fast.
func NewPasswordHandlerWithCost(cost int) (*PasswordHandler, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("cost must be in [%v,%v], got %v", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	ph := PasswordHandler{
		cost: cost,
	}
	return &ph, nil
}

// Hash computes the password hash from the supplied password.
func (ph PasswordHandler) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), ph.cost)
}

// IsCorrect determines if the hashed password matches the supplied password.
func (PasswordHandler) IsCorrect(hashedPassword []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
	switch {
	case err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
