package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher wraps bcrypt at a fixed cost. It keeps a hash of a throwaway
// password so lookups for unknown accounts cost as much as real comparisons.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range %d..%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("healthkeeper-dummy-password"), cost)
	if err != nil {
		return nil, err
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash returns the bcrypt hash of password. Passwords longer than bcrypt
// accepts are reported as a validation error.
func (h *PasswordHasher) Hash(password []byte) (string, error) {
	b, err := bcrypt.GenerateFromPassword(password, h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.NewValidationError("password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(b), nil
}

// Compare reports whether password matches hash.
func (h *PasswordHasher) Compare(hash string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}

// CompareDummy burns one comparison against the dummy hash. Always false.
func (h *PasswordHasher) CompareDummy(password []byte) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, password)
	return false
}
