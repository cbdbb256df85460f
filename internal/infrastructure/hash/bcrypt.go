package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used unless configured otherwise.
// It is a deployment constant, never taken from request input.
const DefaultCost = 12

// BcryptHasher implements ports.PasswordHasher on bcrypt. Every call to
// Hash generates a fresh random salt, so equal inputs yield different
// encoded values; Verify is constant-time with respect to the mismatch
// position.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost, clamped to bcrypt's
// supported range. Cost <= 0 selects DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the salted bcrypt encoding of raw.
func (h *BcryptHasher) Hash(raw string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether raw matches the encoded hash.
func (h *BcryptHasher) Verify(raw, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
}
