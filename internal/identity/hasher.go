package identity

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt rejects secrets longer than this many bytes.
const bcryptMaxSecret = 72

// Hasher turns secrets into digests and checks secrets against them.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(digest, secret string) bool
}

// BcryptHasher is a Hasher backed by bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. A cost of zero selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prepare(secret), h.cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

func (h *BcryptHasher) Verify(digest, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prepare(secret)) == nil
}

// prepare condenses secrets bcrypt cannot take whole into a fixed-size encoding.
func prepare(secret string) []byte {
	if len(secret) <= bcryptMaxSecret {
		return []byte(secret)
	}

	sum := sha256.Sum256([]byte(secret))

	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
