package bookmark

import (
	"context"

	"github.com/jaevor/go-nanoid"
)

const (
	AliasLength   = 6
	AliasAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// CodeGenerator draws a random alias candidate.
type CodeGenerator func() string

// NewCodeGenerator returns a generator drawing AliasLength characters
// uniformly from AliasAlphabet.
func NewCodeGenerator() (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(AliasAlphabet, AliasLength)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}

// AliasChecker reports whether an alias is currently held by a bookmark.
type AliasChecker interface {
	AliasExists(ctx context.Context, alias Alias) (bool, error)
}

// AliasGenerator produces aliases that no stored bookmark holds at the time
// of the check. The store's unique constraint remains the final arbiter.
type AliasGenerator struct {
	store AliasChecker
	draw  CodeGenerator
}

// NewAliasGenerator creates an alias generator backed by the given checker.
func NewAliasGenerator(store AliasChecker, draw CodeGenerator) *AliasGenerator {
	return &AliasGenerator{
		store: store,
		draw:  draw,
	}
}

// Generate redraws until it finds an unused candidate.
func (g *AliasGenerator) Generate(ctx context.Context) (Alias, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := Alias(g.draw())

		taken, err := g.store.AliasExists(ctx, candidate)
		if err != nil {
			return "", err
		}

		if !taken {
			return candidate, nil
		}
	}
}

// ValidAlias reports whether a has the shape of a generated alias.
func ValidAlias(a Alias) bool {
	if len(a) != AliasLength {
		return false
	}

	for i := 0; i < len(a); i++ {
		c := a[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z') {
			return false
		}
	}

	return true
}
