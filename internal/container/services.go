package container

import (
	"fmt"
	"time"

	"github.com/samber/do"
	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/credential"
	"github.com/serroba/bookmarks/internal/identity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "bookmarks"

// ServicePackage provides the identity and bookmark services and the token
// issuer.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*credential.Issuer, error) {
		opts := do.MustInvoke[*Options](i)

		accessTTL, err := parseTTL(opts.AccessTTL)
		if err != nil {
			return nil, fmt.Errorf("access ttl: %w", err)
		}

		refreshTTL, err := parseTTL(opts.RefreshTTL)
		if err != nil {
			return nil, fmt.Errorf("refresh ttl: %w", err)
		}

		return credential.NewIssuer(credential.Config{
			Secret:     opts.JWTSecret,
			Issuer:     tokenIssuer,
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		})
	})

	do.Provide(injector, func(i *do.Injector) (*identity.Service, error) {
		users := do.MustInvoke[identity.Repository](i)

		return identity.NewService(users, identity.NewBcryptHasher(bcrypt.DefaultCost)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*bookmark.Service, error) {
		repo := do.MustInvoke[bookmark.Repository](i)
		logger := do.MustInvoke[*zap.Logger](i)

		draw, err := bookmark.NewCodeGenerator()
		if err != nil {
			return nil, err
		}

		return bookmark.NewService(repo, bookmark.NewAliasGenerator(repo, draw), logger), nil
	})
}

// parseTTL treats an empty string as "use the issuer default".
func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	return time.ParseDuration(s)
}
