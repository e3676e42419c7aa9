package credential

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: malformed, badly signed,
// expired or of the wrong type.
var ErrInvalidToken = errors.New("invalid token")

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Config configures an Issuer.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer signs and verifies HS256 tokens bound to a user id.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// NewIssuer creates a token issuer. Zero TTLs fall back to the defaults.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("credential: signing secret is required")
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}

	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}

	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, fmt.Errorf("credential: access ttl %s must be shorter than refresh ttl %s",
			cfg.AccessTTL, cfg.RefreshTTL)
	}

	return &Issuer{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess returns a short-lived access token for userID.
func (i *Issuer) IssueAccess(userID int64) (string, error) {
	return i.issue(userID, Access, i.accessTTL)
}

// IssueRefresh returns a long-lived refresh token for userID.
func (i *Issuer) IssueRefresh(userID int64) (string, error) {
	return i.issue(userID, Refresh, i.refreshTTL)
}

func (i *Issuer) issue(userID int64, typ TokenType, ttl time.Duration) (string, error) {
	now := i.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}

	return signed, nil
}

// Verify checks signature, expiry and type of token and returns the bound user id.
func (i *Issuer) Verify(token string, expected TokenType) (int64, error) {
	var c claims

	_, err := jwt.ParseWithClaims(token, &c,
		func(_ *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}

	if c.Type != expected {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
