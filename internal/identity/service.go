package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/serroba/bookmarks/internal/validate"
)

const (
	MaxUsernameLength = 20
	MaxEmailLength    = 120
	MaxPasswordLength = 100
)

// Service registers and authenticates users.
type Service struct {
	store  Repository
	hasher Hasher
	now    func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

// NewService creates an identity service.
func NewService(store Repository, hasher Hasher) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		now:    time.Now,
	}
}

// Registration is the input to Register.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *Registration) validate() error {
	return validate.Struct(r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(1, MaxUsernameLength)),
		validation.Field(&r.Email, validation.Required, validation.RuneLength(1, MaxEmailLength), is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(1, MaxPasswordLength)),
	)
}

// Credentials is the input to Authenticate.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Credentials) validate() error {
	return validate.Struct(c,
		validation.Field(&c.Email, validation.Required, validation.RuneLength(1, MaxEmailLength)),
		validation.Field(&c.Password, validation.Required, validation.RuneLength(1, MaxPasswordLength)),
	)
}

// Register validates the input, rejects taken usernames and emails, hashes
// the password and stores the new user.
func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.validate(); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, reg); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := &User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ensureAvailable(ctx context.Context, reg Registration) error {
	_, err := s.store.GetByUsername(ctx, reg.Username)
	if err == nil {
		return ErrUsernameTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.store.GetByEmail(ctx, reg.Email)
	if err == nil {
		return ErrEmailTaken
	}

	if !errors.Is(err, ErrNotFound) {
		return err
	}

	return nil
}

// Authenticate returns the user owning the email when the password matches.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	u, err := s.store.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Keep timing equal to the wrong-password path.
			s.hasher.Verify(s.dummy(), creds.Password)

			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !s.hasher.Verify(u.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// fallbackDigest is a well-formed bcrypt digest matching no password.
const fallbackDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("not-a-real-password")
		if err != nil || digest == "" {
			digest = fallbackDigest
		}

		s.dummyDigest = digest
	})

	return s.dummyDigest
}
