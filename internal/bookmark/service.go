package bookmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/serroba/bookmarks/internal/validate"
	"go.uber.org/zap"
)

// insertAttempts is the first insert plus the single retry after a late collision.
const insertAttempts = 2

// Service implements the owner-scoped bookmark operations and alias resolution.
type Service struct {
	store   Repository
	aliases *AliasGenerator
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a bookmark service.
func NewService(store Repository, aliases *AliasGenerator, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		aliases: aliases,
		logger:  logger,
		now:     time.Now,
	}
}

// Content is the user-editable part of a bookmark.
type Content struct {
	URL  string `json:"url"`
	Body string `json:"body"`
}

func (c *Content) validate() error {
	return validate.Struct(c,
		validation.Field(&c.URL, validation.Required.Error(validate.InvalidURLMessage), validate.AbsoluteURL),
	)
}

// Create stores a new bookmark owned by ownerID under a freshly generated alias.
func (s *Service) Create(ctx context.Context, ownerID int64, content Content) (*Bookmark, error) {
	if err := content.validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &Bookmark{
		Body:      content.Body,
		URL:       content.URL,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for range insertAttempts {
		alias, err := s.aliases.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate alias: %w", err)
		}

		b.Alias = alias

		err = s.store.Create(ctx, b)
		if err == nil {
			return b, nil
		}

		if !errors.Is(err, ErrAliasTaken) {
			return nil, err
		}

		s.logger.Warn("alias collided on insert",
			zap.String("alias", string(alias)),
			zap.Int64("userId", ownerID),
		)
	}

	return nil, ErrAliasExhausted
}

// Resolve counts a visit to alias and returns the updated bookmark.
func (s *Service) Resolve(ctx context.Context, alias Alias) (*Bookmark, error) {
	if !ValidAlias(alias) {
		return nil, ErrNotFound
	}

	return s.store.IncrementVisit(ctx, alias)
}

// List returns one page of the owner's bookmarks.
func (s *Service) List(ctx context.Context, ownerID int64, page Page) (*PageResult, error) {
	if page.Number == 0 {
		page.Number = DefaultPage
	}

	if page.PerPage == 0 {
		page.PerPage = DefaultPerPage
	}

	if page.Number < 1 || page.PerPage < 1 {
		return nil, validate.Message("page and per_page must be positive")
	}

	return s.store.ListByOwner(ctx, ownerID, page)
}

// Update replaces url and body of a bookmark the owner holds. The alias never changes.
func (s *Service) Update(ctx context.Context, alias Alias, ownerID int64, content Content) (*Bookmark, error) {
	if err := content.validate(); err != nil {
		return nil, err
	}

	if !ValidAlias(alias) {
		return nil, ErrNotFound
	}

	return s.store.Update(ctx, alias, ownerID, content.URL, content.Body)
}

// Delete removes a bookmark the owner holds.
func (s *Service) Delete(ctx context.Context, alias Alias, ownerID int64) error {
	if !ValidAlias(alias) {
		return ErrNotFound
	}

	return s.store.Delete(ctx, alias, ownerID)
}
