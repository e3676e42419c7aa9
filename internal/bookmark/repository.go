package bookmark

import "context"

// Repository defines the storage operations for bookmarks.
type Repository interface {
	AliasChecker

	// Create inserts b and sets its ID. Returns ErrAliasTaken if another row
	// already holds b.Alias.
	Create(ctx context.Context, b *Bookmark) error

	GetByAlias(ctx context.Context, alias Alias) (*Bookmark, error)
	GetByAliasAndOwner(ctx context.Context, alias Alias, ownerID int64) (*Bookmark, error)
	ListByOwner(ctx context.Context, ownerID int64, page Page) (*PageResult, error)

	// Update rewrites url and body of the bookmark matching both alias and
	// owner. Returns ErrNotFound when no such row exists.
	Update(ctx context.Context, alias Alias, ownerID int64, url, body string) (*Bookmark, error)

	// Delete removes the bookmark. Returns ErrNotFound if the alias is absent
	// and ErrForbidden if it belongs to someone else.
	Delete(ctx context.Context, alias Alias, ownerID int64) error

	// IncrementVisit atomically adds one visit and returns the updated row.
	IncrementVisit(ctx context.Context, alias Alias) (*Bookmark, error)
}
