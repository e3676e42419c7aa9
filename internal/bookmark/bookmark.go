package bookmark

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("bookmark not found")
	ErrForbidden = errors.New("bookmark belongs to another user")

	// ErrAliasTaken is returned by a Repository when an insert violates the
	// uniqueness of short_url.
	ErrAliasTaken = errors.New("alias already taken")

	// ErrAliasExhausted is returned when the insert still collides after the retry.
	ErrAliasExhausted = errors.New("could not allocate a unique alias")
)

// Alias is the short code that substitutes for a bookmark's URL.
type Alias string

// Bookmark is a user-owned URL with its short alias and visit counter.
type Bookmark struct {
	ID        int64
	Body      string
	URL       string
	Alias     Alias
	Visits    int64
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
