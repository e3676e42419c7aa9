package store_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores is one backend's pair of repositories.
type stores struct {
	bookmarks bookmark.Repository
	users     identity.Repository
}

// suffix keeps rows unique when a backend outlives a single test.
func suffix() string {
	return fmt.Sprintf("%09d", time.Now().UnixNano()%1_000_000_000)
}

func createUser(t *testing.T, s stores, name string) *identity.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &identity.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "digest",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.users.Create(context.Background(), u))

	return u
}

func createBookmark(t *testing.T, s stores, alias bookmark.Alias, owner int64) *bookmark.Bookmark {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := &bookmark.Bookmark{
		Body:      "body",
		URL:       "https://example.com/" + string(alias),
		Alias:     alias,
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.bookmarks.Create(context.Background(), b))

	return b
}

func newAlias(t *testing.T) bookmark.Alias {
	t.Helper()

	draw, err := bookmark.NewCodeGenerator()
	require.NoError(t, err)

	return bookmark.Alias(draw())
}

func runUserContract(t *testing.T, open func(t *testing.T) stores) {
	t.Run("create assigns id and round trips", func(t *testing.T) {
		s := open(t)
		name := "u" + suffix()

		u := createUser(t, s, name)
		assert.NotZero(t, u.ID)

		byID, err := s.users.GetByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, name, byID.Username)
		assert.Equal(t, "digest", byID.PasswordHash)

		byEmail, err := s.users.GetByEmail(context.Background(), u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byName, err := s.users.GetByUsername(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		s := open(t)
		u := createUser(t, s, "d"+suffix())

		err := s.users.Create(context.Background(), &identity.User{
			Username:     u.Username,
			Email:        "other" + u.Email,
			PasswordHash: "digest",
		})
		assert.ErrorIs(t, err, identity.ErrUsernameTaken)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		s := open(t)
		u := createUser(t, s, "e"+suffix())

		err := s.users.Create(context.Background(), &identity.User{
			Username:     "x" + u.Username,
			Email:        u.Email,
			PasswordHash: "digest",
		})
		assert.ErrorIs(t, err, identity.ErrEmailTaken)
	})

	t.Run("unknown user returns ErrNotFound", func(t *testing.T) {
		s := open(t)

		_, err := s.users.GetByID(context.Background(), 987654321)
		assert.ErrorIs(t, err, identity.ErrNotFound)

		_, err = s.users.GetByEmail(context.Background(), "nobody-"+suffix()+"@example.com")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})
}

func runBookmarkContract(t *testing.T, open func(t *testing.T) stores) {
	ctx := context.Background()

	t.Run("create and get by alias round trips", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "r"+run)
		b := createBookmark(t, s, newAlias(t), owner.ID)

		assert.NotZero(t, b.ID)

		got, err := s.bookmarks.GetByAlias(ctx, b.Alias)
		require.NoError(t, err)
		assert.Equal(t, b.URL, got.URL)
		assert.Equal(t, b.Body, got.Body)
		assert.Equal(t, owner.ID, got.UserID)
		assert.Equal(t, int64(0), got.Visits)

		exists, err := s.bookmarks.AliasExists(ctx, b.Alias)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate alias returns ErrAliasTaken", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "a"+run)
		b := createBookmark(t, s, newAlias(t), owner.ID)

		err := s.bookmarks.Create(ctx, &bookmark.Bookmark{
			URL:    "https://other.example.com",
			Alias:  b.Alias,
			UserID: owner.ID,
		})
		assert.ErrorIs(t, err, bookmark.ErrAliasTaken)
	})

	t.Run("get by alias and owner hides other users rows", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "o"+run)
		other := createUser(t, s, "p"+run)
		b := createBookmark(t, s, newAlias(t), owner.ID)

		_, err := s.bookmarks.GetByAliasAndOwner(ctx, b.Alias, other.ID)
		assert.ErrorIs(t, err, bookmark.ErrNotFound)

		got, err := s.bookmarks.GetByAliasAndOwner(ctx, b.Alias, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("list by owner paginates own rows only", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "l"+run)
		other := createUser(t, s, "m"+run)

		for range 7 {
			createBookmark(t, s, newAlias(t), owner.ID)
		}

		createBookmark(t, s, newAlias(t), other.ID)

		first, err := s.bookmarks.ListByOwner(ctx, owner.ID, bookmark.Page{Number: 1, PerPage: 5})
		require.NoError(t, err)
		assert.Len(t, first.Items, 5)
		assert.Equal(t, int64(7), first.Meta.Total)
		assert.Equal(t, 2, first.Meta.Pages)
		assert.True(t, first.Meta.HasNext)
		assert.False(t, first.Meta.HasPrev)

		second, err := s.bookmarks.ListByOwner(ctx, owner.ID, bookmark.Page{Number: 2, PerPage: 5})
		require.NoError(t, err)
		assert.Len(t, second.Items, 2)
		assert.False(t, second.Meta.HasNext)

		for _, item := range append(first.Items, second.Items...) {
			assert.Equal(t, owner.ID, item.UserID)
		}

		beyond, err := s.bookmarks.ListByOwner(ctx, owner.ID, bookmark.Page{Number: 9, PerPage: 5})
		require.NoError(t, err)
		assert.Empty(t, beyond.Items)

		huge, err := s.bookmarks.ListByOwner(ctx, owner.ID, bookmark.Page{Number: math.MaxInt / 2, PerPage: 100})
		require.NoError(t, err)
		assert.Empty(t, huge.Items)
		assert.Equal(t, int64(7), huge.Meta.Total)
		assert.False(t, huge.Meta.HasNext)
	})

	t.Run("update keeps alias and requires owner", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "u"+run)
		other := createUser(t, s, "v"+run)
		b := createBookmark(t, s, newAlias(t), owner.ID)

		_, err := s.bookmarks.Update(ctx, b.Alias, other.ID, "https://evil.example.com", "x")
		assert.ErrorIs(t, err, bookmark.ErrNotFound)

		updated, err := s.bookmarks.Update(ctx, b.Alias, owner.ID, "https://new.example.com", "new")
		require.NoError(t, err)
		assert.Equal(t, b.Alias, updated.Alias)
		assert.Equal(t, "https://new.example.com", updated.URL)
		assert.Equal(t, "new", updated.Body)
	})

	t.Run("delete distinguishes missing and foreign rows", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "x"+run)
		other := createUser(t, s, "y"+run)
		b := createBookmark(t, s, newAlias(t), owner.ID)

		assert.ErrorIs(t, s.bookmarks.Delete(ctx, b.Alias, other.ID), bookmark.ErrForbidden)
		require.NoError(t, s.bookmarks.Delete(ctx, b.Alias, owner.ID))
		assert.ErrorIs(t, s.bookmarks.Delete(ctx, b.Alias, owner.ID), bookmark.ErrNotFound)

		_, err := s.bookmarks.GetByAlias(ctx, b.Alias)
		assert.ErrorIs(t, err, bookmark.ErrNotFound)
	})

	t.Run("concurrent visits are all counted", func(t *testing.T) {
		s := open(t)
		run := suffix()
		owner := createUser(t, s, "c"+run)
		b := createBookmark(t, s, newAlias(t), owner.ID)

		const visits = 25

		var wg sync.WaitGroup

		for range visits {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := s.bookmarks.IncrementVisit(ctx, b.Alias)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		got, err := s.bookmarks.GetByAlias(ctx, b.Alias)
		require.NoError(t, err)
		assert.Equal(t, int64(visits), got.Visits)
	})

	t.Run("increment unknown alias returns ErrNotFound", func(t *testing.T) {
		s := open(t)

		_, err := s.bookmarks.IncrementVisit(ctx, "zzzzzz")
		assert.ErrorIs(t, err, bookmark.ErrNotFound)
	})
}
