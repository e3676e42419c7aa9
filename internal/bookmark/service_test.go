package bookmark_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/store"
	"github.com/serroba/bookmarks/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, repo bookmark.Repository) *bookmark.Service {
	t.Helper()

	draw, err := bookmark.NewCodeGenerator()
	require.NoError(t, err)

	return bookmark.NewService(repo, bookmark.NewAliasGenerator(repo, draw), zap.NewNop())
}

// racingRepo reports every alias as free but fails the first n inserts as
// if another writer had claimed the alias in between.
type racingRepo struct {
	*store.MemoryBookmarkStore

	mu        sync.Mutex
	collide   int
	attempted []bookmark.Alias
}

func (r *racingRepo) AliasExists(context.Context, bookmark.Alias) (bool, error) {
	return false, nil
}

func (r *racingRepo) Create(ctx context.Context, b *bookmark.Bookmark) error {
	r.mu.Lock()
	r.attempted = append(r.attempted, b.Alias)

	if r.collide > 0 {
		r.collide--
		r.mu.Unlock()

		return bookmark.ErrAliasTaken
	}
	r.mu.Unlock()

	return r.MemoryBookmarkStore.Create(ctx, b)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips through get by alias", func(t *testing.T) {
		repo := store.NewMemoryBookmarkStore()
		svc := newService(t, repo)

		created, err := svc.Create(ctx, 7, bookmark.Content{URL: "https://example.com/a", Body: "b"})
		require.NoError(t, err)
		assert.True(t, bookmark.ValidAlias(created.Alias))

		got, err := repo.GetByAlias(ctx, created.Alias)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", got.URL)
		assert.Equal(t, "b", got.Body)
		assert.Equal(t, int64(7), got.UserID)
		assert.Equal(t, int64(0), got.Visits)
	})

	t.Run("body is optional", func(t *testing.T) {
		svc := newService(t, store.NewMemoryBookmarkStore())

		created, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com"})
		require.NoError(t, err)
		assert.Empty(t, created.Body)
	})

	t.Run("rejects relative and empty urls", func(t *testing.T) {
		svc := newService(t, store.NewMemoryBookmarkStore())

		for _, raw := range []string{"", "example.com", "/path", "https://"} {
			_, err := svc.Create(ctx, 1, bookmark.Content{URL: raw})

			require.ErrorIs(t, err, validate.ErrInvalid, raw)
			assert.Contains(t, err.Error(), validate.InvalidURLMessage)
		}
	})

	t.Run("retries once after a late collision", func(t *testing.T) {
		repo := &racingRepo{MemoryBookmarkStore: store.NewMemoryBookmarkStore(), collide: 1}
		svc := newService(t, repo)

		created, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com"})
		require.NoError(t, err)
		require.Len(t, repo.attempted, 2)
		assert.Equal(t, repo.attempted[1], created.Alias)
	})

	t.Run("gives up after the retry also collides", func(t *testing.T) {
		repo := &racingRepo{MemoryBookmarkStore: store.NewMemoryBookmarkStore(), collide: 2}
		svc := newService(t, repo)

		_, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com"})
		assert.ErrorIs(t, err, bookmark.ErrAliasExhausted)
		assert.Len(t, repo.attempted, 2)
	})

	t.Run("concurrent creates get distinct aliases", func(t *testing.T) {
		repo := store.NewMemoryBookmarkStore()
		svc := newService(t, repo)

		const n = 50

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			aliases = make(map[bookmark.Alias]struct{})
		)

		for range n {
			wg.Add(1)

			go func() {
				defer wg.Done()

				b, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com"})
				if !assert.NoError(t, err) {
					return
				}

				mu.Lock()
				aliases[b.Alias] = struct{}{}
				mu.Unlock()
			}()
		}

		wg.Wait()

		assert.Len(t, aliases, n)

		for a := range aliases {
			assert.True(t, bookmark.ValidAlias(a), a)
		}
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("counts each resolution", func(t *testing.T) {
		svc := newService(t, store.NewMemoryBookmarkStore())
		created, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com"})
		require.NoError(t, err)

		const k = 20

		var wg sync.WaitGroup

		for range k {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := svc.Resolve(ctx, created.Alias)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		got, err := svc.Resolve(ctx, created.Alias)
		require.NoError(t, err)
		assert.Equal(t, int64(k+1), got.Visits)
	})

	t.Run("unknown or malformed alias is not found", func(t *testing.T) {
		svc := newService(t, store.NewMemoryBookmarkStore())

		for _, alias := range []bookmark.Alias{"abc123", "short", "has-dash", "toolong1"} {
			_, err := svc.Resolve(ctx, alias)
			assert.ErrorIs(t, err, bookmark.ErrNotFound, alias)
		}
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, store.NewMemoryBookmarkStore())

	for range 6 {
		_, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com"})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, 2, bookmark.Content{URL: "https://other.example.com"})
	require.NoError(t, err)

	t.Run("defaults to the first page of five", func(t *testing.T) {
		page, err := svc.List(ctx, 1, bookmark.Page{})
		require.NoError(t, err)

		assert.Len(t, page.Items, bookmark.DefaultPerPage)
		assert.Equal(t, 1, page.Meta.Page)
		assert.Equal(t, 2, page.Meta.Pages)
		assert.Equal(t, int64(6), page.Meta.Total)
		assert.Nil(t, page.Meta.PrevPage)
		require.NotNil(t, page.Meta.NextPage)
		assert.Equal(t, 2, *page.Meta.NextPage)
	})

	t.Run("page too far out to address is empty", func(t *testing.T) {
		page, err := svc.List(ctx, 1, bookmark.Page{Number: 1 << 61, PerPage: 5})
		require.NoError(t, err)

		assert.Empty(t, page.Items)
		assert.Equal(t, int64(6), page.Meta.Total)
		assert.False(t, page.Meta.HasNext)
	})

	t.Run("rejects negative page", func(t *testing.T) {
		_, err := svc.List(ctx, 1, bookmark.Page{Number: -1})

		assert.ErrorIs(t, err, validate.ErrInvalid)
	})

	t.Run("never includes other owners", func(t *testing.T) {
		page, err := svc.List(ctx, 2, bookmark.Page{})
		require.NoError(t, err)

		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(2), page.Items[0].UserID)
	})
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*bookmark.Service, *bookmark.Bookmark) {
		t.Helper()

		svc := newService(t, store.NewMemoryBookmarkStore())
		created, err := svc.Create(ctx, 1, bookmark.Content{URL: "https://example.com", Body: "old"})
		require.NoError(t, err)

		return svc, created
	}

	t.Run("update keeps the alias", func(t *testing.T) {
		svc, created := setup(t)

		updated, err := svc.Update(ctx, created.Alias, 1, bookmark.Content{URL: "https://new.example.com", Body: "new"})
		require.NoError(t, err)
		assert.Equal(t, created.Alias, updated.Alias)
		assert.Equal(t, "https://new.example.com", updated.URL)
		assert.Equal(t, "new", updated.Body)
	})

	t.Run("update by another user is not found", func(t *testing.T) {
		svc, created := setup(t)

		_, err := svc.Update(ctx, created.Alias, 2, bookmark.Content{URL: "https://new.example.com"})
		assert.ErrorIs(t, err, bookmark.ErrNotFound)
	})

	t.Run("update validates before touching the store", func(t *testing.T) {
		svc, created := setup(t)

		_, err := svc.Update(ctx, created.Alias, 1, bookmark.Content{URL: "nope"})
		assert.ErrorIs(t, err, validate.ErrInvalid)
	})

	t.Run("delete by another user is forbidden", func(t *testing.T) {
		svc, created := setup(t)

		err := svc.Delete(ctx, created.Alias, 2)
		assert.ErrorIs(t, err, bookmark.ErrForbidden)
	})

	t.Run("delete by owner removes the bookmark", func(t *testing.T) {
		svc, created := setup(t)

		require.NoError(t, svc.Delete(ctx, created.Alias, 1))

		_, err := svc.Resolve(ctx, created.Alias)
		assert.ErrorIs(t, err, bookmark.ErrNotFound)

		err = svc.Delete(ctx, created.Alias, 1)
		assert.True(t, errors.Is(err, bookmark.ErrNotFound))
	})
}
