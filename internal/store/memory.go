package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/identity"
)

// MemoryBookmarkStore is an in-memory implementation of bookmark.Repository.
type MemoryBookmarkStore struct {
	mu      sync.RWMutex
	nextID  int64
	byAlias map[bookmark.Alias]*bookmark.Bookmark
	now     func() time.Time
}

// NewMemoryBookmarkStore creates a new in-memory bookmark store.
func NewMemoryBookmarkStore() *MemoryBookmarkStore {
	return &MemoryBookmarkStore{
		byAlias: make(map[bookmark.Alias]*bookmark.Bookmark),
		now:     time.Now,
	}
}

func (m *MemoryBookmarkStore) AliasExists(_ context.Context, alias bookmark.Alias) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byAlias[alias]

	return ok, nil
}

func (m *MemoryBookmarkStore) Create(_ context.Context, b *bookmark.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byAlias[b.Alias]; ok {
		return bookmark.ErrAliasTaken
	}

	m.nextID++
	b.ID = m.nextID

	row := *b
	m.byAlias[b.Alias] = &row

	return nil
}

func (m *MemoryBookmarkStore) GetByAlias(_ context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.byAlias[alias]
	if !ok {
		return nil, bookmark.ErrNotFound
	}

	out := *row

	return &out, nil
}

func (m *MemoryBookmarkStore) GetByAliasAndOwner(
	_ context.Context, alias bookmark.Alias, ownerID int64,
) (*bookmark.Bookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.byAlias[alias]
	if !ok || row.UserID != ownerID {
		return nil, bookmark.ErrNotFound
	}

	out := *row

	return &out, nil
}

func (m *MemoryBookmarkStore) ListByOwner(
	_ context.Context, ownerID int64, page bookmark.Page,
) (*bookmark.PageResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var owned []*bookmark.Bookmark

	for _, row := range m.byAlias {
		if row.UserID == ownerID {
			out := *row
			owned = append(owned, &out)
		}
	}

	slices.SortFunc(owned, func(a, b *bookmark.Bookmark) int {
		return cmp.Compare(a.ID, b.ID)
	})

	total := int64(len(owned))
	items := []*bookmark.Bookmark{}

	if start := page.Offset(); start < len(owned) {
		end := min(start+page.PerPage, len(owned))
		items = owned[start:end]
	}

	return &bookmark.PageResult{
		Items: items,
		Meta:  bookmark.NewPageMeta(page, total),
	}, nil
}

func (m *MemoryBookmarkStore) Update(
	_ context.Context, alias bookmark.Alias, ownerID int64, url, body string,
) (*bookmark.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.byAlias[alias]
	if !ok || row.UserID != ownerID {
		return nil, bookmark.ErrNotFound
	}

	row.URL = url
	row.Body = body
	row.UpdatedAt = m.now().UTC()

	out := *row

	return &out, nil
}

func (m *MemoryBookmarkStore) Delete(_ context.Context, alias bookmark.Alias, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.byAlias[alias]
	if !ok {
		return bookmark.ErrNotFound
	}

	if row.UserID != ownerID {
		return bookmark.ErrForbidden
	}

	delete(m.byAlias, alias)

	return nil
}

func (m *MemoryBookmarkStore) IncrementVisit(_ context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.byAlias[alias]
	if !ok {
		return nil, bookmark.ErrNotFound
	}

	row.Visits++

	out := *row

	return &out, nil
}

// MemoryUserStore is an in-memory implementation of identity.Repository.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*identity.User
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID: make(map[int64]*identity.User),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, u *identity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.byID {
		if row.Username == u.Username {
			return identity.ErrUsernameTaken
		}

		if row.Email == u.Email {
			return identity.ErrEmailTaken
		}
	}

	m.nextID++
	u.ID = m.nextID

	row := *u
	m.byID[u.ID] = &row

	return nil
}

func (m *MemoryUserStore) GetByID(_ context.Context, id int64) (*identity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.byID[id]
	if !ok {
		return nil, identity.ErrNotFound
	}

	out := *row

	return &out, nil
}

func (m *MemoryUserStore) GetByUsername(_ context.Context, username string) (*identity.User, error) {
	return m.find(func(u *identity.User) bool { return u.Username == username })
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	return m.find(func(u *identity.User) bool { return u.Email == email })
}

func (m *MemoryUserStore) find(match func(*identity.User) bool) (*identity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, row := range m.byID {
		if match(row) {
			out := *row

			return &out, nil
		}
	}

	return nil, identity.ErrNotFound
}
