package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/identity"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		body       TEXT NOT NULL DEFAULT '',
		url        TEXT NOT NULL,
		short_url  TEXT NOT NULL UNIQUE,
		visits     INTEGER NOT NULL DEFAULT 0 CHECK (visits >= 0),
		user_id    INTEGER NOT NULL REFERENCES users (id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks (user_id, id);
`

// sqlitePragmas run on every connection the pool opens.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

func sqliteDSN(path string) string {
	params := make([]string, 0, len(sqlitePragmas))
	for _, pragma := range sqlitePragmas {
		params = append(params, "_pragma="+pragma)
	}

	return path + "?" + strings.Join(params, "&")
}

// OpenSQLite opens the SQLite database at path and bootstraps its schema.
// The path ":memory:" yields a private in-memory database.
func OpenSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// SQLiteBookmarkStore is a SQLite implementation of bookmark.Repository.
type SQLiteBookmarkStore struct {
	db *sql.DB
}

// NewSQLiteBookmarkStore creates a new SQLite-backed bookmark store.
func NewSQLiteBookmarkStore(db *sql.DB) *SQLiteBookmarkStore {
	return &SQLiteBookmarkStore{db: db}
}

func (s *SQLiteBookmarkStore) AliasExists(ctx context.Context, alias bookmark.Alias) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE short_url = ?)`, string(alias),
	).Scan(&exists)

	return exists, err
}

func (s *SQLiteBookmarkStore) Create(ctx context.Context, b *bookmark.Bookmark) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (body, url, short_url, visits, user_id, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?)`,
		b.Body, b.URL, string(b.Alias), b.UserID, formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return bookmark.ErrAliasTaken
		}

		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	b.ID = id

	return nil
}

func (s *SQLiteBookmarkStore) GetByAlias(ctx context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE short_url = ?`, string(alias),
	)

	return scanSQLiteBookmark(row)
}

func (s *SQLiteBookmarkStore) GetByAliasAndOwner(
	ctx context.Context, alias bookmark.Alias, ownerID int64,
) (*bookmark.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE short_url = ? AND user_id = ?`,
		string(alias), ownerID,
	)

	return scanSQLiteBookmark(row)
}

func (s *SQLiteBookmarkStore) ListByOwner(
	ctx context.Context, ownerID int64, page bookmark.Page,
) (*bookmark.PageResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	if err := tx.QueryRowContext(ctx,
		`SELECT count(*) FROM bookmarks WHERE user_id = ?`, ownerID,
	).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		ownerID, page.PerPage, page.Offset(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &bookmark.PageResult{
		Items: []*bookmark.Bookmark{},
		Meta:  bookmark.NewPageMeta(page, total),
	}

	for rows.Next() {
		b, err := scanSQLiteBookmark(rows)
		if err != nil {
			return nil, err
		}

		result.Items = append(result.Items, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SQLiteBookmarkStore) Update(
	ctx context.Context, alias bookmark.Alias, ownerID int64, url, body string,
) (*bookmark.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE bookmarks
		SET url = ?, body = ?, updated_at = ?
		WHERE short_url = ? AND user_id = ?
		RETURNING `+bookmarkColumns,
		url, body, formatTime(time.Now()), string(alias), ownerID,
	)

	return scanSQLiteBookmark(row)
}

func (s *SQLiteBookmarkStore) Delete(ctx context.Context, alias bookmark.Alias, ownerID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE short_url = ? AND user_id = ?`, string(alias), ownerID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n > 0 {
		return tx.Commit()
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE short_url = ?)`, string(alias),
	).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return bookmark.ErrForbidden
	}

	return bookmark.ErrNotFound
}

func (s *SQLiteBookmarkStore) IncrementVisit(ctx context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE bookmarks
		SET visits = visits + 1
		WHERE short_url = ?
		RETURNING `+bookmarkColumns,
		string(alias),
	)

	return scanSQLiteBookmark(row)
}

func scanSQLiteBookmark(row rowScanner) (*bookmark.Bookmark, error) {
	var (
		b                    bookmark.Bookmark
		alias                string
		createdAt, updatedAt string
	)

	err := row.Scan(&b.ID, &b.Body, &b.URL, &alias, &b.Visits, &b.UserID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bookmark.ErrNotFound
		}

		return nil, err
	}

	b.Alias = bookmark.Alias(alias)

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

// SQLiteUserStore is a SQLite implementation of identity.Repository.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore creates a new SQLite-backed user store.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

func (s *SQLiteUserStore) Create(ctx context.Context, u *identity.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "users.email") {
				return identity.ErrEmailTaken
			}

			return identity.ErrUsernameTaken
		}

		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	u.ID = id

	return nil
}

func (s *SQLiteUserStore) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	return scanSQLiteUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *SQLiteUserStore) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	return scanSQLiteUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (s *SQLiteUserStore) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return scanSQLiteUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func scanSQLiteUser(row rowScanner) (*identity.User, error) {
	var (
		u                    identity.User
		createdAt, updatedAt string
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound
		}

		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error

	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code()

	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
