package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/identity"
)

const (
	uniqueViolation = "23505"

	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

const bookmarkColumns = `id, body, url, short_url, visits, user_id, created_at, updated_at`

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// rowScanner is satisfied by pgx.Row, pgx.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresBookmarkStore is a PostgreSQL implementation of bookmark.Repository.
type PostgresBookmarkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBookmarkStore creates a new PostgreSQL-backed bookmark store.
func NewPostgresBookmarkStore(pool *pgxpool.Pool) *PostgresBookmarkStore {
	return &PostgresBookmarkStore{pool: pool}
}

func (p *PostgresBookmarkStore) AliasExists(ctx context.Context, alias bookmark.Alias) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE short_url = $1)`,
		string(alias),
	).Scan(&exists)

	return exists, err
}

func (p *PostgresBookmarkStore) Create(ctx context.Context, b *bookmark.Bookmark) error {
	query := `
		INSERT INTO bookmarks (body, url, short_url, visits, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, $6)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		b.Body,
		b.URL,
		string(b.Alias),
		b.UserID,
		b.CreatedAt,
		b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return bookmark.ErrAliasTaken
		}

		return err
	}

	return nil
}

func (p *PostgresBookmarkStore) GetByAlias(ctx context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE short_url = $1`,
		string(alias),
	)

	return scanPostgresBookmark(row)
}

func (p *PostgresBookmarkStore) GetByAliasAndOwner(
	ctx context.Context, alias bookmark.Alias, ownerID int64,
) (*bookmark.Bookmark, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE short_url = $1 AND user_id = $2`,
		string(alias), ownerID,
	)

	return scanPostgresBookmark(row)
}

func (p *PostgresBookmarkStore) ListByOwner(
	ctx context.Context, ownerID int64, page bookmark.Page,
) (*bookmark.PageResult, error) {
	result := &bookmark.PageResult{Items: []*bookmark.Bookmark{}}

	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

	err := pgx.BeginTxFunc(ctx, p.pool, opts, func(tx pgx.Tx) error {
		var total int64
		if err := tx.QueryRow(ctx,
			`SELECT count(*) FROM bookmarks WHERE user_id = $1`, ownerID,
		).Scan(&total); err != nil {
			return err
		}

		result.Meta = bookmark.NewPageMeta(page, total)

		rows, err := tx.Query(ctx,
			`SELECT `+bookmarkColumns+` FROM bookmarks WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
			ownerID, page.PerPage, page.Offset(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanPostgresBookmark(rows)
			if err != nil {
				return err
			}

			result.Items = append(result.Items, b)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (p *PostgresBookmarkStore) Update(
	ctx context.Context, alias bookmark.Alias, ownerID int64, url, body string,
) (*bookmark.Bookmark, error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE bookmarks
		SET url = $3, body = $4, updated_at = $5
		WHERE short_url = $1 AND user_id = $2
		RETURNING `+bookmarkColumns,
		string(alias), ownerID, url, body, time.Now().UTC(),
	)

	return scanPostgresBookmark(row)
}

func (p *PostgresBookmarkStore) Delete(ctx context.Context, alias bookmark.Alias, ownerID int64) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM bookmarks WHERE short_url = $1 AND user_id = $2`,
			string(alias), ownerID,
		)
		if err != nil {
			return err
		}

		if tag.RowsAffected() > 0 {
			return nil
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM bookmarks WHERE short_url = $1)`, string(alias),
		).Scan(&exists); err != nil {
			return err
		}

		if exists {
			return bookmark.ErrForbidden
		}

		return bookmark.ErrNotFound
	})
}

func (p *PostgresBookmarkStore) IncrementVisit(ctx context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE bookmarks
		SET visits = visits + 1
		WHERE short_url = $1
		RETURNING `+bookmarkColumns,
		string(alias),
	)

	return scanPostgresBookmark(row)
}

func scanPostgresBookmark(row rowScanner) (*bookmark.Bookmark, error) {
	var (
		b     bookmark.Bookmark
		alias string
	)

	err := row.Scan(&b.ID, &b.Body, &b.URL, &alias, &b.Visits, &b.UserID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bookmark.ErrNotFound
		}

		return nil, err
	}

	b.Alias = bookmark.Alias(alias)

	return &b, nil
}

// PostgresUserStore is a PostgreSQL implementation of identity.Repository.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a new PostgreSQL-backed user store.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (p *PostgresUserStore) Create(ctx context.Context, u *identity.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case usernameConstraint:
				return identity.ErrUsernameTaken
			case emailConstraint:
				return identity.ErrEmailTaken
			}
		}

		return err
	}

	return nil
}

func (p *PostgresUserStore) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	return scanPostgresUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (p *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	return scanPostgresUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (p *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return scanPostgresUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func scanPostgresUser(row rowScanner) (*identity.User, error) {
	var u identity.User

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNotFound
		}

		return nil, err
	}

	return &u, nil
}
