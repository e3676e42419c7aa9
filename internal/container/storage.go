package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/health"
	"github.com/serroba/bookmarks/internal/identity"
	"github.com/serroba/bookmarks/internal/store"
	"go.uber.org/zap"
)

// RedisClient closes the wrapped client when the injector shuts down.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// Database holds the SQL backend selected by the options. Both handles are
// nil when bookmarks and users live in memory.
type Database struct {
	Pool   *pgxpool.Pool
	SQLite *sql.DB
}

func (d *Database) Shutdown() error {
	if d.Pool != nil {
		d.Pool.Close()
	}

	if d.SQLite != nil {
		return d.SQLite.Close()
	}

	return nil
}

// Checker returns a health checker for the configured backend, or nil.
func (d *Database) Checker() health.Checker {
	switch {
	case d.Pool != nil:
		return health.NewPostgresChecker(d.Pool)
	case d.SQLite != nil:
		return health.NewSQLChecker(d.SQLite)
	default:
		return nil
	}
}

// RedisPackage provides a lazily connected Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})}, nil
	})
}

// DatabasePackage opens Postgres when a database url is set, SQLite when a
// path is set, and nothing otherwise.
func DatabasePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Database, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch {
		case opts.DatabaseURL != "":
			if opts.Migrate {
				if err := store.RunMigrations(opts.DatabaseURL); err != nil {
					return nil, fmt.Errorf("run migrations: %w", err)
				}
			}

			pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("connect postgres: %w", err)
			}

			logger.Info("using postgres store")

			return &Database{Pool: pool}, nil
		case opts.SQLitePath != "":
			db, err := store.OpenSQLite(opts.SQLitePath)
			if err != nil {
				return nil, fmt.Errorf("open sqlite: %w", err)
			}

			logger.Info("using sqlite store", zap.String("path", opts.SQLitePath))

			return &Database{SQLite: db}, nil
		default:
			logger.Warn("no database configured, data is kept in memory")

			return &Database{}, nil
		}
	})
}

// RepositoryPackage provides the bookmark and user repositories on top of
// the selected database.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (bookmark.Repository, error) {
		db, err := do.Invoke[*Database](i)
		if err != nil {
			return nil, err
		}

		switch {
		case db.Pool != nil:
			return store.NewPostgresBookmarkStore(db.Pool), nil
		case db.SQLite != nil:
			return store.NewSQLiteBookmarkStore(db.SQLite), nil
		default:
			return store.NewMemoryBookmarkStore(), nil
		}
	})

	do.Provide(injector, func(i *do.Injector) (identity.Repository, error) {
		db, err := do.Invoke[*Database](i)
		if err != nil {
			return nil, err
		}

		switch {
		case db.Pool != nil:
			return store.NewPostgresUserStore(db.Pool), nil
		case db.SQLite != nil:
			return store.NewSQLiteUserStore(db.SQLite), nil
		default:
			return store.NewMemoryUserStore(), nil
		}
	})
}
