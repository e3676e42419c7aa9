package container_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/bookmarks/internal/audit"
	"github.com/serroba/bookmarks/internal/container"
	"github.com/serroba/bookmarks/internal/credential"
	"github.com/serroba/bookmarks/internal/handlers"
	"github.com/serroba/bookmarks/internal/health"
	"github.com/serroba/bookmarks/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInjector(t *testing.T, opts *container.Options) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.DatabasePackage(injector)
	container.RepositoryPackage(injector)
	container.ServicePackage(injector)
	container.PublisherGroupPackage(injector)
	container.ConsumerGroupPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func serve(t *testing.T, injector *do.Injector, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHTTPPackage(t *testing.T) {
	t.Run("serves the health check without external services", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			Port:      8888,
			LogFormat: "json",
			LogLevel:  "error",
			JWTSecret: "secret",
		})

		w := serve(t, injector, http.MethodGet, "/health_check", "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), health.Message)
		assert.NotContains(t, w.Body.String(), `"redis"`)
		assert.NotContains(t, w.Body.String(), `"database"`)
	})

	t.Run("unmatched routes answer a json 404", func(t *testing.T) {
		injector := newInjector(t, &container.Options{LogFormat: "json", LogLevel: "error", JWTSecret: "secret"})

		w := serve(t, injector, http.MethodGet, "/no/such/route", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Not Found")
	})

	t.Run("panicking handlers answer a json 500", func(t *testing.T) {
		injector := newInjector(t, &container.Options{LogFormat: "json", LogLevel: "error", JWTSecret: "secret"})

		router := do.MustInvoke[*chi.Mux](injector)
		router.Get("/panics", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		})

		w := serve(t, injector, http.MethodGet, "/panics", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), handlers.MsgSomethingWrong)
	})

	t.Run("persists users in sqlite", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			SQLitePath: filepath.Join(t.TempDir(), "bookmarks.db"),
			LogFormat:  "json",
			LogLevel:   "error",
			JWTSecret:  "secret",
		})

		w := serve(t, injector, http.MethodPost, "/api/v1/auth/register",
			`{"username":"al","email":"al@x.com","password":"pw12345"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = serve(t, injector, http.MethodGet, "/health_check", "")
		assert.Contains(t, w.Body.String(), `"database":"healthy"`)

		db := do.MustInvoke[*container.Database](injector)
		require.NotNil(t, db.SQLite)

		var count int
		require.NoError(t, db.SQLite.QueryRow(`SELECT count(*) FROM users`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("fails without a signing secret", func(t *testing.T) {
		injector := newInjector(t, &container.Options{LogFormat: "json", LogLevel: "error"})

		_, err := do.Invoke[*credential.Issuer](injector)

		assert.Error(t, err)
	})
}

func TestConsumerGroupPackage_InProcess(t *testing.T) {
	injector := newInjector(t, &container.Options{LogFormat: "json", LogLevel: "error", JWTSecret: "secret"})

	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, group.Start(ctx))
	assert.ElementsMatch(t, []string{
		audit.TopicUserRegistered,
		audit.TopicBookmarkCreated,
		audit.TopicBookmarkUpdated,
		audit.TopicBookmarkDeleted,
		audit.TopicBookmarkVisited,
	}, group.Topics())

	publishers := do.MustInvoke[audit.Publishers](injector)
	assert.NoError(t, publishers.UserRegistered(ctx, &audit.UserRegistered{
		UserID:     1,
		Username:   "al",
		OccurredAt: time.Now(),
	}))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantErr bool
	}{
		{name: "console default", format: "console"},
		{name: "json with level", format: "json", level: "warn"},
		{name: "empty means console", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
		{name: "unknown level", format: "json", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := container.NewLogger(tt.format, tt.level)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}
