package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/bookmarks/internal/audit"
	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/credential"
	"github.com/serroba/bookmarks/internal/handlers"
	"github.com/serroba/bookmarks/internal/health"
	"github.com/serroba/bookmarks/internal/identity"
	"github.com/serroba/bookmarks/internal/middleware"
	"go.uber.org/zap"
)

// HTTPPackage provides the chi router and the huma API with every route
// registered on it.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(chimw.RequestID)
		router.Use(middleware.AccessLog(logger))
		router.Use(middleware.Recover(logger))
		router.NotFound(handlers.NotFound)

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		issuer := do.MustInvoke[*credential.Issuer](i)
		events := do.MustInvoke[audit.Publishers](i)
		db := do.MustInvoke[*Database](i)

		handlers.ConfigureErrors()

		api := humachi.New(router, huma.DefaultConfig("Bookmarks", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api), middleware.Authenticate(api, issuer))

		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", opts.Port)
		}

		handlers.RegisterRoutes(api,
			handlers.NewAuthHandler(do.MustInvoke[*identity.Service](i), issuer, events, logger),
			handlers.NewBookmarkHandler(do.MustInvoke[*bookmark.Service](i), baseURL, events, logger),
		)

		var redisChecker health.Checker
		if opts.RedisAddr != "" {
			redisChecker = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
		}

		health.RegisterRoutes(api, health.NewHandler(redisChecker, db.Checker()))

		return api, nil
	})
}
