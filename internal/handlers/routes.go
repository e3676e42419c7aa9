package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Security scheme names. Operations list one of them to require a token of
// the matching type.
const (
	SecurityAccess  = "accessToken"
	SecurityRefresh = "refreshToken"
)

// RegisterSecuritySchemes declares the bearer schemes used by RegisterRoutes.
func RegisterSecuritySchemes(api huma.API) {
	components := api.OpenAPI().Components
	if components.SecuritySchemes == nil {
		components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}

	components.SecuritySchemes[SecurityAccess] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
		Description:  "Short-lived access token returned by login",
	}
	components.SecuritySchemes[SecurityRefresh] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
		Description:  "Long-lived refresh token returned by login",
	}
}

func requires(scheme string) []map[string][]string {
	return []map[string][]string{{scheme: {}}}
}

// RegisterRoutes registers the auth, bookmark and redirect routes.
func RegisterRoutes(api huma.API, auth *AuthHandler, bookmarks *BookmarkHandler) {
	RegisterSecuritySchemes(api)

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register a user",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, auth.Register)

	huma.Register(api, huma.Operation{
		OperationID:   "login",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/login",
		Summary:       "Exchange credentials for tokens",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, auth.Login)

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Tags:        []string{"Auth"},
		Security:    requires(SecurityAccess),
		Errors:      []int{http.StatusUnauthorized},
	}, auth.Me)

	huma.Register(api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/refresh",
		Summary:     "Mint a new access token",
		Tags:        []string{"Auth"},
		Security:    requires(SecurityRefresh),
		Errors:      []int{http.StatusUnauthorized},
	}, auth.Refresh)

	huma.Register(api, huma.Operation{
		OperationID: "list-bookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/",
		Summary:     "List own bookmarks",
		Tags:        []string{"Bookmarks"},
		Security:    requires(SecurityAccess),
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, bookmarks.List)

	huma.Register(api, huma.Operation{
		OperationID:   "create-bookmark",
		Method:        http.MethodPost,
		Path:          "/api/v1/bookmarks/",
		Summary:       "Create bookmark",
		Description:   "Stores the URL under a freshly generated six character alias.",
		Tags:          []string{"Bookmarks"},
		Security:      requires(SecurityAccess),
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, bookmarks.Create)

	huma.Register(api, huma.Operation{
		OperationID: "get-bookmark",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks/{short_url}",
		Summary:     "Get bookmark",
		Description: "Returns the bookmark and counts a visit.",
		Tags:        []string{"Bookmarks"},
		Errors:      []int{http.StatusNotFound},
	}, bookmarks.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-bookmark",
		Method:      http.MethodPut,
		Path:        "/api/v1/bookmarks/{short_url}",
		Summary:     "Update bookmark",
		Description: "Replaces url and body. The alias never changes.",
		Tags:        []string{"Bookmarks"},
		Security:    requires(SecurityAccess),
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, bookmarks.Update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-bookmark",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{short_url}",
		Summary:     "Delete bookmark",
		Tags:        []string{"Bookmarks"},
		Security:    requires(SecurityAccess),
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, bookmarks.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{short_url}",
		Summary:     "Redirect to original URL",
		Description: "Counts a visit and redirects to the URL stored under the alias.",
		Tags:        []string{"Redirect"},
		Errors:      []int{http.StatusNotFound},
	}, bookmarks.Redirect)
}
