package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/bookmarks/internal/credential"
	"github.com/serroba/bookmarks/internal/handlers"
)

// TokenVerifier checks a bearer token of the expected type and returns the
// user id bound to it.
type TokenVerifier interface {
	Verify(token string, expected credential.TokenType) (int64, error)
}

// Authenticate enforces the security requirement declared on each operation.
// Operations without one pass through untouched. On success the caller's user
// id is stored in the request context.
func Authenticate(api huma.API, verifier TokenVerifier) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		expected, required := requiredToken(ctx.Operation())
		if !required {
			next(ctx)

			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, handlers.MsgMissingToken)

			return
		}

		userID, err := verifier.Verify(token, expected)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, handlers.MsgInvalidToken)

			return
		}

		next(huma.WithContext(ctx, handlers.ContextWithUserID(ctx.Context(), userID)))
	}
}

func requiredToken(op *huma.Operation) (credential.TokenType, bool) {
	if op == nil {
		return "", false
	}

	for _, req := range op.Security {
		if _, ok := req[handlers.SecurityRefresh]; ok {
			return credential.Refresh, true
		}

		if _, ok := req[handlers.SecurityAccess]; ok {
			return credential.Access, true
		}
	}

	return "", false
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
