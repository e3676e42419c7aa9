package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/identity"
	"github.com/serroba/bookmarks/internal/validate"
	"go.uber.org/zap"
)

const (
	MsgNotFound         = "Not Found"
	MsgItemNotFound     = "Item not found"
	MsgAuthorization    = "Authorization error"
	MsgWrongCredentials = "Wrong credentials"
	MsgUsernameTaken    = "Username is already taken"
	MsgEmailTaken       = "Email is already taken"
	MsgAliasExhausted   = "Could not allocate a short url, please retry"
	MsgSomethingWrong   = "Something Went Wrong"
	MsgBookmarkDeleted  = "Bookmark deleted successfully"
	MsgUserCreated      = "User created successfully"
	MsgMissingToken     = "Missing Authorization Header"
	MsgInvalidToken     = "Token is invalid or expired"
)

var configureErrors sync.Once

// ConfigureErrors adjusts huma's error constructor: schema failures become
// 400 instead of 422 and server faults never expose their cause.
func ConfigureErrors() {
	configureErrors.Do(func() {
		base := huma.NewError

		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}

			if status >= http.StatusInternalServerError {
				msg = MsgSomethingWrong
				errs = nil
			}

			return base(status, msg, errs...)
		}
	})
}

// toHTTPError maps domain errors onto HTTP errors. Unknown errors are logged
// and reported as a generic 500.
func toHTTPError(logger *zap.Logger, err error) error {
	var verr *validate.Error

	switch {
	case errors.As(err, &verr):
		return huma.Error400BadRequest(verr.Message)
	case errors.Is(err, identity.ErrUsernameTaken):
		return huma.Error400BadRequest(MsgUsernameTaken)
	case errors.Is(err, identity.ErrEmailTaken):
		return huma.Error400BadRequest(MsgEmailTaken)
	case errors.Is(err, identity.ErrInvalidCredentials):
		return huma.Error401Unauthorized(MsgWrongCredentials)
	case errors.Is(err, identity.ErrNotFound):
		return huma.Error401Unauthorized(MsgAuthorization)
	case errors.Is(err, bookmark.ErrNotFound):
		return huma.Error404NotFound(MsgItemNotFound)
	case errors.Is(err, bookmark.ErrForbidden):
		return huma.Error401Unauthorized(MsgAuthorization)
	case errors.Is(err, bookmark.ErrAliasExhausted):
		return huma.Error400BadRequest(MsgAliasExhausted)
	default:
		logger.Error("request failed", zap.Error(err))

		return huma.Error500InternalServerError(MsgSomethingWrong)
	}
}

// NotFound answers unmatched routes with a JSON 404.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"title":"Not Found","status":404,"detail":"Not Found"}`))
}

// ServerError answers with the generic JSON 500.
func ServerError(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"title":"Internal Server Error","status":500,"detail":"` + MsgSomethingWrong + `"}`))
}
