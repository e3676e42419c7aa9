package handlers

import (
	"time"

	"github.com/serroba/bookmarks/internal/bookmark"
	"github.com/serroba/bookmarks/internal/identity"
)

// UserView is the public representation of a user.
type UserView struct {
	ID        int64     `json:"id"         example:"1"`
	Username  string    `json:"username"   example:"al"`
	Email     string    `json:"email"      example:"al@example.com"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserView(u *identity.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// BookmarkView is the public representation of a bookmark.
type BookmarkView struct {
	ID        int64     `json:"id"         example:"1"`
	Body      string    `json:"body"       example:"read later"`
	URL       string    `json:"url"        example:"https://example.com/very/long/path"`
	ShortURL  string    `json:"short_url"  example:"aB3xY9"                               doc:"The six character alias"`
	ShortLink string    `json:"short_link" example:"http://localhost:8888/aB3xY9"         doc:"The full short link"`
	Visits    int64     `json:"visits"     example:"0"`
	UserID    int64     `json:"user_id"    example:"1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBookmarkView(b *bookmark.Bookmark, baseURL string) BookmarkView {
	return BookmarkView{
		ID:        b.ID,
		Body:      b.Body,
		URL:       b.URL,
		ShortURL:  string(b.Alias),
		ShortLink: baseURL + "/" + string(b.Alias),
		Visits:    b.Visits,
		UserID:    b.UserID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// PageMetaView describes the position of a page within a listing.
type PageMetaView struct {
	Page       int   `json:"page"`
	Pages      int   `json:"pages"`
	TotalCount int64 `json:"total_count"`
	PrevPage   *int  `json:"prev_page"`
	NextPage   *int  `json:"next_page"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func newPageMetaView(m bookmark.PageMeta) PageMetaView {
	return PageMetaView{
		Page:       m.Page,
		Pages:      m.Pages,
		TotalCount: m.Total,
		PrevPage:   m.PrevPage,
		NextPage:   m.NextPage,
		HasNext:    m.HasNext,
		HasPrev:    m.HasPrev,
	}
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Body struct {
		Username string `json:"username" maxLength:"20"  example:"al"`
		Email    string `json:"email"    maxLength:"120" example:"al@example.com"`
		Password string `json:"password" maxLength:"100" example:"pw12345"`
	}
}

// RegisterResponse is the response for a newly created account.
type RegisterResponse struct {
	Body struct {
		Message string   `json:"message" example:"User created successfully"`
		User    UserView `json:"user"`
	}
}

// LoginRequest is the request body for exchanging credentials for tokens.
type LoginRequest struct {
	Body struct {
		Email    string `json:"email"    maxLength:"120" example:"al@example.com"`
		Password string `json:"password" maxLength:"100" example:"pw12345"`
	}
}

// LoginResponse carries the user with a fresh access and refresh token.
type LoginResponse struct {
	Body struct {
		User         UserView `json:"user"`
		AccessToken  string   `json:"access_token"`
		RefreshToken string   `json:"refresh_token"`
	}
}

// MeResponse is the response for the whoami endpoint.
type MeResponse struct {
	Body struct {
		User UserView `json:"user"`
	}
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	Body struct {
		AccessToken string `json:"access_token"`
	}
}

// ListBookmarksRequest selects a page of the caller's bookmarks.
type ListBookmarksRequest struct {
	Page    int `default:"1" doc:"1-indexed page number" minimum:"1" query:"page"`
	PerPage int `default:"5" doc:"Items per page"        maximum:"100" minimum:"1" query:"per_page"`
}

// ListBookmarksResponse is one page of bookmarks with pagination metadata.
type ListBookmarksResponse struct {
	Body struct {
		Data []BookmarkView `json:"data"`
		Meta PageMetaView   `json:"meta"`
	}
}

// BookmarkContent is the editable part of a bookmark.
type BookmarkContent struct {
	URL  string `json:"url"            doc:"The URL to shorten"  example:"https://example.com/very/long/path"`
	Body string `json:"body,omitempty" doc:"Free text note"      example:"read later"`
}

// CreateBookmarkRequest is the request body for creating a bookmark.
type CreateBookmarkRequest struct {
	Body BookmarkContent
}

// UpdateBookmarkRequest replaces url and body of a bookmark.
type UpdateBookmarkRequest struct {
	Alias string `doc:"The short url" example:"aB3xY9" path:"short_url"`
	Body  BookmarkContent
}

// BookmarkRequest addresses a single bookmark by alias.
type BookmarkRequest struct {
	Alias string `doc:"The short url" example:"aB3xY9" path:"short_url"`
}

// BookmarkResponse wraps a single bookmark.
type BookmarkResponse struct {
	Body struct {
		Data BookmarkView `json:"data"`
	}
}

// DeleteBookmarkResponse confirms a deletion.
type DeleteBookmarkResponse struct {
	Body struct {
		Message string `json:"message" example:"Bookmark deleted successfully"`
	}
}

// RedirectRequest is the request for resolving an alias.
type RedirectRequest struct {
	Alias string `doc:"The short url" example:"aB3xY9" path:"short_url"`
}

// RedirectResponse sends the client to the stored URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}
