package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/bookmarks/internal/audit"
	"github.com/serroba/bookmarks/internal/bookmark"
	"go.uber.org/zap"
)

// BookmarkHandler handles bookmark CRUD and alias resolution.
type BookmarkHandler struct {
	bookmarks *bookmark.Service
	baseURL   string
	events    audit.Publishers
	logger    *zap.Logger
}

// NewBookmarkHandler creates a new bookmark handler. baseURL prefixes the
// alias in short links.
func NewBookmarkHandler(
	bookmarks *bookmark.Service,
	baseURL string,
	events audit.Publishers,
	logger *zap.Logger,
) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarks: bookmarks,
		baseURL:   strings.TrimRight(baseURL, "/"),
		events:    events,
		logger:    logger,
	}
}

func (h *BookmarkHandler) List(ctx context.Context, req *ListBookmarksRequest) (*ListBookmarksResponse, error) {
	owner, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized(MsgMissingToken)
	}

	page, err := h.bookmarks.List(ctx, owner, bookmark.Page{Number: req.Page, PerPage: req.PerPage})
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	resp := &ListBookmarksResponse{}
	resp.Body.Data = make([]BookmarkView, 0, len(page.Items))

	for _, b := range page.Items {
		resp.Body.Data = append(resp.Body.Data, newBookmarkView(b, h.baseURL))
	}

	resp.Body.Meta = newPageMetaView(page.Meta)

	return resp, nil
}

func (h *BookmarkHandler) Create(ctx context.Context, req *CreateBookmarkRequest) (*BookmarkResponse, error) {
	owner, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized(MsgMissingToken)
	}

	b, err := h.bookmarks.Create(ctx, owner, bookmark.Content{URL: req.Body.URL, Body: req.Body.Body})
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	h.publish(audit.TopicBookmarkCreated, string(b.Alias), h.events.BookmarkCreated(ctx, &audit.BookmarkCreated{
		Meta:       auditMeta(ctx),
		BookmarkID: b.ID,
		UserID:     b.UserID,
		Alias:      string(b.Alias),
		URL:        b.URL,
		OccurredAt: time.Now(),
	}))

	return h.single(b), nil
}

func (h *BookmarkHandler) Get(ctx context.Context, req *BookmarkRequest) (*BookmarkResponse, error) {
	b, err := h.resolve(ctx, bookmark.Alias(req.Alias))
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return h.single(b), nil
}

func (h *BookmarkHandler) Update(ctx context.Context, req *UpdateBookmarkRequest) (*BookmarkResponse, error) {
	owner, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized(MsgMissingToken)
	}

	b, err := h.bookmarks.Update(ctx, bookmark.Alias(req.Alias), owner,
		bookmark.Content{URL: req.Body.URL, Body: req.Body.Body})
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	h.publish(audit.TopicBookmarkUpdated, string(b.Alias), h.events.BookmarkUpdated(ctx, &audit.BookmarkUpdated{
		Meta:       auditMeta(ctx),
		BookmarkID: b.ID,
		UserID:     b.UserID,
		Alias:      string(b.Alias),
		URL:        b.URL,
		OccurredAt: time.Now(),
	}))

	return h.single(b), nil
}

func (h *BookmarkHandler) Delete(ctx context.Context, req *BookmarkRequest) (*DeleteBookmarkResponse, error) {
	owner, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized(MsgMissingToken)
	}

	if err := h.bookmarks.Delete(ctx, bookmark.Alias(req.Alias), owner); err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	h.publish(audit.TopicBookmarkDeleted, req.Alias, h.events.BookmarkDeleted(ctx, &audit.BookmarkDeleted{
		Meta:       auditMeta(ctx),
		UserID:     owner,
		Alias:      req.Alias,
		OccurredAt: time.Now(),
	}))

	resp := &DeleteBookmarkResponse{}
	resp.Body.Message = MsgBookmarkDeleted

	return resp, nil
}

func (h *BookmarkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	b, err := h.resolve(ctx, bookmark.Alias(req.Alias))
	if err != nil {
		if errors.Is(err, bookmark.ErrNotFound) {
			return nil, huma.Error404NotFound(MsgNotFound)
		}

		return nil, toHTTPError(h.logger, err)
	}

	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: b.URL,
	}, nil
}

// resolve counts a visit and emits the matching audit event.
func (h *BookmarkHandler) resolve(ctx context.Context, alias bookmark.Alias) (*bookmark.Bookmark, error) {
	b, err := h.bookmarks.Resolve(ctx, alias)
	if err != nil {
		return nil, err
	}

	h.publish(audit.TopicBookmarkVisited, string(b.Alias), h.events.BookmarkVisited(ctx, &audit.BookmarkVisited{
		Meta:       auditMeta(ctx),
		Alias:      string(b.Alias),
		Visits:     b.Visits,
		OccurredAt: time.Now(),
	}))

	return b, nil
}

func (h *BookmarkHandler) single(b *bookmark.Bookmark) *BookmarkResponse {
	resp := &BookmarkResponse{}
	resp.Body.Data = newBookmarkView(b, h.baseURL)

	return resp
}

func (h *BookmarkHandler) publish(topic, alias string, err error) {
	if err != nil {
		h.logger.Error("failed to publish audit event",
			zap.String("topic", topic),
			zap.String("shortUrl", alias),
			zap.Error(err),
		)
	}
}
