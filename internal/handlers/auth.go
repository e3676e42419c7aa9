package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/bookmarks/internal/audit"
	"github.com/serroba/bookmarks/internal/identity"
	"go.uber.org/zap"
)

// TokenIssuer mints access and refresh tokens for a user id.
type TokenIssuer interface {
	IssueAccess(userID int64) (string, error)
	IssueRefresh(userID int64) (string, error)
}

// AuthHandler handles registration, login, whoami and token refresh.
type AuthHandler struct {
	users  *identity.Service
	tokens TokenIssuer
	events audit.Publishers
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(
	users *identity.Service,
	tokens TokenIssuer,
	events audit.Publishers,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		events: events,
		logger: logger,
	}
}

func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	u, err := h.users.Register(ctx, identity.Registration{
		Username: req.Body.Username,
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	event := &audit.UserRegistered{
		Meta:       auditMeta(ctx),
		UserID:     u.ID,
		Username:   u.Username,
		OccurredAt: time.Now(),
	}
	if err := h.events.UserRegistered(ctx, event); err != nil {
		h.logger.Error("failed to publish audit event",
			zap.String("topic", audit.TopicUserRegistered),
			zap.Int64("userId", u.ID),
			zap.Error(err),
		)
	}

	resp := &RegisterResponse{}
	resp.Body.Message = MsgUserCreated
	resp.Body.User = newUserView(u)

	return resp, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := h.users.Authenticate(ctx, identity.Credentials{
		Email:    req.Body.Email,
		Password: req.Body.Password,
	})
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	access, err := h.tokens.IssueAccess(u.ID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	refresh, err := h.tokens.IssueRefresh(u.ID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	resp := &LoginResponse{}
	resp.Body.User = newUserView(u)
	resp.Body.AccessToken = access
	resp.Body.RefreshToken = refresh

	return resp, nil
}

func (h *AuthHandler) Me(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized(MsgMissingToken)
	}

	u, err := h.users.Get(ctx, id)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	resp := &MeResponse{}
	resp.Body.User = newUserView(u)

	return resp, nil
}

func (h *AuthHandler) Refresh(ctx context.Context, _ *struct{}) (*RefreshResponse, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized(MsgMissingToken)
	}

	access, err := h.tokens.IssueAccess(id)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	resp := &RefreshResponse{}
	resp.Body.AccessToken = access

	return resp, nil
}
