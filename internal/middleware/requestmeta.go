package middleware

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/serroba/bookmarks/internal/handlers"
	"github.com/serroba/bookmarks/internal/messaging"
)

// RequestMeta adds client IP, user-agent and referrer to the request context
// and carries chi's request id along as the correlation id of any event the
// request publishes.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  extractClientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)

		if reqID := middleware.GetReqID(newCtx); reqID != "" {
			newCtx = messaging.WithCorrelationID(newCtx, reqID)
		}

		next(huma.WithContext(ctx, newCtx))
	}
}

func extractClientIP(ctx huma.Context) string {
	// X-Forwarded-For lists the original client first.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}

	return addr
}
