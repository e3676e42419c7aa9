package store

import (
	"context"

	"github.com/serroba/bookmarks/internal/audit"
	"github.com/serroba/bookmarks/internal/messaging"
	"go.uber.org/zap"
)

// Log is an audit.Sink that writes every event to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog creates a logging audit sink.
func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger.Named("audit")}
}

func (l *Log) with(ctx context.Context, meta audit.Meta) *zap.Logger {
	return l.logger.With(
		zap.String("correlationId", messaging.CorrelationID(ctx)),
		zap.String("clientIp", meta.ClientIP),
		zap.String("userAgent", meta.UserAgent),
	)
}

func (l *Log) SaveUserRegistered(ctx context.Context, event *audit.UserRegistered) error {
	l.with(ctx, event.Meta).Info("user registered",
		zap.Int64("userId", event.UserID),
		zap.String("username", event.Username),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}

func (l *Log) SaveBookmarkCreated(ctx context.Context, event *audit.BookmarkCreated) error {
	l.with(ctx, event.Meta).Info("bookmark created",
		zap.Int64("bookmarkId", event.BookmarkID),
		zap.Int64("userId", event.UserID),
		zap.String("shortUrl", event.Alias),
		zap.String("url", event.URL),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}

func (l *Log) SaveBookmarkUpdated(ctx context.Context, event *audit.BookmarkUpdated) error {
	l.with(ctx, event.Meta).Info("bookmark updated",
		zap.Int64("bookmarkId", event.BookmarkID),
		zap.Int64("userId", event.UserID),
		zap.String("shortUrl", event.Alias),
		zap.String("url", event.URL),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}

func (l *Log) SaveBookmarkDeleted(ctx context.Context, event *audit.BookmarkDeleted) error {
	l.with(ctx, event.Meta).Info("bookmark deleted",
		zap.Int64("userId", event.UserID),
		zap.String("shortUrl", event.Alias),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}

func (l *Log) SaveBookmarkVisited(ctx context.Context, event *audit.BookmarkVisited) error {
	l.with(ctx, event.Meta).Info("bookmark visited",
		zap.String("shortUrl", event.Alias),
		zap.Int64("visits", event.Visits),
		zap.String("referrer", event.Referrer),
		zap.Time("occurredAt", event.OccurredAt),
	)

	return nil
}
