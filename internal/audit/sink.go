package audit

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/bookmarks/internal/messaging"
	"go.uber.org/zap"
)

// Sink persists audit events.
type Sink interface {
	SaveUserRegistered(ctx context.Context, event *UserRegistered) error
	SaveBookmarkCreated(ctx context.Context, event *BookmarkCreated) error
	SaveBookmarkUpdated(ctx context.Context, event *BookmarkUpdated) error
	SaveBookmarkDeleted(ctx context.Context, event *BookmarkDeleted) error
	SaveBookmarkVisited(ctx context.Context, event *BookmarkVisited) error
}

// NewConsumers returns one consumer per audit topic, all feeding sink.
func NewConsumers(subscriber message.Subscriber, sink Sink, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer[UserRegistered](subscriber, TopicUserRegistered, sink.SaveUserRegistered, logger),
		messaging.NewConsumer[BookmarkCreated](subscriber, TopicBookmarkCreated, sink.SaveBookmarkCreated, logger),
		messaging.NewConsumer[BookmarkUpdated](subscriber, TopicBookmarkUpdated, sink.SaveBookmarkUpdated, logger),
		messaging.NewConsumer[BookmarkDeleted](subscriber, TopicBookmarkDeleted, sink.SaveBookmarkDeleted, logger),
		messaging.NewConsumer[BookmarkVisited](subscriber, TopicBookmarkVisited, sink.SaveBookmarkVisited, logger),
	}
}
