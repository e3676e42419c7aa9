package audit

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/bookmarks/internal/messaging"
)

// Publishers holds one typed publish function per audit topic.
type Publishers struct {
	UserRegistered  messaging.Publish[UserRegistered]
	BookmarkCreated messaging.Publish[BookmarkCreated]
	BookmarkUpdated messaging.Publish[BookmarkUpdated]
	BookmarkDeleted messaging.Publish[BookmarkDeleted]
	BookmarkVisited messaging.Publish[BookmarkVisited]
}

// NewPublishers binds every audit topic to publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		UserRegistered:  messaging.NewPublishFunc[UserRegistered](publisher, TopicUserRegistered),
		BookmarkCreated: messaging.NewPublishFunc[BookmarkCreated](publisher, TopicBookmarkCreated),
		BookmarkUpdated: messaging.NewPublishFunc[BookmarkUpdated](publisher, TopicBookmarkUpdated),
		BookmarkDeleted: messaging.NewPublishFunc[BookmarkDeleted](publisher, TopicBookmarkDeleted),
		BookmarkVisited: messaging.NewPublishFunc[BookmarkVisited](publisher, TopicBookmarkVisited),
	}
}

// DiscardPublishers returns Publishers that drop every event.
func DiscardPublishers() Publishers {
	return Publishers{
		UserRegistered:  messaging.Discard[UserRegistered](),
		BookmarkCreated: messaging.Discard[BookmarkCreated](),
		BookmarkUpdated: messaging.Discard[BookmarkUpdated](),
		BookmarkDeleted: messaging.Discard[BookmarkDeleted](),
		BookmarkVisited: messaging.Discard[BookmarkVisited](),
	}
}
