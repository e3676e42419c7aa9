package audit

import "time"

const (
	TopicUserRegistered  = "user.registered"
	TopicBookmarkCreated = "bookmark.created"
	TopicBookmarkUpdated = "bookmark.updated"
	TopicBookmarkDeleted = "bookmark.deleted"
	TopicBookmarkVisited = "bookmark.visited"
)

// Meta describes the HTTP request that caused an event.
type Meta struct {
	ClientIP  string `json:"clientIp,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// UserRegistered is emitted after a new account is stored.
type UserRegistered struct {
	Meta

	UserID     int64     `json:"userId"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookmarkCreated is emitted after a bookmark is stored under its alias.
type BookmarkCreated struct {
	Meta

	BookmarkID int64     `json:"bookmarkId"`
	UserID     int64     `json:"userId"`
	Alias      string    `json:"shortUrl"`
	URL        string    `json:"url"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookmarkUpdated is emitted after an owner changes url or body.
type BookmarkUpdated struct {
	Meta

	BookmarkID int64     `json:"bookmarkId"`
	UserID     int64     `json:"userId"`
	Alias      string    `json:"shortUrl"`
	URL        string    `json:"url"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookmarkDeleted is emitted after an owner removes a bookmark.
type BookmarkDeleted struct {
	Meta

	UserID     int64     `json:"userId"`
	Alias      string    `json:"shortUrl"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookmarkVisited is emitted after a resolution increments the counter.
type BookmarkVisited struct {
	Meta

	Alias      string    `json:"shortUrl"`
	Visits     int64     `json:"visits"`
	OccurredAt time.Time `json:"occurredAt"`
}
