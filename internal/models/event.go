package models

// Post event types
const (
	PostEventCreated = "created"
	PostEventUpdated = "updated"
	PostEventDeleted = "deleted"
	PostEventLiked   = "liked"
	PostEventUnliked = "unliked"
)

// PostEvent describes a post mutation published to the event stream.
type PostEvent struct {
	EventID    string `json:"event_id"`    // EventID is a unique identifier for the event.
	Type       string `json:"type"`        // Type is one of the PostEvent* constants.
	PostID     string `json:"post_id"`     // PostID identifies the affected post.
	UserID     string `json:"user_id"`     // UserID is the user who performed the mutation.
	LikesCount int    `json:"likes_count"` // LikesCount is set for like and unlike events.
	Timestamp  int64  `json:"timestamp"`   // Timestamp is the Unix time (in seconds) of the mutation.
}
