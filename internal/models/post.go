package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media kinds accepted for uploads
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is a hosted file attached to a post.
// swagger:model Media
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// PostDB represents a post row joined with its author and likes.
type PostDB struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	MediaURL  *string   `db:"media_url"`
	MediaType *string   `db:"media_type"`
	AuthorID  uuid.UUID `db:"author_id"`
	Author    User      `db:"author"`
	Likes     string    `db:"likes"` // comma separated user ids
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Post is the API representation of a post.
// swagger:model Post
type Post struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Media     *Media      `json:"media,omitempty"`
	Author    *User       `json:"author"`
	Likes     []uuid.UUID `json:"likes"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ToPost converts the row into its API representation.
// Unparseable like entries are skipped.
func (p *PostDB) ToPost() *Post {
	post := &Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Likes:     []uuid.UUID{},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.MediaURL != nil && p.MediaType != nil {
		post.Media = &Media{URL: *p.MediaURL, Type: *p.MediaType}
	}
	if p.Author.ID != uuid.Nil {
		author := p.Author
		post.Author = &author
	} else {
		post.Author = &User{ID: p.AuthorID}
	}
	for _, s := range strings.Split(p.Likes, ",") {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			post.Likes = append(post.Likes, id)
		}
	}
	return post
}

// PostUpdate lists the post fields an update may change.
// Nil fields are left untouched.
type PostUpdate struct {
	Title   *string
	Content *string
	Media   *Media
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int
}
