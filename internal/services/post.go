package services

//go:generate mockgen -source=post.go -destination=post_mock.go -package=services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/repositories"
	"github.com/segmentio/kafka-go"
)

// PostReader defines read operations for posts.
type PostReader interface {
	List(ctx context.Context, page models.Page) ([]models.PostDB, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PostDB, error)
}

// PostWriter defines write operations for posts.
type PostWriter interface {
	Save(ctx context.Context, post *models.PostDB) error
	Update(ctx context.Context, id, authorID uuid.UUID, upd models.PostUpdate) (bool, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error)
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.LikeResult, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// PostFields carries the editable post fields of an update. Nil fields are kept.
type PostFields struct {
	Title   *string
	Content *string
}

// AfterCommitFunc defers fn until the caller's transaction, if any, commits.
type AfterCommitFunc func(ctx context.Context, fn func())

// PostService handles posts, likes and post event publishing.
type PostService struct {
	reader      PostReader
	writer      PostWriter
	media       MediaUploader
	kafkaWriter KafkaWriter
	afterCommit AfterCommitFunc
}

// PostServiceOption configures a PostService.
type PostServiceOption func(*PostService)

// WithAfterCommit makes the service publish events only once the request
// transaction has committed.
func WithAfterCommit(fn AfterCommitFunc) PostServiceOption {
	return func(s *PostService) {
		s.afterCommit = fn
	}
}

// NewPostService creates a new PostService. kafkaWriter may be nil.
func NewPostService(reader PostReader, writer PostWriter, media MediaUploader, kafkaWriter KafkaWriter, opts ...PostServiceOption) *PostService {
	s := &PostService{
		reader:      reader,
		writer:      writer,
		media:       media,
		kafkaWriter: kafkaWriter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publishEvent publishes a post event to Kafka once the surrounding
// transaction commits. Failures are only logged.
func (s *PostService) publishEvent(ctx context.Context, eventType string, postID, userID uuid.UUID, likesCount int) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "type", eventType, "post_id", postID)
		return
	}
	if s.afterCommit == nil {
		s.writeEvent(ctx, eventType, postID, userID, likesCount)
		return
	}
	s.afterCommit(ctx, func() {
		s.writeEvent(ctx, eventType, postID, userID, likesCount)
	})
}

func (s *PostService) writeEvent(ctx context.Context, eventType string, postID, userID uuid.UUID, likesCount int) {

	event := models.PostEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		PostID:     postID.String(),
		UserID:     userID.String(),
		LikesCount: likesCount,
		Timestamp:  time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal post event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.PostID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish post event to Kafka", "event_id", event.EventID, "type", eventType, "error", err)
	} else {
		logger.Log.Infow("Post event published to Kafka", "event_id", event.EventID, "type", eventType, "post_id", event.PostID)
	}
}

// List returns posts in creation order.
func (s *PostService) List(ctx context.Context, page models.Page) ([]*models.Post, error) {
	rows, err := s.reader.List(ctx, page)
	if err != nil {
		logger.Log.Errorw("failed to list posts", "error", err)
		return nil, err
	}

	posts := make([]*models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].ToPost())
	}
	return posts, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get post", "post_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrPostNotFound
	}
	return row.ToPost(), nil
}

// Create stores a new post authored by authorID. The media file is optional.
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, title, content string, file *models.Upload) (*models.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrValidation)
	}

	now := time.Now().UTC()
	row := &models.PostDB{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if file != nil {
		media, err := s.media.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		row.MediaURL, row.MediaType = &media.URL, &media.Type
	}

	if err := s.writer.Save(ctx, row); err != nil {
		if errors.Is(err, repositories.ErrReferenceMissing) {
			return nil, ErrUserNotFound
		}
		logger.Log.Errorw("failed to save post", "author_id", authorID, "error", err)
		return nil, err
	}

	post, err := s.Get(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.PostEventCreated, row.ID, authorID, 0)
	return post, nil
}

// Update changes a post owned by authorID. Posts owned by someone else are
// reported as not found.
func (s *PostService) Update(ctx context.Context, id, authorID uuid.UUID, fields PostFields, file *models.Upload) (*models.Post, error) {
	if (fields.Title != nil && strings.TrimSpace(*fields.Title) == "") ||
		(fields.Content != nil && strings.TrimSpace(*fields.Content) == "") {
		return nil, fmt.Errorf("%w: title and content cannot be empty", ErrValidation)
	}

	existing, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get post", "post_id", id, "error", err)
		return nil, err
	}
	if existing == nil || existing.AuthorID != authorID {
		return nil, ErrPostNotFound
	}

	upd := models.PostUpdate{Title: fields.Title, Content: fields.Content}
	if file != nil {
		media, err := s.media.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		upd.Media = media
	}

	ok, err := s.writer.Update(ctx, id, authorID, upd)
	if err != nil {
		logger.Log.Errorw("failed to update post", "post_id", id, "error", err)
		return nil, err
	}
	if !ok {
		return nil, ErrPostNotFound
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, models.PostEventUpdated, id, authorID, len(post.Likes))
	return post, nil
}

// Delete removes a post owned by authorID.
func (s *PostService) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	ok, err := s.writer.Delete(ctx, id, authorID)
	if err != nil {
		logger.Log.Errorw("failed to delete post", "post_id", id, "error", err)
		return err
	}
	if !ok {
		return ErrPostNotFound
	}

	s.publishEvent(ctx, models.PostEventDeleted, id, authorID, 0)
	return nil
}

// ToggleLike likes the post for userID, or unlikes it when already liked,
// and returns the resulting like count.
func (s *PostService) ToggleLike(ctx context.Context, id, userID uuid.UUID) (int, error) {
	res, err := s.writer.ToggleLike(ctx, id, userID)
	if errors.Is(err, repositories.ErrReferenceMissing) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		logger.Log.Errorw("failed to toggle like", "post_id", id, "user_id", userID, "error", err)
		return 0, err
	}
	if res == nil {
		return 0, ErrPostNotFound
	}

	eventType := models.PostEventUnliked
	if res.Liked {
		eventType = models.PostEventLiked
	}
	s.publishEvent(ctx, eventType, id, userID, res.LikesCount)

	return res.LikesCount, nil
}
