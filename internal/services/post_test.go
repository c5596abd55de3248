package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/repositories"
	"github.com/sbilibin2017/memeshare/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postMocks struct {
	reader *services.MockPostReader
	writer *services.MockPostWriter
	media  *services.MockMediaUploader
	kafka  *services.MockKafkaWriter
}

func newPostService(t *testing.T) (*services.PostService, postMocks) {
	ctrl := gomock.NewController(t)
	m := postMocks{
		reader: services.NewMockPostReader(ctrl),
		writer: services.NewMockPostWriter(ctrl),
		media:  services.NewMockMediaUploader(ctrl),
		kafka:  services.NewMockKafkaWriter(ctrl),
	}
	return services.NewPostService(m.reader, m.writer, m.media, m.kafka), m
}

func ptr[T any](v T) *T { return &v }

func TestPostService_List(t *testing.T) {
	svc, m := newPostService(t)

	liker := uuid.New()
	rows := []models.PostDB{
		{ID: uuid.New(), Title: "first", Content: "a", Author: models.User{ID: uuid.New(), Username: "alice"}},
		{ID: uuid.New(), Title: "second", Content: "b", Likes: liker.String(), MediaURL: ptr("https://cdn/x.mp4"), MediaType: ptr(models.MediaTypeVideo)},
	}
	page := models.Page{Limit: 10}
	m.reader.EXPECT().List(gomock.Any(), page).Return(rows, nil)

	posts, err := svc.List(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Title)
	assert.Equal(t, "alice", posts[0].Author.Username)
	assert.Empty(t, posts[0].Likes)
	assert.Nil(t, posts[0].Media)
	assert.Equal(t, []uuid.UUID{liker}, posts[1].Likes)
	assert.Equal(t, &models.Media{URL: "https://cdn/x.mp4", Type: models.MediaTypeVideo}, posts[1].Media)
}

func TestPostService_Get(t *testing.T) {
	svc, m := newPostService(t)
	id := uuid.New()

	m.reader.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)
	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, services.ErrPostNotFound)

	dbErr := errors.New("db error")
	m.reader.EXPECT().GetByID(gomock.Any(), id).Return(nil, dbErr)
	_, err = svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, dbErr)
}

func TestPostService_Create(t *testing.T) {
	authorID := uuid.New()

	t.Run("with media", func(t *testing.T) {
		svc, m := newPostService(t)
		upload := &models.Upload{Filename: "cat.mp4", ContentType: "video/mp4", Content: strings.NewReader("mp4")}

		m.media.EXPECT().
			Upload(gomock.Any(), upload).
			Return(&models.Media{URL: "https://cdn/cat.mp4", Type: models.MediaTypeVideo}, nil)

		var saved *models.PostDB
		m.writer.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.PostDB) error {
				saved = p
				return nil
			})
		m.reader.EXPECT().
			GetByID(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID) (*models.PostDB, error) {
				row := *saved
				row.Author = models.User{ID: authorID, Username: "alice"}
				return &row, nil
			})
		m.kafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				var event models.PostEvent
				require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
				assert.Equal(t, models.PostEventCreated, event.Type)
				assert.Equal(t, saved.ID.String(), event.PostID)
				assert.Equal(t, saved.ID.String(), string(msgs[0].Key))
				return nil
			})

		post, err := svc.Create(context.Background(), authorID, "Cat", "so funny", upload)
		require.NoError(t, err)
		assert.Equal(t, "Cat", post.Title)
		assert.Equal(t, "so funny", post.Content)
		assert.Equal(t, "alice", post.Author.Username)
		assert.Equal(t, models.MediaTypeVideo, post.Media.Type)
		assert.Empty(t, post.Likes)
		assert.Equal(t, authorID, saved.AuthorID)
	})

	t.Run("kafka failure does not fail the request", func(t *testing.T) {
		svc, m := newPostService(t)

		m.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		m.reader.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(&models.PostDB{Title: "t", Content: "c"}, nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := svc.Create(context.Background(), authorID, "t", "c", nil)
		assert.NoError(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		svc, _ := newPostService(t)
		_, err := svc.Create(context.Background(), authorID, " ", "c", nil)
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("unsupported media stores nothing", func(t *testing.T) {
		svc, m := newPostService(t)
		upload := &models.Upload{Filename: "doc.pdf", ContentType: "application/pdf", Content: strings.NewReader("%PDF")}

		m.media.EXPECT().Upload(gomock.Any(), upload).Return(nil, services.ErrUnsupportedMedia)

		_, err := svc.Create(context.Background(), authorID, "t", "c", upload)
		assert.ErrorIs(t, err, services.ErrUnsupportedMedia)
	})

	t.Run("deleted author", func(t *testing.T) {
		svc, m := newPostService(t)
		m.writer.EXPECT().Save(gomock.Any(), gomock.Any()).Return(repositories.ErrReferenceMissing)

		_, err := svc.Create(context.Background(), authorID, "t", "c", nil)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestPostService_Update(t *testing.T) {
	id, owner := uuid.New(), uuid.New()

	t.Run("owner updates title", func(t *testing.T) {
		svc, m := newPostService(t)
		fields := services.PostFields{Title: ptr("new title")}

		gomock.InOrder(
			m.reader.EXPECT().GetByID(gomock.Any(), id).Return(&models.PostDB{ID: id, AuthorID: owner, Title: "old"}, nil),
			m.writer.EXPECT().Update(gomock.Any(), id, owner, models.PostUpdate{Title: fields.Title}).Return(true, nil),
			m.reader.EXPECT().GetByID(gomock.Any(), id).Return(&models.PostDB{ID: id, AuthorID: owner, Title: "new title"}, nil),
		)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		post, err := svc.Update(context.Background(), id, owner, fields, nil)
		require.NoError(t, err)
		assert.Equal(t, "new title", post.Title)
	})

	t.Run("non-owner gets not found and nothing is written", func(t *testing.T) {
		svc, m := newPostService(t)
		upload := &models.Upload{Filename: "x.png", ContentType: "image/png", Content: strings.NewReader("png")}

		m.reader.EXPECT().GetByID(gomock.Any(), id).Return(&models.PostDB{ID: id, AuthorID: owner}, nil)

		_, err := svc.Update(context.Background(), id, uuid.New(), services.PostFields{Title: ptr("hijack")}, upload)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})

	t.Run("missing post", func(t *testing.T) {
		svc, m := newPostService(t)
		m.reader.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

		_, err := svc.Update(context.Background(), id, owner, services.PostFields{}, nil)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		svc, _ := newPostService(t)
		_, err := svc.Update(context.Background(), id, owner, services.PostFields{Content: ptr("")}, nil)
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("replacement media", func(t *testing.T) {
		svc, m := newPostService(t)
		upload := &models.Upload{Filename: "y.jpg", ContentType: "image/jpeg", Content: strings.NewReader("jpg")}
		media := &models.Media{URL: "https://cdn/y.jpg", Type: models.MediaTypeImage}

		m.reader.EXPECT().GetByID(gomock.Any(), id).Return(&models.PostDB{ID: id, AuthorID: owner}, nil)
		m.media.EXPECT().Upload(gomock.Any(), upload).Return(media, nil)
		m.writer.EXPECT().Update(gomock.Any(), id, owner, models.PostUpdate{Media: media}).Return(true, nil)
		m.reader.EXPECT().GetByID(gomock.Any(), id).Return(&models.PostDB{
			ID: id, AuthorID: owner, MediaURL: &media.URL, MediaType: &media.Type,
		}, nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		post, err := svc.Update(context.Background(), id, owner, services.PostFields{}, upload)
		require.NoError(t, err)
		assert.Equal(t, media, post.Media)
	})
}

func TestPostService_Delete(t *testing.T) {
	id, owner := uuid.New(), uuid.New()

	t.Run("owner", func(t *testing.T) {
		svc, m := newPostService(t)
		m.writer.EXPECT().Delete(gomock.Any(), id, owner).Return(true, nil)
		m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), id, owner))
	})

	t.Run("not owner or missing", func(t *testing.T) {
		svc, m := newPostService(t)
		m.writer.EXPECT().Delete(gomock.Any(), id, owner).Return(false, nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), id, owner), services.ErrPostNotFound)
	})
}

func TestPostService_ToggleLike(t *testing.T) {
	id, user := uuid.New(), uuid.New()

	t.Run("alternates like and unlike", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		writer := services.NewMockPostWriter(ctrl)
		kafkaWriter := services.NewMockKafkaWriter(ctrl)
		svc := services.NewPostService(services.NewMockPostReader(ctrl), writer, services.NewMockMediaUploader(ctrl), kafkaWriter)

		var events []string
		kafkaWriter.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				var event models.PostEvent
				require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
				events = append(events, event.Type)
				return nil
			}).
			Times(2)

		gomock.InOrder(
			writer.EXPECT().ToggleLike(gomock.Any(), id, user).Return(&models.LikeResult{Liked: true, LikesCount: 1}, nil),
			writer.EXPECT().ToggleLike(gomock.Any(), id, user).Return(&models.LikeResult{Liked: false, LikesCount: 0}, nil),
		)

		count, err := svc.ToggleLike(context.Background(), id, user)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = svc.ToggleLike(context.Background(), id, user)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		assert.Equal(t, []string{models.PostEventLiked, models.PostEventUnliked}, events)
	})

	t.Run("event waits for the transaction to commit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		writer := services.NewMockPostWriter(ctrl)
		kafkaWriter := services.NewMockKafkaWriter(ctrl)

		var deferred []func()
		afterCommit := func(_ context.Context, fn func()) { deferred = append(deferred, fn) }
		svc := services.NewPostService(services.NewMockPostReader(ctrl), writer, services.NewMockMediaUploader(ctrl), kafkaWriter,
			services.WithAfterCommit(afterCommit))

		writer.EXPECT().ToggleLike(gomock.Any(), id, user).Return(&models.LikeResult{Liked: true, LikesCount: 3}, nil)

		count, err := svc.ToggleLike(context.Background(), id, user)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		require.Len(t, deferred, 1)

		kafkaWriter.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				var event models.PostEvent
				require.NoError(t, json.Unmarshal(msgs[0].Value, &event))
				assert.Equal(t, models.PostEventLiked, event.Type)
				assert.Equal(t, 3, event.LikesCount)
				return nil
			})
		deferred[0]()
	})

	t.Run("missing post", func(t *testing.T) {
		svc, m := newPostService(t)
		m.writer.EXPECT().ToggleLike(gomock.Any(), id, user).Return(nil, nil)

		_, err := svc.ToggleLike(context.Background(), id, user)
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc, m := newPostService(t)
		m.writer.EXPECT().ToggleLike(gomock.Any(), id, user).Return(nil, repositories.ErrReferenceMissing)

		_, err := svc.ToggleLike(context.Background(), id, user)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestPostService_WithoutKafka(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := services.NewMockPostWriter(ctrl)
	svc := services.NewPostService(services.NewMockPostReader(ctrl), writer, services.NewMockMediaUploader(ctrl), nil)

	writer.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	assert.NoError(t, svc.Delete(context.Background(), uuid.New(), uuid.New()))
}
