package service

import (
	"context"
	"encoding/json"
	"testing"

	"pulse/internal/models"
	"pulse/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedEvent struct {
	userID  uint
	payload string
}

// capturingPublisher records published events instead of pushing them to Redis.
type capturingPublisher struct {
	events []capturedEvent
}

func (p *capturingPublisher) PublishUser(_ context.Context, userID uint, payload string) error {
	p.events = append(p.events, capturedEvent{userID: userID, payload: payload})
	return nil
}

func TestNotificationService_NotifyPublishesEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	liker := f.user(t, "liker")
	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "A post worth liking", Content: "body",
	})
	require.NoError(t, err)

	pub := &capturingPublisher{}
	svc := NewNotificationService(repository.NewNotificationRepository(f.db), pub)

	require.NoError(t, svc.Notify(ctx, author.ID, liker.ID, models.VerbLiked, post.ID))

	require.Len(t, pub.events, 1)
	assert.Equal(t, author.ID, pub.events[0].userID)

	var event struct {
		Type    string `json:"type"`
		Payload struct {
			ActorID uint   `json:"actor_id"`
			Verb    string `json:"verb"`
			PostID  uint   `json:"post_id"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(pub.events[0].payload), &event))
	assert.Equal(t, EventNotificationCreated, event.Type)
	assert.Equal(t, liker.ID, event.Payload.ActorID)
	assert.Equal(t, string(models.VerbLiked), event.Payload.Verb)
	assert.Equal(t, post.ID, event.Payload.PostID)
}

func TestNotificationService_SelfActionPublishesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Talking to myself", Content: "body",
	})
	require.NoError(t, err)

	pub := &capturingPublisher{}
	svc := NewNotificationService(repository.NewNotificationRepository(f.db), pub)

	require.NoError(t, svc.Notify(ctx, author.ID, author.ID, models.VerbLiked, post.ID))

	assert.Empty(t, pub.events)
	count, err := svc.CountUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationService_ReadTracking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	fan := f.user(t, "fan")
	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Read receipts", Content: "body",
	})
	require.NoError(t, err)

	svc := NewNotificationService(repository.NewNotificationRepository(f.db), nil)

	require.NoError(t, svc.Notify(ctx, author.ID, fan.ID, models.VerbLiked, post.ID))
	require.NoError(t, svc.Notify(ctx, author.ID, fan.ID, models.VerbCommented, post.ID))

	count, err := svc.CountUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	list, err := svc.ListNotifications(ctx, author.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.MarkRead(ctx, author.ID, list[0].ID))
	count, err = svc.CountUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, svc.MarkAllRead(ctx, author.ID))
	count, err = svc.CountUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
