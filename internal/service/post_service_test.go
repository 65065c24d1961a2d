package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pulse/internal/cache"
	"pulse/internal/models"
	"pulse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")

	tests := []struct {
		name    string
		title   string
		content string
		wantErr bool
		field   string
	}{
		{name: "Valid", title: "Hi!", content: "body"},
		{name: "Title Too Short", title: "Hi", content: "body", wantErr: true, field: "title"},
		{name: "Title Whitespace Only", title: "   \t  ", content: "body", wantErr: true, field: "title"},
		{name: "Title Trimmed Below Minimum", title: " Hi ", content: "body", wantErr: true, field: "title"},
		{name: "Short Unicode Title", title: "hé", content: "body", wantErr: true, field: "title"},
		{name: "Three Rune Unicode Title", title: "héy", content: "body"},
		{name: "Title Too Long", title: strings.Repeat("a", 301), content: "body", wantErr: true, field: "title"},
		{name: "Title At Limit", title: strings.Repeat("a", 300), content: "body"},
		{name: "Unicode Title At Limit", title: strings.Repeat("é", 300), content: "body"},
		{name: "Unicode Title Too Long", title: strings.Repeat("é", 301), content: "body", wantErr: true, field: "title"},
		{name: "Empty Content", title: "Title", content: "   ", wantErr: true, field: "content"},
		{name: "Content Too Long", title: "Title", content: strings.Repeat("a", 50001), wantErr: true, field: "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := f.posts.CreatePost(ctx, CreatePostInput{
				UserID: author.ID, Title: tt.title, Content: tt.content,
			})
			if tt.wantErr {
				appErr := assertAppError(t, err, "VALIDATION_ERROR")
				assert.Equal(t, tt.field, appErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.title), post.Title)
			assert.Equal(t, author.ID, post.UserID)
		})
	}
}

func TestPostService_UpdatePost_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	intruder := f.user(t, "intruder")
	admin := f.admin(t, "moderator")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Original", Content: "body",
	})
	require.NoError(t, err)

	_, err = f.posts.UpdatePost(ctx, UpdatePostInput{
		UserID: intruder.ID, PostID: post.ID, Title: "Hijacked",
	})
	assertAppError(t, err, "FORBIDDEN")

	// Admins get no update override; editing stays with the author.
	_, err = f.posts.UpdatePost(ctx, UpdatePostInput{
		UserID: admin.ID, PostID: post.ID, Title: "Moderated",
	})
	assertAppError(t, err, "FORBIDDEN")

	updated, err := f.posts.UpdatePost(ctx, UpdatePostInput{
		UserID: author.ID, PostID: post.ID, Title: "Renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "body", updated.Content, "omitted fields stay unchanged")
}

func TestPostService_DeletePost_AdminOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	intruder := f.user(t, "intruder")
	admin := f.admin(t, "moderator")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Target", Content: "body",
	})
	require.NoError(t, err)

	err = f.posts.DeletePost(ctx, DeletePostInput{UserID: intruder.ID, PostID: post.ID})
	assertAppError(t, err, "FORBIDDEN")

	require.NoError(t, f.posts.DeletePost(ctx, DeletePostInput{UserID: admin.ID, PostID: post.ID}))

	_, err = f.posts.GetPost(ctx, post.ID, 0)
	assertAppError(t, err, "NOT_FOUND")
}

func TestPostService_LikePost_NotifiesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	fan := f.user(t, "fan")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Likeable", Content: "body",
	})
	require.NoError(t, err)

	res, err := f.posts.LikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 1, res.Post.LikesCount)
	assert.True(t, res.Post.Liked)

	// Second like is a no-op, reported through Created, and must not append
	// another notification.
	res, err = f.posts.LikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, 1, res.Post.LikesCount)

	list, err := f.notifications.ListNotifications(ctx, author.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.VerbLiked, list[0].Verb)
	assert.Equal(t, fan.ID, list[0].ActorID)
	assert.Equal(t, post.ID, list[0].PostID)
}

func TestPostService_LikeOwnPost_NoNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Self Like", Content: "body",
	})
	require.NoError(t, err)

	res, err := f.posts.LikePost(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 1, res.Post.LikesCount)

	list, err := f.notifications.ListNotifications(ctx, author.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostService_UnlikePost_KeepsNotificationHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "author")
	fan := f.user(t, "fan")

	post, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Fickle", Content: "body",
	})
	require.NoError(t, err)

	_, err = f.posts.LikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)

	unliked, err := f.posts.UnlikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.Zero(t, unliked.LikesCount)
	assert.False(t, unliked.Liked)

	// Unliking never retracts the stored notification.
	list, err := f.notifications.ListNotifications(ctx, author.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Unliking a post that is not liked is a no-op.
	_, err = f.posts.UnlikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
}

func TestPostService_LikeMissingPost(t *testing.T) {
	f := newFixture(t)
	fan := f.user(t, "fan")

	_, err := f.posts.LikePost(context.Background(), fan.ID, 999)
	assertAppError(t, err, "NOT_FOUND")
}

func TestPostService_GetFeed_SelfInclusionConfig(t *testing.T) {
	withSelf := newFixtureWithFeed(t, true)
	ctx := context.Background()

	author := withSelf.user(t, "author")
	_, err := withSelf.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Mine", Content: "body",
	})
	require.NoError(t, err)

	feed, err := withSelf.posts.GetFeed(ctx, author.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	withoutSelf := newFixtureWithFeed(t, false)
	author2 := withoutSelf.user(t, "author")
	_, err = withoutSelf.posts.CreatePost(ctx, CreatePostInput{
		UserID: author2.ID, Title: "Mine", Content: "body",
	})
	require.NoError(t, err)

	feed, err = withoutSelf.posts.GetFeed(ctx, author2.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestPostService_ListPosts_SearchBypassesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := f.user(t, "author")
	_, err := f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Searchable gopher", Content: "body",
	})
	require.NoError(t, err)
	_, err = f.posts.CreatePost(ctx, CreatePostInput{
		UserID: author.ID, Title: "Unrelated", Content: "body",
	})
	require.NoError(t, err)

	found, err := f.posts.ListPosts(ctx, ListPostsInput{Search: "gopher", Limit: 50})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Searchable gopher", found[0].Title)

	all, err := f.posts.ListPosts(ctx, ListPostsInput{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostService_ListPosts_CacheKeepsPageSize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cache.SetClient(testutil.NewTestRedis(t))
	t.Cleanup(func() { cache.SetClient(nil) })

	author := f.user(t, "author")
	for i := 0; i < 3; i++ {
		_, err := f.posts.CreatePost(ctx, CreatePostInput{
			UserID: author.ID, Title: fmt.Sprintf("Post %d", i), Content: "body",
		})
		require.NoError(t, err)
	}

	// The default page size populates the front-page cache.
	full, err := f.posts.ListPosts(ctx, ListPostsInput{Limit: 20})
	require.NoError(t, err)
	require.Len(t, full, 3)

	// A smaller page must not be served from the cached default-size slice.
	one, err := f.posts.ListPosts(ctx, ListPostsInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, one, 1)

	// And the small query must not have narrowed the default page either.
	full, err = f.posts.ListPosts(ctx, ListPostsInput{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, full, 3)
}
