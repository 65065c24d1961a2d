package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListOldestFirst(t *testing.T) {
	db := newRepoDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	commenter := seedUser(t, db, "commenter")
	post := seedPost(t, db, author.ID, "Post", time.Now())

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	first := &models.Comment{Content: "first", PostID: post.ID, UserID: commenter.ID, CreatedAt: at}
	second := &models.Comment{Content: "second", PostID: post.ID, UserID: commenter.ID, CreatedAt: at}
	later := &models.Comment{Content: "later", PostID: post.ID, UserID: commenter.ID, CreatedAt: at.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, later))

	list, err := repo.ListByPost(ctx, post.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Oldest first, id tie-break for equal timestamps.
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, later.ID, list[2].ID)
	assert.Equal(t, commenter.Username, list[0].User.Username)
}

func TestCommentRepository_Pagination(t *testing.T) {
	db := newRepoDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "Post", time.Now())

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.Comment{
			Content: "comment", PostID: post.ID, UserID: author.ID,
			CreatedAt: at.Add(time.Duration(i) * time.Second),
		}))
	}

	page, err := repo.ListByPost(ctx, post.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint(3), page[0].ID)
	assert.Equal(t, uint(4), page[1].ID)
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	db := newRepoDB(t)
	repo := NewCommentRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCommentRepository_Delete(t *testing.T) {
	db := newRepoDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	post := seedPost(t, db, author.ID, "Post", time.Now())

	comment := &models.Comment{Content: "bye", PostID: post.ID, UserID: author.ID}
	require.NoError(t, repo.Create(ctx, comment))
	require.NoError(t, repo.Delete(ctx, comment.ID))

	_, err := repo.GetByID(ctx, comment.ID)
	assert.Error(t, err)

	list, err := repo.ListByPost(ctx, post.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
