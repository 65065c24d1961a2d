package service

import (
	"fmt"
	"testing"

	"pulse/internal/models"
	"pulse/internal/repository"
	"pulse/internal/testutil"

	"gorm.io/gorm"
)

// fixture wires real repositories over an in-memory database so service
// behavior is exercised end to end, without Redis.
type fixture struct {
	db            *gorm.DB
	users         *UserService
	posts         *PostService
	comments      *CommentService
	notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithFeed(t, true)
}

func newFixtureWithFeed(t *testing.T, feedIncludeSelf bool) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	users := NewUserService(userRepo, followRepo)
	notifications := NewNotificationService(notificationRepo, nil)
	posts := NewPostService(postRepo, notifications, users.IsAdmin, feedIncludeSelf)
	comments := NewCommentService(commentRepo, postRepo, notifications)

	return &fixture{
		db:            db,
		users:         users,
		posts:         posts,
		comments:      comments,
		notifications: notifications,
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed-password",
	}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return u
}

func (f *fixture) admin(t *testing.T, username string) *models.User {
	t.Helper()
	u := f.user(t, username)
	if err := f.db.Model(u).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote user %s: %v", username, err)
	}
	u.Role = models.RoleAdmin
	return u
}
