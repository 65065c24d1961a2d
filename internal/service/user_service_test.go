package service

import (
	"context"
	"strings"
	"testing"

	"pulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_FollowLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	follower := f.user(t, "follower")
	followee := f.user(t, "followee")

	require.NoError(t, f.users.Follow(ctx, follower.ID, followee.ID))
	// Re-following is a no-op, not an error.
	require.NoError(t, f.users.Follow(ctx, follower.ID, followee.ID))

	following, err := f.users.IsFollowing(ctx, follower.ID, followee.ID)
	require.NoError(t, err)
	assert.True(t, following)

	profile, err := f.users.GetUserByID(ctx, followee.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.FollowersCount)
	assert.Equal(t, 0, profile.FollowingCount)

	require.NoError(t, f.users.Unfollow(ctx, follower.ID, followee.ID))
	require.NoError(t, f.users.Unfollow(ctx, follower.ID, followee.ID))

	following, err = f.users.IsFollowing(ctx, follower.ID, followee.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestUserService_SelfFollowRejected(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "narcissist")

	err := f.users.Follow(context.Background(), user.ID, user.ID)
	assertAppError(t, err, "SELF_FOLLOW")
}

func TestUserService_FollowMissingTarget(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "follower")

	err := f.users.Follow(context.Background(), user.ID, 999)
	assertAppError(t, err, "NOT_FOUND")
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "original")
	f.user(t, "taken")

	// Changing to a taken username is rejected.
	_, err := f.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, Username: "taken",
	})
	appErr := assertAppError(t, err, "VALIDATION_ERROR")
	assert.Equal(t, "username", appErr.Field)

	_, err = f.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, Username: strings.Repeat("a", 31),
	})
	assertAppError(t, err, "VALIDATION_ERROR")

	_, err = f.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, Bio: strings.Repeat("a", 501),
	})
	assertAppError(t, err, "VALIDATION_ERROR")

	updated, err := f.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, Username: "renamed", Bio: "hello", Avatar: "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, "hello", updated.Bio)

	// Re-submitting your own username is accepted unchanged.
	same, err := f.users.UpdateProfile(ctx, UpdateProfileInput{
		UserID: user.ID, Username: "renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", same.Username)
}

func TestUserService_RoleManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "regular")

	admin, err := f.users.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, admin)

	promoted, err := f.users.SetRole(ctx, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	admin, err = f.users.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, admin)

	_, err = f.users.SetRole(ctx, user.ID, models.RoleNone)
	require.NoError(t, err)

	admin, err = f.users.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestUserService_FollowerListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := f.user(t, "target")
	fan := f.user(t, "fan")

	require.NoError(t, f.users.Follow(ctx, fan.ID, target.ID))

	followers, err := f.users.GetFollowers(ctx, target.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, fan.ID, followers[0].ID)

	_, err = f.users.GetFollowers(ctx, 999, 50, 0)
	assertAppError(t, err, "NOT_FOUND")
}
