package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/internal/config"
	"pulse/internal/featureflags"
	"pulse/internal/realtime"
	"pulse/internal/repository"
	"pulse/internal/service"
	"pulse/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testPassword = "SecurePass12!@"

// newTestServer builds a Server over an in-memory database. Redis may be nil;
// rate limiting is disabled outside production and the cache degrades to
// direct reads.
func newTestServer(t *testing.T, redisClient *redis.Client) (*Server, *fiber.App) {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		Env:             "test",
		JWTSecret:       "test_secret",
		FeedIncludeSelf: true,
		FeatureFlags:    "realtime_notifications=on",
	}

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
		hub:              realtime.NewHub(),
		publisher:        realtime.NewPublisher(redisClient),
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}
	s.userService = service.NewUserService(s.userRepo, s.followRepo)
	s.notificationService = service.NewNotificationService(s.notificationRepo, s.publisher)
	s.postService = service.NewPostService(
		s.postRepo, s.notificationService, s.userService.IsAdmin, cfg.FeedIncludeSelf)
	s.commentService = service.NewCommentService(
		s.commentRepo, s.postRepo, s.notificationService)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON issues a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

type authedUser struct {
	ID    uint
	Token string
}

// signup registers a user through the API and returns the issued token.
func signup(t *testing.T, app *fiber.App, username string) authedUser {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	require.NotZero(t, body.User.ID)
	return authedUser{ID: body.User.ID, Token: body.Token}
}

// promote flips the user's role to admin directly in the database so admin
// routes can be exercised without a pre-seeded admin account.
func promote(t *testing.T, s *Server, userID uint) {
	t.Helper()
	require.NoError(t, s.db.Table("users").Where("id = ?", userID).Update("role", "admin").Error)
}

func TestAuthRequired_RejectsMissingAndGarbageTokens(t *testing.T) {
	_, app := newTestServer(t, nil)

	resp := doJSON(t, app, http.MethodGet, "/api/feed", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/feed", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired_RejectsNonAdmin(t *testing.T) {
	s, app := newTestServer(t, nil)
	user := signup(t, app, "regular")
	target := signup(t, app, "target")

	resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/promote-admin", target.ID), user.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	promote(t, s, user.ID)
	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/promote-admin", target.ID), user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLivenessCheck(t *testing.T) {
	_, app := newTestServer(t, nil)

	resp := doJSON(t, app, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
