package server

import (
	"net/http"
	"testing"

	"pulse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_Validation(t *testing.T) {
	_, app := newTestServer(t, nil)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "newuser",
				"email":    "newuser@example.com",
				"password": testPassword,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"username": "incomplete",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "weakling",
				"email":    "weakling@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Reserved Username",
			body: map[string]string{
				"username": "admin",
				"email":    "admin@example.com",
				"password": testPassword,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"username": "someoneelse",
				"email":    "newuser@example.com",
				"password": testPassword,
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Duplicate Username",
			body: map[string]string{
				"username": "newuser",
				"email":    "other@example.com",
				"password": testPassword,
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t, nil)
	signup(t, app, "loginuser")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "loginuser@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "loginuser@example.com",
		"password": "WrongPass12!@",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Unknown accounts produce the same error as bad passwords.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefresh_IssuesWorkingToken(t *testing.T) {
	_, app := newTestServer(t, nil)
	user := signup(t, app, "refresher")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/refresh", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)

	resp = doJSON(t, app, http.MethodGet, "/api/users/me", body.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout_RevokesToken(t *testing.T) {
	redisClient := testutil.NewTestRedis(t)
	_, app := newTestServer(t, redisClient)
	user := signup(t, app, "leaver")

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", user.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The blacklisted JTI now fails authentication.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", user.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
