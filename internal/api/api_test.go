package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openarcade/scorekeep/internal/api"
	"github.com/openarcade/scorekeep/internal/api/response"
	"github.com/openarcade/scorekeep/internal/factory"
	"github.com/openarcade/scorekeep/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: app.AuthService,
		Repo:        app.Repo,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

// request performs a request against the router. The token rides in the
// token query parameter, matching the API's primary transport.
func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	if token != "" {
		path += "?token=" + token
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates a user and returns its record
func (ts *testServer) register(t *testing.T, username, password string) response.User {
	t.Helper()

	body := map[string]string{"username": username, "password": password}
	rr := ts.request(http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	return user
}

// login returns a fresh session token
func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()

	body := map[string]string{"username": username, "password": password}
	rr := ts.request(http.MethodPost, "/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// makeAdmin elevates a user directly through the repository
func (ts *testServer) makeAdmin(t *testing.T, id int) {
	t.Helper()

	user, err := ts.app.Repo.GetUser(context.Background(), id)
	require.NoError(t, err)
	user.Admin = true
	require.NoError(t, ts.app.Repo.UpdateUser(context.Background(), *user))
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

// Registration

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "alice", "secret123")
	assert.Equal(t, 0, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Admin)

	// The response must not leak the credential in any form
	assert.NotContains(t, rrBody(t, ts, "alice2"), "password")
}

// rrBody registers another user and returns the raw response body
func rrBody(t *testing.T, ts *testServer, username string) string {
	t.Helper()
	body := map[string]string{"username": username, "password": "secret123"}
	rr := ts.request(http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	return rr.Body.String()
}

func TestRegisterNeverAdmin(t *testing.T) {
	ts := newTestServer(t)

	// admin in the payload is an unknown field to registration and is ignored
	body := map[string]any{"username": "alice", "password": "secret123", "admin": true}
	rr := ts.request(http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.False(t, user.Admin)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")

	body := map[string]string{"username": "alice", "password": "other"}
	rr := ts.request(http.MethodPost, "/users", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// The store retains only the first registration
	users, err := ts.app.Repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterMissingFields(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/users", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/users", map[string]string{"password": "secret123"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Login / logout

func TestLoginAndFetchSelf(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var fetched response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, user.ID, fetched.ID)
	assert.Equal(t, "alice", fetched.Username)
}

func TestLoginWrongCredentials(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")

	body := map[string]string{"username": "alice", "password": "wrong"}
	rr := ts.request(http.MethodPost, "/login", body, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	body = map[string]string{"username": "nobody", "password": "secret123"}
	rr = ts.request(http.MethodPost, "/login", body, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodPost, "/logout", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// The token no longer authenticates anything
	rr = ts.request(http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// A second logout of the same token fails
	rr = ts.request(http.MethodPost, "/logout", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogoutWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// User access rules

func TestListUsersAdminOnly(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	ts.register(t, "bob", "secret456")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodGet, "/users", nil, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	ts.makeAdmin(t, alice.ID)

	// Sessions resolve to the current record, so the same token now works
	rr = ts.request(http.MethodGet, "/users", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var users []response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestGetOtherUser(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	bob := ts.register(t, "bob", "secret456")

	aliceToken := ts.login(t, "alice", "secret123")

	// Non-admin cannot fetch another user
	rr := ts.request(http.MethodGet, fmt.Sprintf("/users/%d", bob.ID), nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Admins can
	ts.makeAdmin(t, alice.ID)
	rr = ts.request(http.MethodGet, fmt.Sprintf("/users/%d", bob.ID), nil, aliceToken)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetUnknownUserAsAdmin(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	ts.makeAdmin(t, alice.ID)
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodGet, "/users/99", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRequestWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")

	rr := ts.request(http.MethodGet, "/users/0", nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/games", nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestBearerHeaderFallback(t *testing.T) {
	ts := newTestServer(t)

	user := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

// User patch semantics

func TestPatchUserAdminFieldNonAdmin(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	// A non-admin's attempt to self-elevate is ignored, not an error
	body := map[string]any{"admin": true, "display_name": "Alice"}
	rr := ts.request(http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), body, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.False(t, updated.Admin)
	assert.Equal(t, "Alice", updated.DisplayName)

	stored, err := ts.app.Repo.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.False(t, stored.Admin)
}

func TestPatchUserAdminFieldByAdmin(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	bob := ts.register(t, "bob", "secret456")
	ts.makeAdmin(t, alice.ID)
	token := ts.login(t, "alice", "secret123")

	body := map[string]any{"admin": true}
	rr := ts.request(http.MethodPatch, fmt.Sprintf("/users/%d", bob.ID), body, token)
	require.Equal(t, http.StatusOK, rr.Code)

	stored, err := ts.app.Repo.GetUser(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.True(t, stored.Admin)
}

func TestPatchUserUsernameRejected(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	// username is not a patchable field; unknown fields are rejected outright
	body := map[string]any{"username": "mallory"}
	rr := ts.request(http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	stored, err := ts.app.Repo.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
}

func TestPatchUserPassword(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	body := map[string]any{"password": "newsecret"}
	rr := ts.request(http.MethodPatch, fmt.Sprintf("/users/%d", alice.ID), body, token)
	require.Equal(t, http.StatusOK, rr.Code)

	// Old password no longer logs in; the new one does
	loginBody := map[string]string{"username": "alice", "password": "secret123"}
	rr = ts.request(http.MethodPost, "/login", loginBody, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	ts.login(t, "alice", "newsecret")
}

func TestPatchOtherUserForbidden(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")
	bob := ts.register(t, "bob", "secret456")
	token := ts.login(t, "alice", "secret123")

	body := map[string]any{"display_name": "Hacked"}
	rr := ts.request(http.MethodPatch, fmt.Sprintf("/users/%d", bob.ID), body, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// Games

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodPost, "/games", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, 1, game.ID)
	assert.Equal(t, alice.ID, game.UserID)
	assert.Equal(t, 0, game.Score)
	assert.False(t, game.Completed)

	// IDs are sequential from 1
	rr = ts.request(http.MethodPost, "/games", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	assert.Equal(t, 2, game.ID)
}

func TestGameOwnership(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")
	ts.register(t, "bob", "secret456")
	aliceToken := ts.login(t, "alice", "secret123")
	bobToken := ts.login(t, "bob", "secret456")

	rr := ts.request(http.MethodPost, "/games", nil, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))

	// A different authenticated user cannot fetch it
	rr = ts.request(http.MethodGet, fmt.Sprintf("/games/%d", game.ID), nil, bobToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// The creator can
	rr = ts.request(http.MethodGet, fmt.Sprintf("/games/%d", game.ID), nil, aliceToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var fetched response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, game, fetched)
}

func TestGameListVisibleToAnySession(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")
	ts.register(t, "bob", "secret456")
	aliceToken := ts.login(t, "alice", "secret123")
	bobToken := ts.login(t, "bob", "secret456")

	rr := ts.request(http.MethodPost, "/games", nil, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	// The leaderboard list is not ownership-filtered
	rr = ts.request(http.MethodGet, "/games", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var games []response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	assert.Len(t, games, 1)
}

func TestPatchGame(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodPost, "/games", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))

	body := map[string]any{"score": 1500, "completed": true}
	rr = ts.request(http.MethodPatch, fmt.Sprintf("/games/%d", game.ID), body, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, fmt.Sprintf("/games/%d", game.ID), nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, 1500, updated.Score)
	assert.True(t, updated.Completed)
	assert.Equal(t, game.ID, updated.ID)
	assert.Equal(t, alice.ID, updated.UserID)
}

func TestPatchGameImmutableFieldsRejected(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodPost, "/games", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)

	body := map[string]any{"user": 42}
	rr = ts.request(http.MethodPatch, "/games/1", body, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPatchGameNotOwner(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")
	ts.register(t, "bob", "secret456")
	aliceToken := ts.login(t, "alice", "secret123")
	bobToken := ts.login(t, "bob", "secret456")

	rr := ts.request(http.MethodPost, "/games", nil, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	body := map[string]any{"score": 9999}
	rr = ts.request(http.MethodPatch, "/games/1", body, bobToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGameNotFound(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "alice", "secret123")
	token := ts.login(t, "alice", "secret123")

	rr := ts.request(http.MethodGet, "/games/99", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Patching an unknown id is NotFound regardless of session validity
	body := map[string]any{"score": 1}
	rr = ts.request(http.MethodPatch, "/games/99", body, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// CORS

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

// Preflight requests match no registered route, so they must be answered
// before routing happens at all.
func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/users", "/games/1", "/login"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		pre := httptest.NewRecorder()
		ts.handler.ServeHTTP(pre, req)

		assert.Equal(t, http.StatusNoContent, pre.Code, "preflight %s", path)
		assert.Equal(t, "*", pre.Header().Get("Access-Control-Allow-Origin"), "preflight %s", path)
		assert.Contains(t, pre.Header().Get("Access-Control-Allow-Methods"), "PATCH", "preflight %s", path)
	}
}
