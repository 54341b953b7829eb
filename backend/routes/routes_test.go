package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crowdfund/backend/cache"
	"crowdfund/backend/config"
	"crowdfund/backend/models"
	"crowdfund/backend/services"
	"crowdfund/backend/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t     *testing.T
	app   *fiber.App
	users *storage.MemoryUserStore
	ideas *storage.MemoryIdeaStore
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{JWTSecret: "testsecret", JWTTTL: time.Hour, SearchCacheTTL: time.Minute, LogFormat: "json"}
	logger := log.New(io.Discard, "", 0)
	users := storage.NewMemoryUserStore()
	ideas := storage.NewMemoryIdeaStore()
	forums := storage.NewMemoryForumStore()
	searchCache := cache.NewMemoryCache(cfg.SearchCacheTTL)

	app := NewApp(Dependencies{
		Cfg:      cfg,
		Logger:   logger,
		Users:    users,
		Ideas:    services.NewIdeaService(ideas, users, searchCache, cfg.SearchCacheTTL, logger),
		Forums:   services.NewForumService(forums, users, searchCache, cfg.SearchCacheTTL, logger),
		Accounts: services.NewUserService(users, logger),
	})
	return &testEnv{t: t, app: app, users: users, ideas: ideas}
}

// do sends a JSON request and decodes the JSON response into a map.
func (e *testEnv) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

// register creates an account with the given role and returns its token and id.
func (e *testEnv) register(username string, role models.Role) (string, string) {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(e.t, http.StatusCreated, status, body)

	user := body["user"].(map[string]interface{})
	id := user["id"].(string)
	if role != models.RoleClient {
		require.NoError(e.t, e.users.UpdateRole(context.Background(), id, role))
	}
	return body["token"].(string), id
}

func (e *testEnv) startIdea(token, name string, target float64) string {
	e.t.Helper()
	status, body := e.do(http.MethodPost, "/api/idea/start", token, map[string]interface{}{
		"name":            name,
		"description":     "Charging for the market square",
		"targetAmount":    target,
		"fundingDeadline": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(e.t, http.StatusCreated, status, body)
	return body["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	e := setup(t)
	e.register("alice", models.RoleClient)

	status, body := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ALICE", "email": "other@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "USERNAME_TAKEN", body["error"])

	status, body = e.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", body["error"])

	status, body = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	assert.NotEmpty(t, token)
	assert.NotContains(t, body["user"], "passwordHash")

	status, body = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["error"])

	status, body = e.do(http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "Client", body["role"])

	status, _ = e.do(http.MethodGet, "/api/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestIdeaEndpoints(t *testing.T) {
	e := setup(t)
	owner, _ := e.register("alice", models.RoleClient)
	bob, _ := e.register("bob", models.RoleClient)
	carol, _ := e.register("carol", models.RoleClient)
	mod, _ := e.register("mike", models.RoleModerator)

	ideaID := e.startIdea(owner, "Solar Kiosk", 1000)

	t.Run("start", func(t *testing.T) {
		status, body := e.do(http.MethodPost, "/api/idea/start", carol, map[string]interface{}{
			"name": "Solar Kiosk", "description": "dup", "targetAmount": 10,
			"fundingDeadline": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "IDEA_NAME_TAKEN", body["error"])

		status, body = e.do(http.MethodPost, "/api/idea/start", carol, map[string]interface{}{
			"name": "Too big", "description": "d", "targetAmount": 2_000_000,
			"fundingDeadline": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_TARGET_AMOUNT", body["error"])

		status, body = e.do(http.MethodPost, "/api/idea/start", mod, map[string]interface{}{
			"name": "Staff idea", "description": "d", "targetAmount": 10,
			"fundingDeadline": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "UNABLE_TO_START_IDEA", body["error"])

		status, _ = e.do(http.MethodPost, "/api/idea/start", "", map[string]interface{}{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("rate", func(t *testing.T) {
		tests := []struct {
			name   string
			token  string
			rate   int
			status int
			code   string
		}{
			{"first rating", bob, 4, http.StatusOK, ""},
			{"second rating", bob, 5, http.StatusConflict, "ALREADY_RATED"},
			{"owner", owner, 5, http.StatusConflict, "RATE_YOUR_IDEA"},
			{"out of range", carol, 6, http.StatusBadRequest, "INVALID_RATING"},
			{"moderator", mod, 3, http.StatusForbidden, "UNABLE_TO_RATE"},
		}
		for _, tt := range tests {
			status, body := e.do(http.MethodPost, "/api/idea/rate", tt.token, map[string]interface{}{"ideaId": ideaID, "rate": tt.rate})
			assert.Equal(t, tt.status, status, tt.name)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["error"], tt.name)
			}
		}

		status, body := e.do(http.MethodPost, "/api/idea/rate", bob, map[string]interface{}{"ideaId": "not-a-uuid", "rate": 3})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ID", body["error"])
	})

	t.Run("invest", func(t *testing.T) {
		status, body := e.do(http.MethodPost, "/api/idea/invest", bob, map[string]interface{}{"ideaId": ideaID, "amount": 600})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, 600.0, body["alreadyCollected"])

		status, body = e.do(http.MethodPost, "/api/idea/invest", carol, map[string]interface{}{"ideaId": ideaID, "amount": 500})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "FUNDING_AMOUNT_GREATER_THAN_TARGET", body["error"])

		status, body = e.do(http.MethodPost, "/api/idea/invest", owner, map[string]interface{}{"ideaId": ideaID, "amount": 1})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "INVEST_YOUR_IDEA", body["error"])

		status, body = e.do(http.MethodPost, "/api/idea/invest", carol, map[string]interface{}{"ideaId": ideaID, "amount": 0})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_FUNDING_AMOUNT", body["error"])
	})

	t.Run("comments", func(t *testing.T) {
		status, body := e.do(http.MethodPost, "/api/idea/add-comment", bob, map[string]interface{}{"ideaId": ideaID, "text": "Great idea"})
		require.Equal(t, http.StatusOK, status, body)
		commentID := body["id"].(string)
		assert.Equal(t, "bob", body["authorUsername"])

		status, body = e.do(http.MethodPost, "/api/idea/add-comment", bob, map[string]interface{}{"ideaId": ideaID, "text": "   "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "EMPTY_COMMENT", body["error"])

		status, body = e.do(http.MethodDelete, "/api/idea/delete-comment", carol, map[string]interface{}{"ideaId": ideaID, "commentId": commentID})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "NOT_ENOUGH_ACCESS", body["error"])

		status, _ = e.do(http.MethodDelete, "/api/idea/delete-comment", mod, map[string]interface{}{"ideaId": ideaID, "commentId": commentID})
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("views", func(t *testing.T) {
		status, body := e.do(http.MethodGet, "/api/idea/get/"+ideaID, carol, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["canEdit"])
		assert.Equal(t, "alice", body["creatorUsername"])
		assert.Equal(t, 4.0, body["averageRating"])

		status, body = e.do(http.MethodGet, "/api/idea/get/"+ideaID, mod, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["canEdit"])
	})

	t.Run("list and search", func(t *testing.T) {
		e.startIdea(owner, "Solar Roof", 500)
		e.startIdea(owner, "Wind Farm", 500)

		status, body := e.do(http.MethodGet, "/api/idea/get/sorted?page=1&limit=2&sortBy=name&sortOrder=asc", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 3.0, body["total"])
		assert.Equal(t, 2.0, body["totalPages"])
		ideas := body["ideas"].([]interface{})
		require.Len(t, ideas, 2)
		assert.Equal(t, "Solar Kiosk", ideas[0].(map[string]interface{})["name"])

		status, body = e.do(http.MethodGet, "/api/idea/get/sorted?page=0", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PARAMETERS", body["error"])

		status, body = e.do(http.MethodGet, "/api/idea/get/sorted?page=100000000000000000&limit=100", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PARAMETERS", body["error"])

		status, body = e.do(http.MethodGet, "/api/idea/get/sorted?sortBy=rating", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PARAMETERS", body["error"])

		status, body = e.do(http.MethodGet, "/api/idea/search?query=SOLAR&limit=5", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 2.0, body["total"])
		assert.Equal(t, 5.0, body["limit"])

		status, body = e.do(http.MethodGet, "/api/idea/search?query=%20%20", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_QUERY", body["error"])

		status, body = e.do(http.MethodGet, "/api/idea/search?query=solar&limit=51", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_PARAMETERS", body["error"])
	})

	t.Run("close", func(t *testing.T) {
		status, body := e.do(http.MethodPatch, "/api/idea/close/"+ideaID, carol, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "NOT_ENOUGH_ACCESS", body["error"])

		status, _ = e.do(http.MethodPatch, "/api/idea/close/"+ideaID, owner, nil)
		assert.Equal(t, http.StatusOK, status)

		status, body = e.do(http.MethodPatch, "/api/idea/close/"+ideaID, mod, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "IDEA_ALREADY_CLOSED", body["error"])

		status, body = e.do(http.MethodPost, "/api/idea/invest", carol, map[string]interface{}{"ideaId": ideaID, "amount": 10})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "IDEA_CLOSED", body["error"])
	})

	t.Run("missing", func(t *testing.T) {
		status, body := e.do(http.MethodGet, "/api/idea/get/6f1c2b8e-3d4a-4f5b-9c7d-0e1f2a3b4c5d", bob, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "IDEA_NOT_FOUND", body["error"])
	})
}

func TestForumEndpoints(t *testing.T) {
	e := setup(t)
	owner, _ := e.register("alice", models.RoleClient)
	bob, _ := e.register("bob", models.RoleClient)
	admin, _ := e.register("ada", models.RoleAdmin)

	status, body := e.do(http.MethodPost, "/api/forum/create", owner, map[string]string{"title": "How to pitch?", "description": "Tips welcome"})
	require.Equal(t, http.StatusCreated, status, body)
	forumID := body["id"].(string)

	status, body = e.do(http.MethodPost, "/api/forum/create", bob, map[string]string{"title": "How to pitch?", "description": "dup"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "FORUM_TITLE_TAKEN", body["error"])

	status, body = e.do(http.MethodPost, "/api/forum/create", bob, map[string]string{"title": "", "description": "d"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_TITLE", body["error"])

	status, body = e.do(http.MethodPost, "/api/forum/add-comment", bob, map[string]string{"forumId": forumID, "text": "Keep it short"})
	require.Equal(t, http.StatusOK, status, body)
	commentID := body["id"].(string)

	status, body = e.do(http.MethodPatch, "/api/forum/mark-helpful", bob, map[string]interface{}{"forumId": forumID, "commentId": commentID, "isHelpful": true})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NOT_ENOUGH_ACCESS", body["error"])

	status, _ = e.do(http.MethodPatch, "/api/forum/mark-helpful", owner, map[string]interface{}{"forumId": forumID, "commentId": commentID, "isHelpful": true})
	assert.Equal(t, http.StatusOK, status)

	status, body = e.do(http.MethodGet, "/api/forum/get/"+forumID, bob, nil)
	require.Equal(t, http.StatusOK, status)
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, true, comments[0].(map[string]interface{})["isHelpful"])

	status, body = e.do(http.MethodGet, "/api/forum/search?query=pitch", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["total"])

	status, body = e.do(http.MethodGet, "/api/forum/get/sorted?sortBy=title", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["forums"], 1)

	status, body = e.do(http.MethodPatch, "/api/forum/close/"+forumID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NOT_ENOUGH_ACCESS", body["error"])

	status, _ = e.do(http.MethodPatch, "/api/forum/close/"+forumID, admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = e.do(http.MethodPost, "/api/forum/add-comment", bob, map[string]string{"forumId": forumID, "text": "late"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "FORUM_CLOSED", body["error"])

	status, body = e.do(http.MethodGet, "/api/forum/get/sorted", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["forums"])
}

func TestUserModerationEndpoints(t *testing.T) {
	e := setup(t)
	_, aliceID := e.register("alice", models.RoleClient)
	bob, bobID := e.register("bob", models.RoleClient)
	mod, _ := e.register("mike", models.RoleModerator)
	admin, adminID := e.register("ada", models.RoleAdmin)

	status, body := e.do(http.MethodPatch, "/api/user/role/"+aliceID, mod, map[string]string{"role": "Moderator"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NOT_ENOUGH_ACCESS", body["error"])

	status, body = e.do(http.MethodPatch, "/api/user/role/"+aliceID, admin, map[string]string{"role": "Root"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ROLE", body["error"])

	status, _ = e.do(http.MethodPatch, "/api/user/role/"+aliceID, admin, map[string]string{"role": "Moderator"})
	assert.Equal(t, http.StatusOK, status)

	status, body = e.do(http.MethodPatch, "/api/user/ban/"+adminID, mod, map[string]bool{"banned": true})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NOT_ENOUGH_ACCESS", body["error"])

	status, _ = e.do(http.MethodPatch, "/api/user/ban/"+bobID, mod, map[string]bool{"banned": true})
	assert.Equal(t, http.StatusOK, status)

	status, body = e.do(http.MethodGet, "/api/user/me", bob, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "USER_BANNED", body["error"])

	status, body = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "bob", "password": "password123"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "USER_BANNED", body["error"])
}

func TestUnknownRoute(t *testing.T) {
	e := setup(t)
	status, body := e.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
}
