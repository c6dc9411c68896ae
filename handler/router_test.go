package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideas-service/handler"
	"ideas-service/middleware"
	"ideas-service/model"
	"ideas-service/repository/inmem"
	"ideas-service/service"
)

const testSecret = "test-secret"

type apiTest struct {
	store  *inmem.Store
	server http.Handler
}

func newAPITest() *apiTest {
	store := inmem.NewStore()
	logger := zap.NewNop()

	queries := service.NewQueryService(store.Ideas(), store.Follows(), store.Users(), nil, logger)
	mutations := service.NewMutationService(store.Ideas(), store.Follows(), store.Users(), nil, nil, logger)

	auth := middleware.NewAuthenticator(testSecret)
	router := handler.NewRouter(queries, mutations, auth, logger, nil)

	return &apiTest{store: store, server: router.Setup()}
}

func (a *apiTest) addUser(username string) uuid.UUID {
	id := uuid.New()
	a.store.AddUser(models.User{ID: id, Username: username})
	return id
}

func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (a *apiTest) do(t *testing.T, method, path string, viewerID *uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if viewerID != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, *viewerID))
	}

	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	return rec
}

func TestRequiresAuthentication(t *testing.T) {
	api := newAPITest()

	rec := api.do(t, http.MethodGet, "/api/timeline", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthIsPublic(t *testing.T) {
	api := newAPITest()

	rec := api.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateIdeaAndReadTimeline(t *testing.T) {
	api := newAPITest()
	alice := api.addUser("alice")

	rec := api.do(t, http.MethodPost, "/api/ideas", &alice, map[string]string{
		"text":       "hola",
		"visibility": "PUBLIC",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Idea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "hola", created.Text)
	assert.Equal(t, alice, created.AuthorID)

	rec = api.do(t, http.MethodGet, "/api/timeline", &alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var timeline []models.Idea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timeline))
	require.Len(t, timeline, 1)
	assert.Equal(t, created.ID, timeline[0].ID)
}

func TestCreateIdeaInvalidVisibilityIsBadRequest(t *testing.T) {
	api := newAPITest()
	alice := api.addUser("alice")

	rec := api.do(t, http.MethodPost, "/api/ideas", &alice, map[string]string{
		"text":       "hola",
		"visibility": "EVERYONE",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeVisibilityByStrangerIsNotFound(t *testing.T) {
	api := newAPITest()
	alice := api.addUser("alice")
	mallory := api.addUser("mallory")

	rec := api.do(t, http.MethodPost, "/api/ideas", &alice, map[string]string{
		"text":       "hola",
		"visibility": "PRIVATE",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Idea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodPatch,
		fmt.Sprintf("/api/ideas/%s/visibility", created.ID), &mallory,
		map[string]string{"visibility": "PUBLIC"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowApproveFlowOverHTTP(t *testing.T) {
	api := newAPITest()
	viewer := api.addUser("viewer")
	author := api.addUser("author")

	// author posts a protected idea.
	rec := api.do(t, http.MethodPost, "/api/ideas", &author, map[string]string{
		"text":       "members only",
		"visibility": "PROTECTED",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// viewer requests to follow.
	rec = api.do(t, http.MethodPost, "/api/follows", &viewer, map[string]string{
		"user_id": author.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var follow models.Follow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &follow))
	assert.False(t, follow.Approved)

	// A duplicate request conflicts.
	rec = api.do(t, http.MethodPost, "/api/follows", &viewer, map[string]string{
		"user_id": author.String(),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Pending: the protected idea is hidden.
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/users/%s/ideas", author), &viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ideas []models.Idea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ideas))
	assert.Empty(t, ideas)

	// The follower cannot approve their own request.
	rec = api.do(t, http.MethodPost,
		fmt.Sprintf("/api/followers/%s/decision", follow.ID), &viewer,
		map[string]bool{"approved": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The author approves; the idea becomes visible.
	rec = api.do(t, http.MethodPost,
		fmt.Sprintf("/api/followers/%s/decision", follow.ID), &author,
		map[string]bool{"approved": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/users/%s/ideas", author), &viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ideas))
	require.Len(t, ideas, 1)
	assert.Equal(t, "members only", ideas[0].Text)
}

func TestSearchUsersOverHTTP(t *testing.T) {
	api := newAPITest()
	alice := api.addUser("alice")
	api.addUser("bob")

	rec := api.do(t, http.MethodGet, "/api/users/search?q=bo", &alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}
