package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/projectflow-api/internal/config"
	"github.com/yukikurage/projectflow-api/internal/constants"
	"github.com/yukikurage/projectflow-api/internal/dto"
	"github.com/yukikurage/projectflow-api/internal/logger"
	"github.com/yukikurage/projectflow-api/internal/services"
	"github.com/yukikurage/projectflow-api/internal/testutil"
)

type RouterTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(suite.T())
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewServices(db, constants.DefaultSessionTTL, nil, services.WithClock(func() time.Time { return now }))
	suite.router = NewRouter(db, svc, cookie.NewStore([]byte("secret")), logger.Nop())
}

func (suite *RouterTestSuite) do(token, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		suite.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) signUp(username string) (string, dto.ProfileDTO) {
	credentials := map[string]string{"username": username, "password": "supersecret"}
	w := suite.do("", http.MethodPost, "/api/auth/register", credentials)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do("", http.MethodPost, "/api/auth/login", credentials)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &login))
	return login.Token, login.User
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (suite *RouterTestSuite) TestHealthIsPublic() {
	w := suite.do("", http.MethodGet, "/api/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get(constants.HeaderRequestID))
}

func (suite *RouterTestSuite) TestProtectedRoutesRequireSession() {
	for _, path := range []string{"/api/teams", "/api/projects", "/api/tasks", "/api/task-types", "/api/dashboard", "/api/auth/me"} {
		suite.Equal(http.StatusUnauthorized, suite.do("", http.MethodGet, path, nil).Code, path)
		suite.Equal(http.StatusUnauthorized, suite.do("bogus", http.MethodGet, path, nil).Code, path)
	}
}

// A creates team Eng and adds B; A creates project Launch; B creates a high
// priority task due 2024-01-01 and comments on it; B's dashboard shows the
// task with one comment. Deleting the team removes everything under it.
func (suite *RouterTestSuite) TestTeamProjectTaskScenario() {
	t := suite.T()
	aToken, _ := suite.signUp("alice")
	bToken, b := suite.signUp("bob")
	cToken, _ := suite.signUp("carol")

	w := suite.do(aToken, http.MethodPost, "/api/teams", map[string]string{"name": "Eng"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	team := decodeBody[dto.TeamDTO](t, w)

	w = suite.do(aToken, http.MethodPost, fmt.Sprintf("/api/teams/%d/members", team.ID), map[string]any{"user_id": b.ID})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(aToken, http.MethodPost, fmt.Sprintf("/api/teams/%d/projects", team.ID), map[string]string{"name": "Launch"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	project := decodeBody[dto.ProjectDTO](t, w)
	suite.Equal(team.ID, project.TeamID)

	w = suite.do(bToken, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), map[string]any{
		"title":       "Write spec",
		"priority":    "high",
		"deadline":    "2024-01-01T00:00:00Z",
		"assignee_id": b.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := decodeBody[dto.TaskDTO](t, w)
	suite.True(task.Overdue)

	// carol is not in the team
	w = suite.do(cToken, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), map[string]any{
		"title": "Sneak in", "deadline": "2024-05-01T00:00:00Z",
	})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(http.StatusForbidden, suite.do(cToken, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]string{"title": "x"}).Code)
	suite.Equal(http.StatusForbidden, suite.do(cToken, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil).Code)

	w = suite.do(bToken, http.MethodPost, fmt.Sprintf("/api/tasks/%d/comments", task.ID), map[string]string{"body": "done"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	comment := decodeBody[dto.CommentDTO](t, w)

	w = suite.do(bToken, http.MethodGet, "/api/dashboard", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	dashboard := decodeBody[dto.DashboardDTO](t, w)
	suite.Require().Len(dashboard.Tasks, 1)
	suite.Equal("Write spec", dashboard.Tasks[0].Title)
	suite.Equal(int64(1), dashboard.Tasks[0].CommentCount)
	suite.True(dashboard.Tasks[0].AssignedToMe)
	suite.True(dashboard.Tasks[0].Overdue)
	suite.Equal(int64(1), dashboard.Stats.OverdueTasks)

	suite.Equal(http.StatusForbidden, suite.do(bToken, http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil).Code)
	suite.Equal(http.StatusNoContent, suite.do(aToken, http.MethodDelete, fmt.Sprintf("/api/teams/%d", team.ID), nil).Code)

	suite.Equal(http.StatusNotFound, suite.do(aToken, http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(bToken, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(bToken, http.MethodDelete, fmt.Sprintf("/api/comments/%d", comment.ID), nil).Code)

	w = suite.do(bToken, http.MethodGet, "/api/dashboard", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	after := decodeBody[dto.DashboardDTO](t, w)
	assert.Empty(t, after.Teams)
	assert.Empty(t, after.Tasks)
	assert.Empty(t, after.RecentComments)
}

func (suite *RouterTestSuite) TestLogoutRevokesBearerToken() {
	token, _ := suite.signUp("alice")

	suite.Equal(http.StatusOK, suite.do(token, http.MethodGet, "/api/auth/me", nil).Code)
	suite.Equal(http.StatusOK, suite.do(token, http.MethodPost, "/api/auth/logout", nil).Code)
	suite.Equal(http.StatusUnauthorized, suite.do(token, http.MethodGet, "/api/auth/me", nil).Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestNewSessionStore(t *testing.T) {
	cfg := &config.Config{
		SessionStore:  config.SessionStoreCookie,
		SessionSecret: "secret",
		SessionTTL:    time.Hour,
	}
	store, err := NewSessionStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)

	cfg.SessionStore = "memcached"
	_, err = NewSessionStore(cfg)
	assert.Error(t, err)
}
