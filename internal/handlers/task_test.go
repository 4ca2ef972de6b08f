package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/projectflow-api/internal/dto"
	apierrors "github.com/yukikurage/projectflow-api/internal/errors"
	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/services"
	"github.com/yukikurage/projectflow-api/internal/testutil"
)

type suggesterMock struct{ mock.Mock }

func (m *suggesterMock) SuggestTasks(ctx context.Context, req services.SuggestionRequest) ([]services.TaskSuggestion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.TaskSuggestion), args.Error(1)
}

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env       apiEnv
	suggester *suggesterMock
	owner     *models.User
	member    *models.User
	outside   *models.User
	team      *models.Team
	project   *models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	db := testutil.NewDB(suite.T())
	suite.suggester = new(suggesterMock)
	suite.env = newAPIEnv(suite.T(), db, suite.suggester)

	suite.owner = testutil.CreateUser(suite.T(), db, "owner")
	suite.member = testutil.CreateUser(suite.T(), db, "member")
	suite.outside = testutil.CreateUser(suite.T(), db, "outside")
	suite.team = testutil.CreateTeam(suite.T(), db, "Eng", suite.owner)
	testutil.AddMember(suite.T(), db, suite.team, suite.member, models.RoleMember)
	suite.project = testutil.CreateProject(suite.T(), db, "Launch", suite.team, suite.owner)
}

func (suite *TaskHandlerTestSuite) createTask(title string, deadline time.Time, assignee *uint64) dto.TaskDTO {
	w := suite.env.request(suite.T(), suite.member.ID, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", suite.project.ID), map[string]any{
		"title":       title,
		"priority":    "high",
		"deadline":    deadline,
		"assignee_id": assignee,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	task := suite.createTask("Write spec", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), &suite.member.ID)

	suite.Equal("Write spec", task.Title)
	suite.Equal(models.TaskPriorityHigh, task.Priority)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.True(task.Overdue)
	suite.True(task.AssignedToMe)
	suite.Require().NotNil(task.Assignee)
	suite.Equal("member", task.Assignee.Username)
	suite.Require().NotNil(task.Project)
	suite.Equal(suite.team.ID, task.Project.TeamID)
}

func (suite *TaskHandlerTestSuite) TestTaskTypes() {
	w := suite.env.request(suite.T(), suite.member.ID, http.MethodPost, "/api/task-types", map[string]string{"name": "bug"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	bug := decode[dto.TaskTypeDTO](suite.T(), w)
	suite.Equal("bug", bug.Name)

	w = suite.env.request(suite.T(), suite.owner.ID, http.MethodPost, "/api/task-types", map[string]string{"name": "bug"})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apierrors.ErrCodeAlreadyExists, decode[apierrors.APIError](suite.T(), w).Code)

	w = suite.env.request(suite.T(), suite.owner.ID, http.MethodPost, "/api/task-types", map[string]string{"name": " "})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, "/api/task-types", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[map[string][]dto.TaskTypeDTO](suite.T(), w)["task_types"], 1)

	path := fmt.Sprintf("/api/projects/%d/tasks", suite.project.ID)
	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]any{
		"title":        "Fix login",
		"deadline":     testNow.Add(time.Hour),
		"task_type_id": bug.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	task := decode[dto.TaskDTO](suite.T(), w)
	suite.Require().NotNil(task.TaskType)
	suite.Equal("bug", task.TaskType.Name)

	suite.createTask("Untyped", testNow.Add(time.Hour), nil)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, fmt.Sprintf("%s?task_type_id=%d", path, bug.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal(task.ID, list.Tasks[0].ID)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{"clear_task_type": true})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(decode[dto.TaskDTO](suite.T(), w).TaskType)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]any{"title": "x", "deadline": testNow, "task_type_id": 9999})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskErrors() {
	path := fmt.Sprintf("/api/projects/%d/tasks", suite.project.ID)
	deadline := testNow.Add(24 * time.Hour)

	w := suite.env.request(suite.T(), suite.outside.ID, http.MethodPost, path, map[string]any{"title": "x", "deadline": deadline})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apierrors.ErrCodeForbidden, decode[apierrors.APIError](suite.T(), w).Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]any{"title": "x", "deadline": deadline, "assignee_id": suite.outside.ID})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidAssignee, decode[apierrors.APIError](suite.T(), w).Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]any{"title": "x"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("deadline is required", decode[apierrors.APIError](suite.T(), w).Message)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, "/api/projects/9999/tasks", map[string]any{"title": "x", "deadline": deadline})
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, "/api/projects/abc/tasks", map[string]any{"title": "x", "deadline": deadline})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), 0, http.MethodPost, path, map[string]any{"title": "x", "deadline": deadline})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasksWithFilters() {
	suite.createTask("mine", testNow.Add(48*time.Hour), &suite.member.ID)
	suite.createTask("nobody's", testNow.Add(24*time.Hour), nil)

	w := suite.env.request(suite.T(), suite.member.ID, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", suite.project.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 2)
	suite.Equal("nobody's", list.Tasks[0].Title)
	suite.Equal(int64(2), list.Pagination.Total)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, "/api/tasks?assigned_to_me=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list = decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("mine", list.Tasks[0].Title)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, "/api/tasks?unassigned=true&limit=1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list = decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(list.Tasks, 1)
	suite.Equal("nobody's", list.Tasks[0].Title)
	suite.Equal(1, list.Pagination.TotalPages)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, "/api/tasks?status=blocked", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, "/api/tasks?sort=random", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, "/api/tasks?unassigned=maybe", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), suite.outside.ID, http.MethodGet, "/api/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[dto.TaskListResponse](suite.T(), w).Tasks)
}

func (suite *TaskHandlerTestSuite) TestUpdateStatusPriorityAndAssignee() {
	task := suite.createTask("Write spec", testNow.Add(-time.Hour), nil)
	base := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := suite.env.request(suite.T(), suite.member.ID, http.MethodPatch, base+"/status", map[string]string{"status": "done"})
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(models.TaskStatusDone, updated.Status)
	suite.Require().NotNil(updated.CompletedAt)
	suite.False(updated.Overdue)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPatch, base+"/priority", map[string]string{"priority": "urgent"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPut, base+"/assignee", map[string]any{"assignee_id": suite.owner.ID})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(&suite.owner.ID, decode[dto.TaskDTO](suite.T(), w).AssigneeID)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPut, base+"/assignee", map[string]any{"assignee_id": nil})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(decode[dto.TaskDTO](suite.T(), w).Assignee)

	w = suite.env.request(suite.T(), suite.outside.ID, http.MethodPatch, base, map[string]string{"title": "hijack"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPatch, base, map[string]string{"title": "Write the spec", "status": "in_progress"})
	suite.Require().Equal(http.StatusOK, w.Code)
	updated = decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Write the spec", updated.Title)
	suite.Nil(updated.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask("Write spec", testNow.Add(time.Hour), nil)
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	suite.Equal(http.StatusForbidden, suite.env.request(suite.T(), suite.outside.ID, http.MethodDelete, path, nil).Code)
	suite.Equal(http.StatusNoContent, suite.env.request(suite.T(), suite.member.ID, http.MethodDelete, path, nil).Code)
	suite.Equal(http.StatusNotFound, suite.env.request(suite.T(), suite.member.ID, http.MethodGet, path, nil).Code)
}

func (suite *TaskHandlerTestSuite) TestComments() {
	task := suite.createTask("Write spec", testNow.Add(time.Hour), nil)
	path := fmt.Sprintf("/api/tasks/%d/comments", task.ID)

	w := suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]string{"body": "first"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	first := decode[dto.CommentDTO](suite.T(), w)
	suite.Equal("member", first.Author.Username)

	w = suite.env.request(suite.T(), suite.owner.ID, http.MethodPost, path, map[string]string{"body": "second"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	suite.Equal(http.StatusBadRequest, suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]string{"body": "  "}).Code)
	suite.Equal(http.StatusForbidden, suite.env.request(suite.T(), suite.outside.ID, http.MethodPost, path, map[string]string{"body": "hi"}).Code)

	w = suite.env.request(suite.T(), suite.owner.ID, http.MethodGet, path, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	list := decode[struct {
		Comments []dto.CommentDTO `json:"comments"`
	}](suite.T(), w)
	suite.Require().Len(list.Comments, 2)
	suite.Equal("first", list.Comments[0].Body)
	suite.Equal("second", list.Comments[1].Body)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	suite.Equal(int64(2), decode[dto.TaskDTO](suite.T(), w).CommentCount)

	suite.Equal(http.StatusNoContent, suite.env.request(suite.T(), suite.owner.ID, http.MethodDelete, fmt.Sprintf("/api/comments/%d", first.ID), nil).Code)
	suite.Equal(http.StatusNotFound, suite.env.request(suite.T(), suite.owner.ID, http.MethodDelete, fmt.Sprintf("/api/comments/%d", first.ID), nil).Code)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks() {
	path := fmt.Sprintf("/api/projects/%d/tasks/generate", suite.project.ID)
	suite.suggester.On("SuggestTasks", mock.Anything, mock.MatchedBy(func(req services.SuggestionRequest) bool {
		return req.ProjectName == "Launch" && req.Text == "prepare the launch"
	})).Return([]services.TaskSuggestion{
		{Title: "Book venue", Priority: "high"},
		{Title: "Send invites", Priority: "whenever"},
	}, nil).Once()

	w := suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]string{"text": "prepare the launch"})
	suite.Require().Equal(http.StatusOK, w.Code)
	result := decode[dto.TaskSuggestionListResponse](suite.T(), w)
	suite.Require().Len(result.Tasks, 2)
	suite.Equal("medium", result.Tasks[1].Priority)

	suite.suggester.On("SuggestTasks", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: upstream timeout", services.ErrAIUnavailable)).Once()
	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]string{"text": "again"})
	suite.Equal(http.StatusBadGateway, w.Code)

	w = suite.env.request(suite.T(), suite.member.ID, http.MethodPost, path, map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.suggester.AssertExpectations(suite.T())
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

func TestGenerateTasksWithoutAI(t *testing.T) {
	db := testutil.NewDB(t)
	env := newAPIEnv(t, db, nil)
	owner := testutil.CreateUser(t, db, "owner")
	team := testutil.CreateTeam(t, db, "Eng", owner)
	project := testutil.CreateProject(t, db, "Launch", team, owner)

	w := env.request(t, owner.ID, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks/generate", project.ID), map[string]string{"text": "anything"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apierrors.ErrCodeServiceUnavailable, decode[apierrors.APIError](t, w).Code)
}
