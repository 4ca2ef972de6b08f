package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/projectflow-api/internal/constants"
	"github.com/yukikurage/projectflow-api/internal/repository"
	"github.com/yukikurage/projectflow-api/internal/services"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// apiEnv serves the team, project, task, comment and dashboard routes. The
// caller is taken from a test header instead of a session.
type apiEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func newAPIEnv(t *testing.T, db *gorm.DB, suggester services.TaskSuggester) apiEnv {
	t.Helper()

	clock := services.WithClock(func() time.Time { return testNow })
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	teamHandler := NewTeamHandler(services.NewTeamService(teamRepo, userRepo, clock))
	projectHandler := NewProjectHandler(services.NewProjectService(projectRepo, teamRepo))
	taskHandler := NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, teamRepo, taskTypeRepo, suggester, clock))
	taskTypeHandler := NewTaskTypeHandler(services.NewTaskTypeService(taskTypeRepo))
	commentHandler := NewCommentHandler(services.NewCommentService(commentRepo, taskRepo, teamRepo, clock))
	dashboardHandler := NewDashboardHandler(services.NewDashboardService(userRepo, teamRepo, projectRepo, taskRepo, commentRepo, clock))

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader(testUserHeader), 10, 64); err == nil {
			c.Set(constants.ContextKeyUserID, id)
		}
	})
	api.POST("/teams", teamHandler.CreateTeam)
	api.GET("/teams", teamHandler.ListTeams)
	api.POST("/teams/join", teamHandler.JoinTeam)
	api.GET("/teams/:id", teamHandler.GetTeam)
	api.PATCH("/teams/:id", teamHandler.UpdateTeam)
	api.DELETE("/teams/:id", teamHandler.DeleteTeam)
	api.POST("/teams/:id/members", teamHandler.AddMember)
	api.PATCH("/teams/:id/members/:user_id", teamHandler.UpdateMemberRole)
	api.DELETE("/teams/:id/members/:user_id", teamHandler.RemoveMember)
	api.POST("/teams/:id/leave", teamHandler.LeaveTeam)
	api.POST("/teams/:id/regenerate-code", teamHandler.RegenerateInviteCode)
	api.GET("/teams/:id/projects", projectHandler.ListTeamProjects)
	api.POST("/teams/:id/projects", projectHandler.CreateProject)
	api.GET("/projects", projectHandler.ListProjects)
	api.GET("/projects/:id", projectHandler.GetProject)
	api.PATCH("/projects/:id", projectHandler.UpdateProject)
	api.DELETE("/projects/:id", projectHandler.DeleteProject)
	api.GET("/projects/:id/tasks", taskHandler.ListProjectTasks)
	api.POST("/projects/:id/tasks", taskHandler.CreateTask)
	api.POST("/projects/:id/tasks/generate", taskHandler.GenerateTasks)
	api.GET("/task-types", taskTypeHandler.ListTaskTypes)
	api.POST("/task-types", taskTypeHandler.CreateTaskType)
	api.GET("/tasks", taskHandler.ListTasks)
	api.GET("/tasks/:id", taskHandler.GetTask)
	api.PATCH("/tasks/:id", taskHandler.UpdateTask)
	api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	api.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
	api.PATCH("/tasks/:id/priority", taskHandler.UpdatePriority)
	api.PUT("/tasks/:id/assignee", taskHandler.Reassign)
	api.GET("/tasks/:id/comments", commentHandler.ListComments)
	api.POST("/tasks/:id/comments", commentHandler.AddComment)
	api.DELETE("/comments/:id", commentHandler.DeleteComment)
	api.GET("/dashboard", dashboardHandler.GetDashboard)

	return apiEnv{db: db, router: r}
}

func (env apiEnv) request(t *testing.T, userID uint64, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(userID, 10))
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
