package server

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/projectflow-api/internal/constants"
	"github.com/yukikurage/projectflow-api/internal/handlers"
	"github.com/yukikurage/projectflow-api/internal/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter builds the gin engine with every API route.
func NewRouter(db *gorm.DB, svc *Services, store sessions.Store, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		gin.Recovery(),
		sessions.Sessions(constants.SessionCookieName, store),
	)

	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Auth)
	teamHandler := handlers.NewTeamHandler(svc.Teams)
	projectHandler := handlers.NewProjectHandler(svc.Projects)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	taskTypeHandler := handlers.NewTaskTypeHandler(svc.TaskTypes)
	commentHandler := handlers.NewCommentHandler(svc.Comments)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	healthHandler := handlers.NewHealthHandler(db)

	requireAuth := middleware.RequireAuth(svc.Auth)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Everything below requires a session
		protected := api.Group("")
		protected.Use(requireAuth)

		users := protected.Group("/users/me")
		{
			users.PATCH("", userHandler.UpdateProfile)
			users.POST("/password", userHandler.ChangePassword)
			users.DELETE("", userHandler.Deactivate)
		}

		teams := protected.Group("/teams")
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("", teamHandler.ListTeams)
			teams.POST("/join", teamHandler.JoinTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PATCH("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)
			teams.POST("/:id/members", teamHandler.AddMember)
			teams.PATCH("/:id/members/:user_id", teamHandler.UpdateMemberRole)
			teams.DELETE("/:id/members/:user_id", teamHandler.RemoveMember)
			teams.POST("/:id/leave", teamHandler.LeaveTeam)
			teams.POST("/:id/regenerate-code", teamHandler.RegenerateInviteCode)
			teams.GET("/:id/projects", projectHandler.ListTeamProjects)
			teams.POST("/:id/projects", projectHandler.CreateProject)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
			projects.POST("/:id/tasks", taskHandler.CreateTask)
			projects.POST("/:id/tasks/generate", taskHandler.GenerateTasks)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.PATCH("/:id/priority", taskHandler.UpdatePriority)
			tasks.PUT("/:id/assignee", taskHandler.Reassign)
			tasks.GET("/:id/comments", commentHandler.ListComments)
			tasks.POST("/:id/comments", commentHandler.AddComment)
		}

		taskTypes := protected.Group("/task-types")
		{
			taskTypes.GET("", taskTypeHandler.ListTaskTypes)
			taskTypes.POST("", taskTypeHandler.CreateTaskType)
		}

		protected.DELETE("/comments/:id", commentHandler.DeleteComment)
		protected.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	return r
}
