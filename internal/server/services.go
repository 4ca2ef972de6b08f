// Package server wires repositories, services and handlers into the HTTP API.
package server

import (
	"time"

	"github.com/yukikurage/projectflow-api/internal/repository"
	"github.com/yukikurage/projectflow-api/internal/services"
	"gorm.io/gorm"
)

// Services groups the application services shared by the API and the CLI.
type Services struct {
	Auth      *services.AuthService
	Teams     *services.TeamService
	Projects  *services.ProjectService
	Tasks     *services.TaskService
	TaskTypes *services.TaskTypeService
	Comments  *services.CommentService
	Dashboard *services.DashboardService
}

// NewServices builds every service on top of gorm repositories. suggester may
// be nil, in which case task generation answers 503.
func NewServices(db *gorm.DB, sessionTTL time.Duration, suggester services.TaskSuggester, opts ...services.Option) *Services {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return &Services{
		Auth:      services.NewAuthService(userRepo, sessionRepo, sessionTTL, opts...),
		Teams:     services.NewTeamService(teamRepo, userRepo, opts...),
		Projects:  services.NewProjectService(projectRepo, teamRepo),
		Tasks:     services.NewTaskService(taskRepo, projectRepo, teamRepo, taskTypeRepo, suggester, opts...),
		TaskTypes: services.NewTaskTypeService(taskTypeRepo),
		Comments:  services.NewCommentService(commentRepo, taskRepo, teamRepo, opts...),
		Dashboard: services.NewDashboardService(userRepo, teamRepo, projectRepo, taskRepo, commentRepo, opts...),
	}
}
