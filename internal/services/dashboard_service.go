package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/projectflow-api/internal/constants"
	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/repository"
)

// DashboardService composes the read-only overview of a user's work.
type DashboardService struct {
	userRepo    repository.UserRepository
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	commentRepo repository.CommentRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	commentRepo repository.CommentRepository,
	opts ...Option,
) *DashboardService {
	o := applyOptions(opts)
	return &DashboardService{
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		now:         o.now,
	}
}

// Dashboard is everything shown on a user's landing page.
type Dashboard struct {
	User           *models.User
	Teams          []models.TeamMember
	Projects       []models.Project
	Tasks          []TaskView
	RecentComments []models.Comment
	Stats          DashboardStats
}

// DashboardStats summarizes the user's assigned work and their teams' projects.
type DashboardStats struct {
	ActiveTasks       int64
	CompletedTasks    int64
	OverdueTasks      int64
	ActiveProjects    int64
	CompletedProjects int64
}

// GetDashboard builds the dashboard for a user.
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint64) (*Dashboard, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	memberships, err := s.teamRepo.ListMembershipsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	dashboard := &Dashboard{
		User:           user,
		Teams:          memberships,
		Projects:       []models.Project{},
		Tasks:          []TaskView{},
		RecentComments: []models.Comment{},
	}
	if len(memberships) == 0 {
		return dashboard, nil
	}

	teamIDs := make([]uint64, 0, len(memberships))
	for _, m := range memberships {
		teamIDs = append(teamIDs, m.TeamID)
	}
	teamIDs = uniqueUint64(teamIDs)

	dashboard.Projects, _, err = s.projectRepo.List(ctx, repository.ProjectFilter{
		TeamIDs:  teamIDs,
		Page:     1,
		PageSize: constants.DashboardProjectLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tasks, _, err := s.taskRepo.List(ctx, repository.TaskFilter{
		TeamIDs:  teamIDs,
		Sort:     repository.TaskSortOpenFirst,
		Page:     1,
		PageSize: constants.DashboardTaskLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	taskIDs := make([]uint64, len(tasks))
	for i, t := range tasks {
		taskIDs[i] = t.ID
	}
	counts, err := s.taskRepo.CountComments(ctx, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	now := s.now()
	dashboard.Tasks = buildTaskViews(tasks, counts, userID, now)

	dashboard.RecentComments, err = s.commentRepo.ListRecentForTeams(ctx, teamIDs, constants.DashboardCommentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent comments: %w", err)
	}

	dashboard.Stats, err = s.stats(ctx, userID, teamIDs, now)
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}

func (s *DashboardService) stats(ctx context.Context, userID uint64, teamIDs []uint64, now time.Time) (DashboardStats, error) {
	var stats DashboardStats

	taskCounts, err := s.taskRepo.CountForAssignee(ctx, userID, teamIDs)
	if err != nil {
		return stats, fmt.Errorf("failed to count tasks: %w", err)
	}
	stats.ActiveTasks = taskCounts[models.TaskStatusTodo] + taskCounts[models.TaskStatusInProgress]
	stats.CompletedTasks = taskCounts[models.TaskStatusDone]

	stats.OverdueTasks, err = s.taskRepo.CountOverdueForAssignee(ctx, userID, teamIDs, now)
	if err != nil {
		return stats, fmt.Errorf("failed to count overdue tasks: %w", err)
	}

	projectCounts, err := s.projectRepo.CountByStatus(ctx, teamIDs)
	if err != nil {
		return stats, fmt.Errorf("failed to count projects: %w", err)
	}
	stats.ActiveProjects = projectCounts[models.ProjectStatusActive]
	stats.CompletedProjects = projectCounts[models.ProjectStatusCompleted]

	return stats, nil
}
