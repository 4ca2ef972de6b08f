package dto

import "github.com/yukikurage/projectflow-api/internal/services"

// DashboardStatsDTO summarizes the user's workload
type DashboardStatsDTO struct {
	ActiveTasks       int64 `json:"active_tasks"`
	CompletedTasks    int64 `json:"completed_tasks"`
	OverdueTasks      int64 `json:"overdue_tasks"`
	ActiveProjects    int64 `json:"active_projects"`
	CompletedProjects int64 `json:"completed_projects"`
}

// DashboardDTO is the landing page payload
type DashboardDTO struct {
	User           ProfileDTO        `json:"user"`
	Teams          []TeamWithRoleDTO `json:"teams"`
	Projects       []ProjectDTO      `json:"projects"`
	Tasks          []TaskDTO         `json:"tasks"`
	RecentComments []CommentDTO      `json:"recent_comments"`
	Stats          DashboardStatsDTO `json:"stats"`
}

// ToDashboardDTO converts a dashboard to DTO
func ToDashboardDTO(d services.Dashboard) DashboardDTO {
	dto := DashboardDTO{
		Teams:          ToTeamWithRoleDTOs(d.Teams),
		Projects:       ToProjectDTOs(d.Projects),
		Tasks:          ToTaskDTOs(d.Tasks),
		RecentComments: ToCommentDTOs(d.RecentComments),
		Stats: DashboardStatsDTO{
			ActiveTasks:       d.Stats.ActiveTasks,
			CompletedTasks:    d.Stats.CompletedTasks,
			OverdueTasks:      d.Stats.OverdueTasks,
			ActiveProjects:    d.Stats.ActiveProjects,
			CompletedProjects: d.Stats.CompletedProjects,
		},
	}
	if d.User != nil {
		dto.User = ToProfileDTO(*d.User)
	}
	return dto
}
