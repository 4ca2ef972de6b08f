package dto

import (
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/utils"
)

// ProjectTeamDTO is the team summary embedded in a project
type ProjectTeamDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Deadline    *time.Time           `json:"deadline"`
	TeamID      uint64               `json:"team_id"`
	CreatorID   uint64               `json:"creator_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Team        *ProjectTeamDTO      `json:"team,omitempty"`
	Creator     *UserDTO             `json:"creator,omitempty"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Deadline:    project.Deadline,
		TeamID:      project.TeamID,
		CreatorID:   project.CreatorID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if project.Team.ID != 0 {
		dto.Team = &ProjectTeamDTO{ID: project.Team.ID, Name: project.Team.Name}
	}
	dto.Creator = ToUserDTOPtr(&project.Creator)
	return dto
}

// ToProjectDTOs converts a list of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
