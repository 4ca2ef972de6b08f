package dto

import (
	"time"

	"github.com/yukikurage/projectflow-api/internal/models"
	"github.com/yukikurage/projectflow-api/internal/services"
	"github.com/yukikurage/projectflow-api/internal/utils"
)

// TaskProjectDTO is the project summary embedded in a task
type TaskProjectDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	TeamID uint64 `json:"team_id"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	Deadline     time.Time           `json:"deadline"`
	CompletedAt  *time.Time          `json:"completed_at"`
	ProjectID    uint64              `json:"project_id"`
	CreatorID    uint64              `json:"creator_id"`
	AssigneeID   *uint64             `json:"assignee_id"`
	TaskTypeID   *uint64             `json:"task_type_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Overdue      bool                `json:"overdue"`
	CommentCount int64               `json:"comment_count"`
	AssignedToMe bool                `json:"assigned_to_me"`
	Project      *TaskProjectDTO     `json:"project,omitempty"`
	Creator      *UserDTO            `json:"creator,omitempty"`
	Assignee     *UserDTO            `json:"assignee"`
	TaskType     *TaskTypeDTO        `json:"task_type"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// TaskSuggestionListResponse wraps generated task suggestions
type TaskSuggestionListResponse struct {
	Tasks []services.TaskSuggestion `json:"tasks"`
}

// ToTaskDTO converts a task view to TaskDTO
func ToTaskDTO(view services.TaskView) TaskDTO {
	task := view.Task
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		Status:       task.Status,
		Deadline:     task.Deadline,
		CompletedAt:  task.CompletedAt,
		ProjectID:    task.ProjectID,
		CreatorID:    task.CreatorID,
		AssigneeID:   task.AssigneeID,
		TaskTypeID:   task.TaskTypeID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		Overdue:      view.Overdue,
		CommentCount: view.CommentCount,
		AssignedToMe: view.AssignedToMe,
		Creator:      ToUserDTOPtr(&task.Creator),
		Assignee:     ToUserDTOPtr(task.Assignee),
		TaskType:     ToTaskTypeDTOPtr(task.TaskType),
	}
	if task.Project.ID != 0 {
		dto.Project = &TaskProjectDTO{
			ID:     task.Project.ID,
			Name:   task.Project.Name,
			TeamID: task.Project.TeamID,
		}
	}
	return dto
}

// ToTaskDTOs converts a list of task views
func ToTaskDTOs(views []services.TaskView) []TaskDTO {
	dtos := make([]TaskDTO, len(views))
	for i, view := range views {
		dtos[i] = ToTaskDTO(view)
	}
	return dtos
}
