package dto

import "github.com/yukikurage/projectflow-api/internal/models"

// TaskTypeDTO represents a task type in API responses
type TaskTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func ToTaskTypeDTO(taskType *models.TaskType) TaskTypeDTO {
	return TaskTypeDTO{ID: taskType.ID, Name: taskType.Name}
}

// ToTaskTypeDTOPtr returns nil for a task without a type
func ToTaskTypeDTOPtr(taskType *models.TaskType) *TaskTypeDTO {
	if taskType == nil || taskType.ID == 0 {
		return nil
	}
	dto := ToTaskTypeDTO(taskType)
	return &dto
}

func ToTaskTypeDTOs(taskTypes []models.TaskType) []TaskTypeDTO {
	dtos := make([]TaskTypeDTO, len(taskTypes))
	for i := range taskTypes {
		dtos[i] = ToTaskTypeDTO(&taskTypes[i])
	}
	return dtos
}
